package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nexthome/backend/api"
	dbfs "github.com/nexthome/backend/db"
	"github.com/nexthome/backend/internal/auth0"
	"github.com/nexthome/backend/internal/config"
	"github.com/nexthome/backend/internal/db"
	"github.com/nexthome/backend/internal/embedding"
	"github.com/nexthome/backend/internal/mailer"
	"github.com/nexthome/backend/pkg/openai"
	"github.com/nexthome/backend/pkg/qdrant"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	openai.SetLogger(logger)
	qdrant.SetLogger(logger)

	logger.Info("starting server", slog.String("version", version), slog.String("build_time", buildTime))

	ctx := context.Background()

	// Open database connection and apply pending migrations
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	openaiClient, err := openai.NewClient(cfg.OpenAI, nil)
	if err != nil {
		log.Fatalf("Failed to create OpenAI client: %v", err)
	}
	defer openaiClient.Close()

	qdrantClient, err := qdrant.NewClient(cfg.Qdrant, nil)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	defer qdrantClient.Close()

	if err := qdrantClient.EnsureCollection(ctx, ""); err != nil {
		log.Fatalf("Failed to ensure default collection: %v", err)
	}

	embedder, err := embedding.New(cfg, openaiClient, nil)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	adapters := api.Adapters{
		Embedder:  embedder,
		Moderator: openaiClient,
		Index:     qdrantClient,
	}
	if cfg.SMTP.Enabled() {
		adapters.Mailer = mailer.New(cfg.SMTP)
	}
	if cfg.Auth0.Domain != "" {
		adapters.Auth0 = auth0.NewClient(cfg.Auth0, nil)
	}

	handler := api.SetupRoutes(cfg, version, buildTime, database, adapters)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := database.Close(); err != nil {
		logger.Error("closing db", slog.Any("err", err))
	}

	logger.Info("server exited")
}
