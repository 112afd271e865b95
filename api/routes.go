package api

import (
	"github.com/gorilla/mux"

	"github.com/nexthome/backend/internal/config"
	"github.com/nexthome/backend/internal/db"
	"github.com/nexthome/backend/internal/repository/sqlite"
	"github.com/nexthome/backend/internal/token"
)

// Adapters carries the external service clients the handlers need. Mailer
// and Auth0 may be nil when the matching integration is not configured.
type Adapters struct {
	Embedder  Embedder
	Moderator Moderator
	Index     VectorIndex
	Mailer    ConfirmationSender
	Auth0     EmailLookup
}

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, ad Adapters) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddlewareWithOrigin(cfg.CORSOrigin))
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, token.NewJWTGenerator(cfg.JWTSecret, cfg.TokenDuration), ad.Mailer, cfg.BaseURL)
	usersHandler := NewUsersHandler(repo, repo, repo, ad.Index, ad.Auth0)
	cardsHandler := NewCardsHandler(repo, repo, repo, ad.Embedder, ad.Moderator, ad.Index)
	collectionsHandler := NewCollectionsHandler(repo, repo, repo, ad.Embedder, ad.Index)
	countriesHandler := &CountriesHandler{}

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/confirm", authHandler.Confirm).Methods("GET")
	r.HandleFunc("/api/countries", countriesHandler.List).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Users endpoints
	protected.HandleFunc("/users", usersHandler.GetAll).Methods("GET")
	protected.HandleFunc("/users/me", usersHandler.GetMe).Methods("GET")
	protected.HandleFunc("/users/{id}", usersHandler.Update).Methods("PUT")
	protected.HandleFunc("/users/{id}", usersHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/users/{id}/avatar", usersHandler.UpdateAvatar).Methods("PUT")

	// Cards endpoints
	protected.HandleFunc("/users/{id}/cards/{kind}", cardsHandler.Create).Methods("POST")
	protected.HandleFunc("/users/{id}/cards/{kind}", cardsHandler.List).Methods("GET")
	protected.HandleFunc("/users/{id}/cards/{kind}/{cardId}", cardsHandler.Update).Methods("PUT")
	protected.HandleFunc("/users/{id}/cards/{kind}/{cardId}", cardsHandler.Delete).Methods("DELETE")

	// Collections endpoints
	protected.HandleFunc("/collections/cards/similar", collectionsHandler.Similar).Methods("POST")
	protected.HandleFunc("/collections", collectionsHandler.List).Methods("GET")
	protected.HandleFunc("/collections", collectionsHandler.Ensure).Methods("PUT")
	protected.HandleFunc("/collections/{name}", collectionsHandler.Ensure).Methods("PUT")
	protected.HandleFunc("/collections/{name}", collectionsHandler.Delete).Methods("DELETE")

	return r
}
