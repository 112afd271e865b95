package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nexthome/backend/pkg/openai"
	"github.com/nexthome/backend/pkg/qdrant"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	CORSOrigin    string        `yaml:"cors_origin"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	TokenDuration time.Duration `yaml:"token_duration"`
	DatabasePath  string        `yaml:"database_path"`
	// BaseURL is the public origin used when building confirmation links.
	BaseURL   string          `yaml:"base_url"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	OpenAI    openai.Config   `yaml:"openai"`
	Qdrant    qdrant.Config   `yaml:"qdrant"`
	Auth0     Auth0Config     `yaml:"auth0"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Enabled reports whether a mail transport is configured at all; without
// one, registration simply skips the confirmation mail.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

type Auth0Config struct {
	Domain       string `yaml:"domain"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type OllamaConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type EmbeddingConfig struct {
	// Provider selects the embedding backend: "openai" or "ollama".
	Provider string       `yaml:"provider"`
	Ollama   OllamaConfig `yaml:"ollama"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("NEXTHOME_ADDR", ":8080"),
		CORSOrigin:    getEnv("NEXTHOME_CORS_ORIGIN", "*"),
		JWTSecret:     getEnv("NEXTHOME_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		TokenDuration: 1 * time.Hour,
		DatabasePath:  getEnv("NEXTHOME_DATABASE_PATH", "nexthome.db"),
		BaseURL:       getEnv("NEXTHOME_BASE_URL", "http://localhost:8080"),
		OpenAI: openai.Config{
			BaseURL:        getEnv("NEXTHOME_OPENAI_BASE_URL", "https://api.openai.com"),
			APIKey:         os.Getenv("NEXTHOME_OPENAI_API_KEY"),
			EmbeddingModel: getEnv("NEXTHOME_OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002"),
			Timeout:        30 * time.Second,
		},
		Qdrant: qdrant.Config{
			BaseURL:    getEnv("NEXTHOME_QDRANT_BASE_URL", "http://localhost:6333"),
			Collection: getEnv("NEXTHOME_QDRANT_COLLECTION", "experience_cards"),
			VectorSize: 1536,
			Timeout:    15 * time.Second,
		},
		Auth0: Auth0Config{
			Domain:       os.Getenv("NEXTHOME_AUTH0_DOMAIN"),
			ClientID:     os.Getenv("NEXTHOME_AUTH0_CLIENT_ID"),
			ClientSecret: os.Getenv("NEXTHOME_AUTH0_CLIENT_SECRET"),
		},
		Embedding: EmbeddingConfig{
			Provider: getEnv("NEXTHOME_EMBEDDING_PROVIDER", "openai"),
			Ollama: OllamaConfig{
				BaseURL: getEnv("NEXTHOME_OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   getEnv("NEXTHOME_OLLAMA_MODEL", "nomic-embed-text"),
				Timeout: 30 * time.Second,
			},
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the invariants the server cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Qdrant.VectorSize <= 0 {
		return fmt.Errorf("qdrant vector_size must be positive")
	}
	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
