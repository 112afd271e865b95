package openai

import "time"

// Config holds settings for the OpenAI client.
type Config struct {
	// BaseURL is the API origin, e.g. https://api.openai.com
	BaseURL string `yaml:"base_url" json:"base_url"`
	// APIKey authenticates embedding and moderation calls
	APIKey string `yaml:"api_key" json:"api_key"`
	// EmbeddingModel is the model used for text embeddings
	EmbeddingModel string `yaml:"embedding_model" json:"embedding_model"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.openai.com",
		EmbeddingModel: "text-embedding-ada-002",
		Timeout:        30 * time.Second,
	}
}
