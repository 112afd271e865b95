package qdrant

import "time"

// Config holds settings for the Qdrant client.
type Config struct {
	// BaseURL is the HTTP endpoint of the Qdrant instance, e.g. http://localhost:6333
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Collection is the default collection name for experience card points
	Collection string `yaml:"collection" json:"collection"`
	// VectorSize is the dimensionality of stored vectors
	VectorSize int `yaml:"vector_size" json:"vector_size"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:6333",
		Collection: "experience_cards",
		VectorSize: 1536,
		Timeout:    15 * time.Second,
	}
}
