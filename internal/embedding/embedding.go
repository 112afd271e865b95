// Package embedding abstracts the text-embedding backend used to vectorize
// card descriptions. Two backends exist: the OpenAI embeddings API and a
// local Ollama instance.
package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nexthome/backend/internal/config"
	"github.com/nexthome/backend/pkg/openai"
)

// Embedder turns a text into its vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New builds the Embedder selected by cfg.Embedding.Provider. The OpenAI
// backend reuses an already constructed client so the caller keeps ownership
// of its lifecycle.
func New(cfg *config.Config, openaiClient *openai.Client, httpClient *http.Client) (Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		if openaiClient == nil {
			return nil, fmt.Errorf("embedding: openai provider selected but no client configured")
		}
		return openaiClient, nil
	case "ollama":
		return NewOllama(cfg.Embedding.Ollama, httpClient)
	default:
		return nil, fmt.Errorf("embedding: unknown provider %q", cfg.Embedding.Provider)
	}
}
