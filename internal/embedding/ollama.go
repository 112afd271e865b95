package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/nexthome/backend/internal/config"
)

// ErrEmptyEmbedding is returned when the model responds without vector data.
var ErrEmptyEmbedding = errors.New("embedding: empty embedding returned")

// Ollama embeds text through a local Ollama instance.
type Ollama struct {
	api   *api.Client
	model string
}

// NewOllama creates an Ollama-backed embedder.
func NewOllama(cfg config.OllamaConfig, httpClient *http.Client) (*Ollama, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	return &Ollama{api: api.NewClient(u, httpClient), model: cfg.Model}, nil
}

// Embed returns the embedding vector for text.
func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.api.Embeddings(ctx, &api.EmbeddingRequest{Model: o.model, Prompt: text})
	if err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}

	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}

	return vec, nil
}
