// Package openai is a minimal client for the two OpenAI endpoints the
// platform needs: text embeddings and the moderation classifier.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"
)

// ErrEmptyEmbedding is returned when the API responds without vector data.
var ErrEmptyEmbedding = errors.New("openai: empty embedding returned")

// Client talks to the OpenAI REST API.
type Client struct {
	cfg    Config
	client *http.Client

	closed int32 // atomic flag for Close()
}

// NewClient creates a new OpenAI client.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{cfg: cfg, client: httpClient}
	logger.Info("openai: NewClient created", slog.String("base_url", cfg.BaseURL), slog.String("model", cfg.EmbeddingModel))
	return c, nil
}

// Close releases any resources held by the client. It closes idle
// connections on the underlying HTTP transport when supported and is
// idempotent.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

// package-level logger for pkg/openai; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/openai. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for a single input text.
func (c *Client) Embed(ctx context.Context, input string) ([]float32, error) {
	var out embeddingsResponse
	err := c.post(ctx, "/v1/embeddings", embeddingsRequest{Model: c.cfg.EmbeddingModel, Input: []string{input}}, &out)
	if err != nil {
		return nil, err
	}

	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}

	return out.Data[0].Embedding, nil
}

type moderationsRequest struct {
	Input []string `json:"input"`
}

type moderationsResponse struct {
	Results []struct {
		Flagged bool `json:"flagged"`
	} `json:"results"`
}

// Moderate classifies a batch of texts and reports whether any was flagged.
func (c *Client) Moderate(ctx context.Context, inputs []string) (bool, error) {
	var out moderationsResponse
	if err := c.post(ctx, "/v1/moderations", moderationsRequest{Input: inputs}, &out); err != nil {
		return false, err
	}

	for _, r := range out.Results {
		if r.Flagged {
			return true, nil
		}
	}

	return false, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openai %s returned status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
