// Package qdrant is a client for the Qdrant REST API covering the surface
// the platform needs: collection lifecycle and point upsert/delete/search
// with a country payload filter. Similarity metric is cosine.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"
)

// SearchLimit is the default maximum number of neighbors returned.
const SearchLimit = 3

// ScoreThreshold is the default minimum cosine similarity for a hit.
const ScoreThreshold = 0.4

// Client talks to a Qdrant instance over its REST API.
type Client struct {
	cfg    Config
	client *http.Client

	closed int32 // atomic flag for Close()
}

// ScoredPoint is one nearest-neighbor hit.
type ScoredPoint struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// NewClient creates a new Qdrant client.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultConfig().Collection
	}
	if cfg.VectorSize <= 0 {
		cfg.VectorSize = DefaultConfig().VectorSize
	}

	c := &Client{cfg: cfg, client: httpClient}
	logger.Info("qdrant: NewClient created", slog.String("base_url", cfg.BaseURL), slog.String("collection", cfg.Collection))
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

// package-level logger for pkg/qdrant; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/qdrant. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// CollectionName resolves an optional name to the configured default.
func (c *Client) CollectionName(name string) string {
	if name == "" {
		return c.cfg.Collection
	}
	return name
}

// EnsureCollection creates a collection with the configured vector size and
// cosine distance if it does not exist yet. Idempotent: the existing
// collection list is consulted first.
func (c *Client) EnsureCollection(ctx context.Context, name string) error {
	name = c.CollectionName(name)

	existing, err := c.ListCollections(ctx)
	if err != nil {
		return err
	}
	for _, n := range existing {
		if n == name {
			return nil
		}
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.cfg.VectorSize,
			"distance": "Cosine",
		},
	}
	return c.do(ctx, http.MethodPut, "/collections/"+url.PathEscape(name), body, nil)
}

// DeleteCollection removes a collection and all its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	name = c.CollectionName(name)
	return c.do(ctx, http.MethodDelete, "/collections/"+url.PathEscape(name), nil, nil)
}

// ListCollections enumerates the collection names on the instance.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var out struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, "/collections", nil, &out); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.Result.Collections))
	for _, col := range out.Result.Collections {
		names = append(names, col.Name)
	}

	return names, nil
}

// UpsertCard stores or replaces one point: id = card id, vector = embedding
// of the card description, payload = owner country.
func (c *Client) UpsertCard(ctx context.Context, collection, cardID string, vector []float32, country string) error {
	if len(vector) == 0 {
		return fmt.Errorf("qdrant: refusing to upsert point %s with empty vector", cardID)
	}

	collection = c.CollectionName(collection)
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":      cardID,
				"vector":  vector,
				"payload": map[string]any{"country": country},
			},
		},
	}
	return c.do(ctx, http.MethodPut, "/collections/"+url.PathEscape(collection)+"/points?wait=true", body, nil)
}

// DeletePoints removes points by id.
func (c *Client) DeletePoints(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	collection = c.CollectionName(collection)
	body := map[string]any{"points": ids}
	return c.do(ctx, http.MethodPost, "/collections/"+url.PathEscape(collection)+"/points/delete?wait=true", body, nil)
}

// Search returns up to limit nearest neighbors of vector among points tagged
// with country, dropping hits below the score threshold.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, country string, limit int, threshold float64) ([]ScoredPoint, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("qdrant: refusing to search with empty vector")
	}
	if limit <= 0 {
		limit = SearchLimit
	}
	if threshold <= 0 {
		threshold = ScoreThreshold
	}

	collection = c.CollectionName(collection)
	body := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"score_threshold": threshold,
		"with_payload":    false,
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "country", "match": map[string]any{"value": country}},
			},
		},
	}

	var out struct {
		Result []ScoredPoint `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/collections/"+url.PathEscape(collection)+"/points/search", body, &out); err != nil {
		return nil, err
	}

	return out.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
