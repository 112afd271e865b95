package api

import (
	"context"

	"github.com/nexthome/backend/pkg/qdrant"
)

// Adapter contracts the handlers depend on. Concrete implementations are
// pkg/openai, pkg/qdrant, internal/embedding, internal/mailer and
// internal/auth0; tests substitute fakes.

// Embedder turns a text into its vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Moderator classifies a batch of texts and reports whether any was flagged.
type Moderator interface {
	Moderate(ctx context.Context, inputs []string) (bool, error)
}

// VectorIndex is the similarity-search surface of the vector database.
// An empty collection name resolves to the configured default.
type VectorIndex interface {
	EnsureCollection(ctx context.Context, name string) error
	DeleteCollection(ctx context.Context, name string) error
	ListCollections(ctx context.Context) ([]string, error)
	UpsertCard(ctx context.Context, collection, cardID string, vector []float32, country string) error
	DeletePoints(ctx context.Context, collection string, ids []string) error
	Search(ctx context.Context, collection string, vector []float32, country string, limit int, threshold float64) ([]qdrant.ScoredPoint, error)
}

// ConfirmationSender mails a confirmation link to a new account.
type ConfirmationSender interface {
	SendConfirmation(to, link string) error
}

// EmailLookup resolves the email stored for an external auth id.
type EmailLookup interface {
	UserEmailByAuthID(ctx context.Context, authID string) (string, error)
}
