package api_test

import (
	"context"
	"fmt"

	"github.com/nexthome/backend/pkg/qdrant"
)

// fakes for the adapter contracts; each records calls and can be primed to
// fail.

type fakeEmbedder struct {
	Vector []float32
	Err    error
	Inputs []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.Inputs = append(f.Inputs, text)
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Vector == nil {
		return []float32{0.1, 0.2, 0.3}, nil
	}
	return f.Vector, nil
}

type fakeModerator struct {
	Flagged bool
	Err     error
	Inputs  [][]string
}

func (f *fakeModerator) Moderate(ctx context.Context, inputs []string) (bool, error) {
	f.Inputs = append(f.Inputs, inputs)
	return f.Flagged, f.Err
}

type fakeIndex struct {
	Collections []string
	Upserts     map[string][]float32
	Deleted     []string
	Hits        []qdrant.ScoredPoint

	EnsureErr error
	DeleteErr error
	UpsertErr error
	SearchErr error

	LastSearchCountry string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{Upserts: map[string][]float32{}}
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, name string) error {
	if f.EnsureErr != nil {
		return f.EnsureErr
	}
	for _, n := range f.Collections {
		if n == name {
			return nil
		}
	}
	f.Collections = append(f.Collections, name)
	return nil
}

func (f *fakeIndex) DeleteCollection(ctx context.Context, name string) error {
	return f.DeleteErr
}

func (f *fakeIndex) ListCollections(ctx context.Context) ([]string, error) {
	return f.Collections, nil
}

func (f *fakeIndex) UpsertCard(ctx context.Context, collection, cardID string, vector []float32, country string) error {
	if f.UpsertErr != nil {
		return f.UpsertErr
	}
	if len(vector) == 0 {
		return fmt.Errorf("empty vector")
	}
	f.Upserts[cardID] = vector
	return nil
}

func (f *fakeIndex) DeletePoints(ctx context.Context, collection string, ids []string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, ids...)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, collection string, vector []float32, country string, limit int, threshold float64) ([]qdrant.ScoredPoint, error) {
	f.LastSearchCountry = country
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return f.Hits, nil
}

type fakeMailer struct {
	To    []string
	Links []string
	Err   error
}

func (f *fakeMailer) SendConfirmation(to, link string) error {
	if f.Err != nil {
		return f.Err
	}
	f.To = append(f.To, to)
	f.Links = append(f.Links, link)
	return nil
}

type fakeEmailLookup struct {
	Email string
	Err   error
}

func (f *fakeEmailLookup) UserEmailByAuthID(ctx context.Context, authID string) (string, error) {
	return f.Email, f.Err
}
