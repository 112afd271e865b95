package qdrant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexthome/backend/pkg/qdrant"
)

func testConfig(baseURL string) qdrant.Config {
	return qdrant.Config{
		BaseURL:    baseURL,
		Collection: "experience_cards",
		VectorSize: 3,
		Timeout:    2 * time.Second,
	}
}

func TestClient_EnsureCollection_CreatesWhenMissing(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":{"collections":[{"name":"other"}]}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/collections/experience_cards":
			created = true
			var body struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode create body: %v", err)
			}
			if body.Vectors.Size != 3 || body.Vectors.Distance != "Cosine" {
				t.Errorf("unexpected vectors config: %#v", body.Vectors)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := qdrant.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	if err := client.EnsureCollection(context.Background(), ""); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
	if !created {
		t.Fatalf("expected create request")
	}
}

func TestClient_EnsureCollection_SkipsWhenPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/collections" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":{"collections":[{"name":"experience_cards"}]}}`))
			return
		}
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := qdrant.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	if err := client.EnsureCollection(context.Background(), "experience_cards"); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
}

func TestClient_ListCollections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"collections":[{"name":"a"},{"name":"b"}]}}`))
	}))
	defer srv.Close()

	client, err := qdrant.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	names, err := client.ListCollections(context.Background())
	if err != nil {
		t.Fatalf("ListCollections failed: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names: %#v", names)
	}
}

func TestClient_UpsertCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/experience_cards/points" {
			if r.URL.Query().Get("wait") != "true" {
				t.Errorf("expected wait=true")
			}
			var body struct {
				Points []struct {
					ID      string            `json:"id"`
					Vector  []float32         `json:"vector"`
					Payload map[string]string `json:"payload"`
				} `json:"points"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode upsert body: %v", err)
			}
			if len(body.Points) != 1 || body.Points[0].ID != "card-1" || body.Points[0].Payload["country"] != "Italy" {
				t.Errorf("unexpected points: %#v", body.Points)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := qdrant.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	err = client.UpsertCard(context.Background(), "", "card-1", []float32{0.1, 0.2, 0.3}, "Italy")
	if err != nil {
		t.Fatalf("UpsertCard failed: %v", err)
	}
}

func TestClient_UpsertCard_EmptyVector_Fails(t *testing.T) {
	client, err := qdrant.NewClient(testConfig("http://localhost:6333"), nil)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	if err := client.UpsertCard(context.Background(), "", "card-1", nil, "Italy"); err == nil {
		t.Fatalf("expected error on empty vector")
	}
}

func TestClient_DeletePoints_NoIDsIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := qdrant.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	if err := client.DeletePoints(context.Background(), "", nil); err != nil {
		t.Fatalf("DeletePoints failed: %v", err)
	}
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/collections/experience_cards/points/search" {
			var body struct {
				Vector         []float32 `json:"vector"`
				Limit          int       `json:"limit"`
				ScoreThreshold float64   `json:"score_threshold"`
				Filter         struct {
					Must []struct {
						Key   string `json:"key"`
						Match struct {
							Value string `json:"value"`
						} `json:"match"`
					} `json:"must"`
				} `json:"filter"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode search body: %v", err)
			}
			if body.Limit != 3 || body.ScoreThreshold != 0.4 {
				t.Errorf("unexpected limit/threshold: %d %v", body.Limit, body.ScoreThreshold)
			}
			if len(body.Filter.Must) != 1 || body.Filter.Must[0].Key != "country" || body.Filter.Must[0].Match.Value != "Italy" {
				t.Errorf("unexpected filter: %#v", body.Filter)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":[{"id":"card-1","score":0.91},{"id":"card-2","score":0.55}]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := qdrant.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	hits, err := client.Search(context.Background(), "", []float32{0.1, 0.2, 0.3}, "Italy", 0, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != "card-1" || hits[1].Score != 0.55 {
		t.Fatalf("unexpected hits: %#v", hits)
	}
}

func TestClient_Search_EmptyVector_Fails(t *testing.T) {
	client, err := qdrant.NewClient(testConfig("http://localhost:6333"), nil)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	if _, err := client.Search(context.Background(), "", nil, "Italy", 0, 0); err == nil {
		t.Fatalf("expected error on empty vector")
	}
}

func TestClient_DeleteCollection_Non200_Fails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := qdrant.NewClient(testConfig(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	if err := client.DeleteCollection(context.Background(), "experience_cards"); err == nil {
		t.Fatalf("expected error on non-200")
	}
}
