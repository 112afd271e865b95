package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexthome/backend/api"
	dbfs "github.com/nexthome/backend/db"
	"github.com/nexthome/backend/internal/config"
	"github.com/nexthome/backend/internal/db"
	"github.com/nexthome/backend/internal/models"
)

// newTestRouter wires the full router against an in-memory database and fake
// adapters.
func newTestRouter(t *testing.T) (http.Handler, *fakeIndex) {
	t.Helper()

	ctx := context.Background()
	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
		BaseURL:       "http://localhost:8080",
	}

	index := newFakeIndex()
	router := api.SetupRoutes(cfg, "test", "now", d, api.Adapters{
		Embedder:  &fakeEmbedder{},
		Moderator: &fakeModerator{},
		Index:     index,
	})
	return router, index
}

func TestRoutes_OpenEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/version", "/api/countries"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Result().StatusCode)
		}
	}
}

func TestRoutes_ProtectedRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/collections"},
		{http.MethodPost, "/api/collections/cards/similar"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Result().StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, w.Result().StatusCode)
		}
	}
}

// TestRoutes_RegisterLoginFlow walks the happy path end to end: register,
// login, then use the token on a protected route.
func TestRoutes_RegisterLoginFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	regBody, _ := json.Marshal(validRegisterBody())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(regBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		data, _ := io.ReadAll(w.Result().Body)
		t.Fatalf("register: expected 200 got %d body=%s", w.Result().StatusCode, string(data))
	}

	// duplicate registration conflicts
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(regBody)))
	if w.Result().StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409 got %d", w.Result().StatusCode)
	}

	loginBody, _ := json.Marshal(map[string]string{"email": "alice@example.com", "password": "password123"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(loginBody)))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", w.Result().StatusCode)
	}

	var lr struct {
		User        *models.User `json:"user"`
		AccessToken string       `json:"accessToken"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&lr); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+lr.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200 got %d", w.Result().StatusCode)
	}

	var me models.User
	if err := json.NewDecoder(w.Result().Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != lr.User.ID {
		t.Fatalf("expected same user, got %q and %q", me.ID, lr.User.ID)
	}
}

func TestRoutes_CardLifecycleThroughRouter(t *testing.T) {
	router, index := newTestRouter(t)

	regBody, _ := json.Marshal(validRegisterBody())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(regBody)))
	var user models.User
	if err := json.NewDecoder(w.Result().Body).Decode(&user); err != nil {
		t.Fatalf("decode register: %v", err)
	}

	loginBody, _ := json.Marshal(map[string]string{"email": "alice@example.com", "password": "password123"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(loginBody)))
	var lr struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&lr); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	auth := func(req *http.Request) *http.Request {
		req.Header.Set("Authorization", "Bearer "+lr.AccessToken)
		return req
	}

	cardBody, _ := json.Marshal(map[string]string{"title": "Visa renewal", "description": longDescription})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, auth(httptest.NewRequest(http.MethodPost, "/api/users/"+user.ID+"/cards/experience", bytes.NewReader(cardBody))))
	if w.Result().StatusCode != http.StatusOK {
		data, _ := io.ReadAll(w.Result().Body)
		t.Fatalf("create card: expected 200 got %d body=%s", w.Result().StatusCode, string(data))
	}
	var card struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&card); err != nil {
		t.Fatalf("decode card: %v", err)
	}
	if _, ok := index.Upserts[card.ID]; !ok {
		t.Fatalf("card point not upserted")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, auth(httptest.NewRequest(http.MethodGet, "/api/users/"+user.ID+"/cards/experience", nil)))
	var cards []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&cards); err != nil {
		t.Fatalf("decode cards: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != card.ID {
		t.Fatalf("unexpected cards: %#v", cards)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, auth(httptest.NewRequest(http.MethodDelete, "/api/users/"+user.ID+"/cards/experience/"+card.ID, nil)))
	if w.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("delete card: expected 204 got %d", w.Result().StatusCode)
	}
	if len(index.Deleted) != 1 || index.Deleted[0] != card.ID {
		t.Fatalf("point not deleted: %v", index.Deleted)
	}
}
