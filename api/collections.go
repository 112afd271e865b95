package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/nexthome/backend/internal/apperr"
	"github.com/nexthome/backend/internal/models"
	"github.com/nexthome/backend/pkg/repository"
)

type CollectionsHandler struct {
	users    repository.UserRepo
	expCards repository.ExperienceCardRepo
	chCards  repository.ChallengeCardRepo
	embedder Embedder
	index    VectorIndex
}

func NewCollectionsHandler(users repository.UserRepo, expCards repository.ExperienceCardRepo, chCards repository.ChallengeCardRepo, embedder Embedder, index VectorIndex) *CollectionsHandler {
	return &CollectionsHandler{users: users, expCards: expCards, chCards: chCards, embedder: embedder, index: index}
}

// Ensure creates the collection when missing. The name is optional; the
// configured default applies when the route carries none.
func (h *CollectionsHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	logger.Info("ensure collection", slog.String("name", name))
	if err := h.index.EnsureCollection(r.Context(), name); err != nil {
		logger.Error("ensure collection failed", slog.String("name", name), slog.Any("err", err))
		writeError(w, err)
		return
	}
	logger.Info("ensure collection done", slog.String("name", name))

	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	logger.Info("delete collection", slog.String("name", name))
	if err := h.index.DeleteCollection(r.Context(), name); err != nil {
		logger.Error("delete collection failed", slog.String("name", name), slog.Any("err", err))
		writeError(w, err)
		return
	}
	logger.Info("delete collection done", slog.String("name", name))

	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.index.ListCollections(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, names)
}

type similarRequest struct {
	UserID          string `json:"userId"`
	ChallengeCardID string `json:"challengeCardId"`
}

// Similar finds the experience cards closest to a challenge card among users
// from the same country. No hit above the score threshold yields an empty
// list, not an error.
func (h *CollectionsHandler) Similar(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation([]string{"Invalid request body."}))
		return
	}

	ctx := r.Context()

	user, err := h.users.GetByID(ctx, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("user"))
		return
	}

	card, err := h.chCards.GetChallengeCard(ctx, req.ChallengeCardID)
	if err != nil {
		writeError(w, err)
		return
	}
	if card == nil {
		writeError(w, apperr.NotFound("challenge card"))
		return
	}

	logger.Info("similarity search", slog.String("user_id", user.ID), slog.String("challenge_card_id", card.ID))

	vector, err := h.embedder.Embed(ctx, strings.ToLower(card.Description))
	if err != nil {
		logger.Error("embed challenge description", slog.String("challenge_card_id", card.ID), slog.Any("err", err))
		writeError(w, err)
		return
	}

	hits, err := h.index.Search(ctx, "", vector, user.Country, 0, 0)
	if err != nil {
		logger.Error("vector search failed", slog.String("challenge_card_id", card.ID), slog.Any("err", err))
		writeError(w, err)
		return
	}

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}

	// Unknown ids (stale points) are silently dropped by the batch lookup.
	var cards []models.ExperienceCard
	if len(ids) > 0 {
		cards, err = h.expCards.GetExperienceCardsByIDs(ctx, ids)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardSummary(c))
	}

	logger.Info("similarity search done", slog.String("challenge_card_id", card.ID), slog.Int("hits", len(hits)), slog.Int("cards", len(out)))
	writeJSON(w, http.StatusOK, out)
}
