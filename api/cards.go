package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nexthome/backend/internal/apperr"
	"github.com/nexthome/backend/internal/models"
	"github.com/nexthome/backend/internal/validation"
	"github.com/nexthome/backend/pkg/repository"
)

const (
	kindExperience = "experience"
	kindChallenge  = "challenge"
)

type CardsHandler struct {
	users     repository.UserRepo
	expCards  repository.ExperienceCardRepo
	chCards   repository.ChallengeCardRepo
	embedder  Embedder
	moderator Moderator
	index     VectorIndex
}

func NewCardsHandler(users repository.UserRepo, expCards repository.ExperienceCardRepo, chCards repository.ChallengeCardRepo, embedder Embedder, moderator Moderator, index VectorIndex) *CardsHandler {
	return &CardsHandler{users: users, expCards: expCards, chCards: chCards, embedder: embedder, moderator: moderator, index: index}
}

type cardResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func cardSummary(c models.Card) cardResponse {
	return cardResponse{ID: c.CardID(), Title: c.CardTitle(), Description: c.CardDescription()}
}

// owner resolves the user and card kind from the route. An unknown kind is a
// not-found, same as a missing user.
func (h *CardsHandler) owner(r *http.Request) (*models.User, string, error) {
	vars := mux.Vars(r)

	kind := vars["kind"]
	if kind != kindExperience && kind != kindChallenge {
		return nil, "", apperr.NotFound("card kind")
	}

	user, err := h.users.GetByID(r.Context(), vars["id"])
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.NotFound("user")
	}

	return user, kind, nil
}

// indexCard embeds the lower-cased description and upserts the card's vector
// point tagged with the owner country. Point id is the card id, so create and
// update both land on the same point.
func (h *CardsHandler) indexCard(r *http.Request, card *models.ExperienceCard, country string) error {
	ctx := r.Context()

	vector, err := h.embedder.Embed(ctx, strings.ToLower(card.Description))
	if err != nil {
		logger.Error("embed card description", slog.String("card_id", card.ID), slog.Any("err", err))
		return err
	}

	if err := h.index.UpsertCard(ctx, "", card.ID, vector, country); err != nil {
		logger.Error("upsert card point", slog.String("card_id", card.ID), slog.Any("err", err))
		return err
	}

	logger.Info("card indexed", slog.String("card_id", card.ID), slog.Int("vector_size", len(vector)))
	return nil
}

func (h *CardsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, kind, err := h.owner(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req validation.CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation([]string{"Invalid request body."}))
		return
	}
	if errs := validation.Card(r.Context(), req); len(errs) > 0 {
		writeError(w, apperr.Validation(errs))
		return
	}

	ctx := r.Context()

	switch kind {
	case kindExperience:
		card := models.ExperienceCard{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Title:       req.Title,
			Description: req.Description,
			Created:     time.Now().UnixMilli(),
		}
		if err := h.expCards.CreateExperienceCard(ctx, &card); err != nil {
			writeError(w, err)
			return
		}
		if err := h.indexCard(r, &card, user.Country); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cardSummary(card))
	case kindChallenge:
		card := models.ChallengeCard{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Title:       req.Title,
			Description: req.Description,
			Created:     time.Now().UnixMilli(),
		}
		if err := h.chCards.CreateChallengeCard(ctx, &card); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cardSummary(card))
	}
}

func (h *CardsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, kind, err := h.owner(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	out := []cardResponse{}

	switch kind {
	case kindExperience:
		cards, err := h.expCards.ListExperienceCardsByUser(ctx, user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, c := range cards {
			out = append(out, cardSummary(c))
		}
	case kindChallenge:
		cards, err := h.chCards.ListChallengeCardsByUser(ctx, user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, c := range cards {
			out = append(out, cardSummary(c))
		}
	}

	writeJSON(w, http.StatusOK, out)
}

// Update revalidates and moderates the new content before anything persists;
// a flagged card stays untouched.
func (h *CardsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, kind, err := h.owner(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req validation.CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation([]string{"Invalid request body."}))
		return
	}
	if errs := validation.Card(r.Context(), req); len(errs) > 0 {
		writeError(w, apperr.Validation(errs))
		return
	}

	ctx := r.Context()
	cardID := mux.Vars(r)["cardId"]

	flagged, err := h.moderator.Moderate(ctx, []string{req.Title, req.Description})
	if err != nil {
		logger.Error("moderate card content", slog.String("card_id", cardID), slog.Any("err", err))
		writeError(w, err)
		return
	}
	if flagged {
		writeError(w, &apperr.ModerationError{})
		return
	}

	switch kind {
	case kindExperience:
		card, err := h.expCards.GetExperienceCard(ctx, cardID)
		if err != nil {
			writeError(w, err)
			return
		}
		if card == nil || card.UserID != user.ID {
			writeError(w, apperr.NotFound("experience card"))
			return
		}

		card.Title = req.Title
		card.Description = req.Description
		if err := h.expCards.UpdateExperienceCard(ctx, card); err != nil {
			writeError(w, err)
			return
		}
		if err := h.indexCard(r, card, user.Country); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cardSummary(*card))
	case kindChallenge:
		card, err := h.chCards.GetChallengeCard(ctx, cardID)
		if err != nil {
			writeError(w, err)
			return
		}
		if card == nil || card.UserID != user.ID {
			writeError(w, apperr.NotFound("challenge card"))
			return
		}

		card.Title = req.Title
		card.Description = req.Description
		if err := h.chCards.UpdateChallengeCard(ctx, card); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cardSummary(*card))
	}
}

func (h *CardsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, kind, err := h.owner(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	cardID := mux.Vars(r)["cardId"]

	switch kind {
	case kindExperience:
		card, err := h.expCards.GetExperienceCard(ctx, cardID)
		if err != nil {
			writeError(w, err)
			return
		}
		if card == nil || card.UserID != user.ID {
			writeError(w, apperr.NotFound("experience card"))
			return
		}

		if err := h.index.DeletePoints(ctx, "", []string{card.ID}); err != nil {
			logger.Error("delete card point", slog.String("card_id", card.ID), slog.Any("err", err))
			writeError(w, err)
			return
		}
		if err := h.expCards.DeleteExperienceCard(ctx, card.ID); err != nil {
			writeError(w, err)
			return
		}
	case kindChallenge:
		card, err := h.chCards.GetChallengeCard(ctx, cardID)
		if err != nil {
			writeError(w, err)
			return
		}
		if card == nil || card.UserID != user.ID {
			writeError(w, apperr.NotFound("challenge card"))
			return
		}

		if err := h.chCards.DeleteChallengeCard(ctx, card.ID); err != nil {
			writeError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
