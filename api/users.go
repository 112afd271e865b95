package api

import (
	"encoding/json"
	"net/http"
	"net/url"
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

type UsersHandler struct {
	users    repository.UserRepo
	expCards repository.ExperienceCardRepo
	chCards  repository.ChallengeCardRepo
	index    VectorIndex
	// auth0 is nil when no external identity provider is configured.
	auth0 EmailLookup
}

func NewUsersHandler(users repository.UserRepo, expCards repository.ExperienceCardRepo, chCards repository.ChallengeCardRepo, index VectorIndex, auth0 EmailLookup) *UsersHandler {
	return &UsersHandler{users: users, expCards: expCards, chCards: chCards, index: index, auth0: auth0}
}

func (h *UsersHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

// GetMe resolves the authenticated subject. For externally authenticated
// accounts the subject is an auth id; when no local row exists yet the email
// is looked up on the identity provider and a user row is provisioned.
func (h *UsersHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sub := UserIDFromContext(ctx)
	if sub == "" {
		writeError(w, apperr.Unauthorized("missing subject claim"))
		return
	}

	user, err := h.users.GetByID(ctx, sub)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		user, err = h.users.GetByAuthID(ctx, sub)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	if user == nil {
		if h.auth0 == nil {
			writeError(w, apperr.NotFound("user"))
			return
		}

		email, err := h.auth0.UserEmailByAuthID(ctx, sub)
		if err != nil {
			writeError(w, err)
			return
		}

		user = &models.User{
			ID:      uuid.NewString(),
			Email:   strings.ToLower(strings.TrimSpace(email)),
			AuthID:  sub,
			Created: time.Now().UnixMilli(),
		}
		if err := h.users.CreateUser(ctx, user); err != nil {
			writeError(w, err)
			return
		}
		logger.Info("provisioned user from identity provider", slog.String("user_id", user.ID))
	}

	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Country         string  `json:"country"`
	City            string  `json:"city"`
	Status          *int    `json:"status,omitempty"`
	ImmigrationDate *string `json:"immigration_date,omitempty"`
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation([]string{"Invalid request body."}))
		return
	}

	if errs := validation.ProfileUpdate(req.FirstName, req.LastName, req.Country); len(errs) > 0 {
		writeError(w, apperr.Validation(errs))
		return
	}

	ctx := r.Context()

	user, err := h.users.GetByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("user"))
		return
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Country = req.Country
	user.City = req.City
	user.ImmigrationDate = req.ImmigrationDate
	user.Status = nil
	if req.Status != nil {
		s := models.Status(*req.Status)
		user.Status = &s
	}
	user.IsProfileCompleted = true

	if err := h.users.UpdateUser(ctx, user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type updateAvatarRequest struct {
	AvatarURL string `json:"avatar_url"`
}

func (h *UsersHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var req updateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation([]string{"Invalid request body."}))
		return
	}

	u, err := url.Parse(strings.TrimSpace(req.AvatarURL))
	if err != nil || !u.IsAbs() || u.Host == "" {
		writeError(w, apperr.Validation([]string{"Invalid avatar URL."}))
		return
	}

	ctx := r.Context()

	user, err := h.users.GetByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("user"))
		return
	}

	user.AvatarURL = u.String()
	if err := h.users.UpdateUser(ctx, user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete removes the user with all their cards. Vector points go first so a
// partial failure never leaves points whose rows are already gone.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("user"))
		return
	}

	expCards, err := h.expCards.ListExperienceCardsByUser(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	pointIDs := make([]string, 0, len(expCards))
	for _, c := range expCards {
		pointIDs = append(pointIDs, c.ID)
	}
	if err := h.index.DeletePoints(ctx, "", pointIDs); err != nil {
		logger.Error("delete vector points", slog.String("user_id", id), slog.Any("err", err))
		writeError(w, err)
		return
	}

	for _, c := range expCards {
		if err := h.expCards.DeleteExperienceCard(ctx, c.ID); err != nil {
			writeError(w, err)
			return
		}
	}

	chCards, err := h.chCards.ListChallengeCardsByUser(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, c := range chCards {
		if err := h.chCards.DeleteChallengeCard(ctx, c.ID); err != nil {
			writeError(w, err)
			return
		}
	}

	if err := h.users.DeleteUser(ctx, id); err != nil {
		writeError(w, err)
		return
	}

	logger.Info("user deleted", slog.String("user_id", id), slog.Int("experience_cards", len(expCards)), slog.Int("challenge_cards", len(chCards)))
	w.WriteHeader(http.StatusNoContent)
}
