package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexthome/backend/internal/apperr"
	"github.com/nexthome/backend/internal/models"
	"github.com/nexthome/backend/internal/token"
	"github.com/nexthome/backend/internal/validation"
	"github.com/nexthome/backend/pkg/repository"
)

type AuthHandler struct {
	users  repository.UserRepo
	tokens *token.JWTGenerator
	// mailer is nil when no SMTP transport is configured; registration then
	// skips the confirmation mail.
	mailer  ConfirmationSender
	baseURL string
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(users repository.UserRepo, tokens *token.JWTGenerator, mailer ConfirmationSender, baseURL string) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, mailer: mailer, baseURL: baseURL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation([]string{"Invalid request body."}))
		return
	}

	ctx := r.Context()

	if errs := validation.Register(ctx, req); len(errs) > 0 {
		writeError(w, apperr.Validation(errs))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := h.users.EmailExists(ctx, email)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		writeError(w, apperr.Conflict("user with email %s already exists", email))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	user := models.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    string(hash),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Country:         req.Country,
		City:            req.City,
		ImmigrationDate: req.ImmigrationDate,
		Created:         time.Now().UnixMilli(),
	}
	if req.Status != nil {
		s := models.Status(*req.Status)
		user.Status = &s
	}

	// The raw confirmation token only ever leaves the system inside the
	// mailed link; the row stores its hash.
	var rawToken string
	if h.mailer != nil {
		rawToken, err = token.Generate(token.DefaultLength)
		if err != nil {
			writeError(w, err)
			return
		}
		expiry := time.Now().Add(token.ConfirmationTTL).UnixMilli()
		user.ConfirmationTokenHash = token.Hash(rawToken)
		user.ConfirmationExpiry = &expiry
	}

	if err := h.users.CreateUser(ctx, &user); err != nil {
		writeError(w, err)
		return
	}

	if h.mailer != nil {
		link := h.baseURL + "/api/auth/confirm?token=" + url.QueryEscape(rawToken)
		if err := h.mailer.SendConfirmation(user.Email, link); err != nil {
			writeError(w, err)
			return
		}
		logger.Info("confirmation mail sent", slog.String("user_id", user.ID))
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation([]string{"Invalid request body."}))
		return
	}

	ctx := r.Context()

	user, err := h.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		writeError(w, err)
		return
	}

	// One indistinct message for unknown email and wrong password.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, apperr.Unauthorized("invalid email or password"))
		return
	}

	accessToken, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: user, AccessToken: accessToken})
}

func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		writeError(w, apperr.Validation([]string{"Token is required."}))
		return
	}

	ctx := r.Context()

	user, err := h.users.GetByConfirmationTokenHash(ctx, token.Hash(raw))
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperr.Unauthorized("invalid or expired confirmation token"))
		return
	}
	if user.ConfirmationExpiry != nil && time.Now().UnixMilli() > *user.ConfirmationExpiry {
		writeError(w, apperr.Unauthorized("invalid or expired confirmation token"))
		return
	}

	if !user.IsEmailConfirmed {
		user.IsEmailConfirmed = true
		user.ConfirmationTokenHash = ""
		user.ConfirmationExpiry = nil
		if err := h.users.UpdateUser(ctx, user); err != nil {
			writeError(w, err)
			return
		}
		logger.Info("email confirmed", slog.String("user_id", user.ID))
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "email confirmed"})
}
