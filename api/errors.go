package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/nexthome/backend/internal/apperr"
)

type errorBody struct {
	Error string `json:"error"`
}

type validationBody struct {
	Errors []string `json:"errors"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("encode response", slog.Any("err", err))
		}
	}
}

// writeError maps the error taxonomy onto HTTP statuses in one place.
// Anything outside the taxonomy becomes a generic 500 so internals never
// leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var (
		notFound     *apperr.NotFoundError
		validation   *apperr.ValidationError
		conflict     *apperr.ConflictError
		unauthorized *apperr.UnauthorizedError
		moderation   *apperr.ModerationError
	)

	switch {
	case errors.As(err, &notFound):
		logger.Warn("not found", slog.String("resource", notFound.Resource))
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFound.Error()})
	case errors.As(err, &validation):
		logger.Warn("validation failed", slog.Any("messages", validation.Messages))
		writeJSON(w, http.StatusBadRequest, validationBody{Errors: validation.Messages})
	case errors.As(err, &conflict):
		logger.Warn("conflict", slog.String("err", conflict.Error()))
		writeJSON(w, http.StatusConflict, errorBody{Error: conflict.Error()})
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", slog.String("err", unauthorized.Error()))
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: unauthorized.Error()})
	case errors.As(err, &moderation):
		logger.Warn("content rejected by moderation", slog.String("err", moderation.Error()))
		writeJSON(w, http.StatusBadRequest, errorBody{Error: moderation.Error()})
	default:
		logger.Error("unhandled error", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal Server Error"})
	}
}
