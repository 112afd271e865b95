// Package apperr defines the error taxonomy shared by all handlers.
// The api package maps these onto HTTP status codes in one place.
package apperr

import (
	"fmt"
	"strings"
)

// NotFoundError signals that a referenced user or card does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ValidationError aggregates every field-level rule violation found in a
// request, so callers see the full list at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func Validation(messages []string) error {
	return &ValidationError{Messages: messages}
}

// ConflictError signals a uniqueness violation, e.g. a duplicate email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// UnauthorizedError covers bad credentials and invalid tokens. The message
// never distinguishes an unknown email from a wrong password.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}

// ModerationError marks content rejected by the moderation classifier.
// Kept distinct from ValidationError so callers can tell malformed input
// apart from rejected content.
type ModerationError struct {
	Detail string
}

func (e *ModerationError) Error() string {
	if e.Detail == "" {
		return "content contains inappropriate material"
	}
	return "content contains inappropriate material: " + e.Detail
}
