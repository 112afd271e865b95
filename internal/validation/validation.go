// Package validation implements the field-level rules for registration,
// profile updates and card payloads. Structural rules live in compiled JSON
// schemas; rules the schema language cannot express cleanly (trimmed
// whitespace, email shape) are checked directly. All violations for a
// request are aggregated so the caller sees the full list at once.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/qri-io/jsonschema"
)

const registerSchemaJSON = `{
	"type": "object",
	"required": ["email", "password", "first_name", "last_name", "country", "city"],
	"properties": {
		"email": {"type": "string"},
		"password": {"type": "string", "minLength": 8},
		"first_name": {"type": "string"},
		"last_name": {"type": "string"},
		"country": {"type": "string"},
		"city": {"type": "string"},
		"status": {"type": "integer", "enum": [1, 2, 3]}
	}
}`

const cardSchemaJSON = `{
	"type": "object",
	"required": ["title", "description"],
	"properties": {
		"title": {"type": "string", "maxLength": 200},
		"description": {"type": "string", "maxLength": 4000}
	}
}`

var (
	registerSchema = mustSchema(registerSchemaJSON)
	cardSchema     = mustSchema(cardSchemaJSON)

	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func mustSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return rs
}

// MinDescriptionLength is the minimum number of characters a card
// description must exceed.
const MinDescriptionLength = 50

type RegisterRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Country         string  `json:"country"`
	City            string  `json:"city"`
	Status          *int    `json:"status,omitempty"`
	ImmigrationDate *string `json:"immigration_date,omitempty"`
}

// Register validates a registration payload and returns every violation found.
func Register(ctx context.Context, req RegisterRequest) []string {
	errs := schemaErrors(ctx, registerSchema, req)

	if !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		errs = append(errs, "Invalid email.")
	}
	if isBlank(req.FirstName) {
		errs = append(errs, "Invalid first name.")
	}
	if isBlank(req.LastName) {
		errs = append(errs, "Invalid last name.")
	}
	if isBlank(req.Country) {
		errs = append(errs, "Invalid country.")
	}
	if isBlank(req.City) {
		errs = append(errs, "Invalid city.")
	}

	return errs
}

// ProfileUpdate validates the required profile fields of an update request.
func ProfileUpdate(firstName, lastName, country string) []string {
	var errs []string

	if isBlank(firstName) {
		errs = append(errs, "Invalid first name.")
	}
	if isBlank(lastName) {
		errs = append(errs, "Invalid last name.")
	}
	if isBlank(country) {
		errs = append(errs, "Invalid country.")
	}

	return errs
}

type CardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Card validates a card create/update payload.
func Card(ctx context.Context, req CardRequest) []string {
	errs := schemaErrors(ctx, cardSchema, req)

	if isBlank(req.Title) {
		errs = append(errs, "Title is required.")
	}
	if isBlank(req.Description) || len(req.Description) <= MinDescriptionLength {
		errs = append(errs, fmt.Sprintf("Description is empty or too short. It should be %d symbols at least.", MinDescriptionLength))
	}

	return errs
}

func schemaErrors(ctx context.Context, rs *jsonschema.Schema, v any) []string {
	b, err := json.Marshal(v)
	if err != nil {
		return []string{fmt.Sprintf("invalid payload: %v", err)}
	}

	verrs, err := rs.ValidateBytes(ctx, b)
	if err != nil {
		return []string{fmt.Sprintf("invalid payload: %v", err)}
	}

	out := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		out = append(out, fmt.Sprintf("%s: %s", ve.PropertyPath, ve.Message))
	}

	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
