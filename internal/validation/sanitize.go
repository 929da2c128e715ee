// Package validation sanitizes and validates user input before it reaches the store.
package validation

import (
	"strings"

	"github.com/userdir/userdir/internal/model"
)

// RawUser is the user payload as submitted. Nil means the field was absent.
type RawUser struct {
	Name   *string
	Email  *string
	Role   *string
	Status *string
}

// Sanitized is a RawUser with free-text fields cleaned. Absent name and
// email become empty strings; absent role and status stay nil.
type Sanitized struct {
	Name   string
	Email  string
	Role   *string
	Status *string
}

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeString strips angle brackets and surrounding whitespace.
func SanitizeString(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeString(*s)
	return &v
}

// Sanitize cleans every field of raw.
func Sanitize(raw RawUser) Sanitized {
	out := Sanitized{
		Role:   sanitizeOptional(raw.Role),
		Status: sanitizeOptional(raw.Status),
	}
	if raw.Name != nil {
		out.Name = SanitizeString(*raw.Name)
	}
	if raw.Email != nil {
		out.Email = SanitizeString(*raw.Email)
	}
	return out
}

// Input converts sanitized fields into store input.
func (s Sanitized) Input() model.UserInput {
	in := model.UserInput{
		Name:  s.Name,
		Email: s.Email,
	}
	if s.Role != nil {
		in.Role = *s.Role
	}
	if s.Status != nil {
		in.Status = *s.Status
	}
	return in
}
