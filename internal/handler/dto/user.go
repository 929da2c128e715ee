// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/userdir/userdir/internal/validation"
)

// UserRequest is the body of create and update requests. Fields accept any
// JSON value so a wrongly typed field reaches the validator instead of
// failing the whole decode.
type UserRequest struct {
	Name   Field `json:"name"`
	Email  Field `json:"email"`
	Role   Field `json:"role"`
	Status Field `json:"status"`
}

// ToRawUser converts the request into validator input. A non-string name or
// email counts as missing. A non-string role or status is passed on as its
// JSON text, which the validator rejects, unless it is null, false or zero.
func (r UserRequest) ToRawUser() validation.RawUser {
	return validation.RawUser{
		Name:   r.Name.required(),
		Email:  r.Email.required(),
		Role:   r.Role.optional(),
		Status: r.Status.optional(),
	}
}

// Field is a JSON value expected to be a string. The zero value is an
// absent key.
type Field struct {
	raw json.RawMessage
}

// UnmarshalJSON keeps the raw value; it never fails.
func (f *Field) UnmarshalJSON(b []byte) error {
	f.raw = append(f.raw[:0], b...)
	return nil
}

func (f Field) str() (string, bool) {
	if len(f.raw) == 0 || f.raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(f.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// falsy reports an absent key, null, false or a numeric zero.
func (f Field) falsy() bool {
	v := string(bytes.TrimSpace(f.raw))
	switch v {
	case "", "null", "false":
		return true
	}
	n, err := strconv.ParseFloat(v, 64)
	return err == nil && n == 0
}

func (f Field) required() *string {
	if s, ok := f.str(); ok {
		return &s
	}
	return nil
}

func (f Field) optional() *string {
	if s, ok := f.str(); ok {
		return &s
	}
	if f.falsy() {
		return nil
	}
	v := string(bytes.TrimSpace(f.raw))
	return &v
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HelloResponse is returned by the root endpoint.
type HelloResponse struct {
	Message string `json:"message"`
	Service string `json:"service"`
	Version string `json:"version"`
}
