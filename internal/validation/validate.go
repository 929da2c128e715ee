package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/userdir/userdir/internal/model"
)

// Length limits for names, counted in characters after trimming.
const (
	MinNameLength = 2
	MaxNameLength = 100
)

// emailPattern accepts anything shaped like local@domain.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Error describes the first rule a user payload broke.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// userRules carries the tags checked for every create and update.
type userRules struct {
	Name   string `validate:"required,min=2,max=100"`
	Email  string `validate:"required,emailshape"`
	Role   string `validate:"omitempty,userrole"`
	Status string `validate:"omitempty,userstatus"`
}

// Validator checks sanitized user payloads. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the user rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseRole(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("userstatus", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseStatus(fl.Field().String())
		return ok
	})

	return &Validator{v: v}
}

// IsEmail reports whether s looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate returns nil or an *Error for the first failing rule.
// Rules are checked in field order: name, email, role, status.
func (val *Validator) Validate(s Sanitized) error {
	rules := userRules{
		Name:  s.Name,
		Email: s.Email,
	}
	if s.Role != nil {
		rules.Role = *s.Role
	}
	if s.Status != nil {
		rules.Status = *s.Status
	}

	err := val.v.Struct(rules)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate user: %w", err)
	}
	return describe(fieldErrs[0])
}

func describe(fe validator.FieldError) *Error {
	field := strings.ToLower(fe.Field())

	switch field {
	case "name":
		switch fe.Tag() {
		case "required":
			return &Error{Field: field, Message: "Name cannot be empty"}
		case "min":
			return &Error{Field: field, Message: fmt.Sprintf("Name must be at least %d characters", MinNameLength)}
		default:
			return &Error{Field: field, Message: fmt.Sprintf("Name must not exceed %d characters", MaxNameLength)}
		}
	case "email":
		if fe.Tag() == "required" {
			return &Error{Field: field, Message: "Email is required and must be a string"}
		}
		return &Error{Field: field, Message: "Invalid email format"}
	case "role":
		return &Error{Field: field, Message: "Role must be one of: " + joinValues(model.Roles())}
	case "status":
		return &Error{Field: field, Message: "Status must be one of: " + joinValues(model.Statuses())}
	}

	return &Error{Field: field, Message: fmt.Sprintf("%s is invalid", fe.Field())}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
