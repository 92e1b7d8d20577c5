// Package validator provides request DTO validation built on
// go-playground/validator with domain-specific rules.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alignhq/api/pkg/domain/role"
)

// FieldError describes one failed field validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator wraps go-playground validator with custom rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the domain rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// role: value must be one of the closed role set.
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := role.ParseRole(fl.Field().String())
		return ok
	})

	return &Validator{validate: v}
}

// Validate checks a struct against its validation tags. Returns nil when
// valid, otherwise a list of field errors.
func (v *Validator) Validate(s any) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "role":
		return "must be one of: owner, admin, analyst, manager"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
