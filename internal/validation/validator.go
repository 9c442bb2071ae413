// Package validation wraps go-playground/validator for request DTO
// validation at the HTTP boundary. Validation failures are converted to
// 422 apperror values before any business logic runs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/booklyhq/bookly/internal/apperror"
)

// Validator wraps a configured validator.Validate instance. Create one at
// startup and share it; the underlying validator caches struct metadata.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured to report field names by their JSON tag.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" || name == "-" {
			return fld.Name
		}
		// Strip options like ",omitempty".
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})

	return &Validator{v: v}
}

// Validate checks a request DTO against its `validate` tags. Returns a 422
// AppError whose detail lists every failing field, or nil if valid.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// Non-validation error (e.g., passing a non-struct) is a programming
		// mistake, not client input.
		return apperror.NewInternal(err)
	}

	details := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, fmt.Sprintf("%s %s", fe.Field(), friendlyMessage(fe)))
	}
	sort.Strings(details)

	return apperror.NewValidation("Request validation failed.").
		WithDetail(strings.Join(details, "; "))
}

// friendlyMessage translates a validator tag failure into a human-readable
// fragment appended after the field name.
func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
