package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrForbidden is returned when the caller is authenticated but not
	// allowed to act on the target record.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated is returned when a token does not resolve to an
	// existing user.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a rejected input. Field is the JSON name of the
// offending field and may be empty.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs struct tag validation and converts the first failure
// into a ValidationError.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return invalid(field, field+" is required")
	case "email":
		return invalid(field, field+" must be a valid email address")
	case "min":
		return invalid(field, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "oneof":
		return invalid(field, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
	default:
		return invalid(field, field+" is invalid")
	}
}
