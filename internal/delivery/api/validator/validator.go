// Package validator adapts go-playground/validator to echo and reports
// failures as field errors keyed by JSON name.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "pricetracker/internal/domain/errors"
	"pricetracker/internal/errors"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// messages overrides the generic text for specific field/tag pairs.
var messages = map[string]string{
	"email.email":              "Invalid email address",
	"username.min":             "Username must be at least 3 characters",
	"username.max":             "Username must be at most 30 characters",
	"password.min":             "Password must be at least 8 characters",
	"password.bcryptlen":       "Password must be at most 72 bytes",
	"confirmPassword.eqfield":  "Passwords don't match",
	"emailOrUsername.required": "Email or username is required",
	"password.required":        "Password is required",
	"idToken.required":         "ID token is required",
}

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})

	return &Validator{validate: v}
}

// Validate returns a validation AppError listing every offending field.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.Wrap(err, "validate request")
	}

	fields := make([]domainerrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, domainerrors.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}

	return domainerrors.NewValidationError(fields...)
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}

	return name
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on '%s' validation", fe.Field(), fe.Tag())
	}
}
