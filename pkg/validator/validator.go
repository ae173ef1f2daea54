package validator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidate()

// newValidate adds notblank, which rejects whitespace-only strings that
// required lets through.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}
	return v
}

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return &ValidationError{Errors: validationErrors}
		}
		return err
	}
	return nil
}

// ValidationError wraps validator.ValidationErrors with a user-friendly message.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", err.Field(), msgForTag(err)))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns a map of field names to error messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, err := range e.Errors {
		fields[err.Field()] = msgForTag(err)
	}
	return fields
}

// messages holds the field message per tag. A %s verb receives the tag's
// parameter.
var messages = map[string]string{
	"required": "is required",
	"notblank": "must not be blank",
	"min":      "must be at least %s characters",
	"max":      "must be at most %s characters",
	"gte":      "must be at least %s",
	"lte":      "must be at most %s",
	"url":      "must be an absolute URL with a scheme, like https://img.example/polo.jpg",
	"oneof":    "must be one of: %s",
}

func msgForTag(fe validator.FieldError) string {
	// Prices and counts bottom out at zero.
	if fe.Tag() == "gte" && fe.Param() == "0" {
		return "must not be negative"
	}
	format, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
	if strings.Contains(format, "%s") {
		return fmt.Sprintf(format, fe.Param())
	}
	return format
}

// DecodeAndValidate reads JSON from the request body, decodes it into dst,
// and validates it. Decode failures are wrapped with "decode request body";
// tag failures come back as *ValidationError.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return Validate(dst)
}
