// Package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom rules.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// "custom_id" restricts externally supplied identifiers (user ids,
	// donation ids, task ids) to alphanumerics, hyphens, and underscores.
	err := validate.RegisterValidation("custom_id", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			// Empty strings are handled by the 'required' tag.
			return true
		}

		re := regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}
}

// ValidationError holds a slice of per-field validation error messages.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct validates a struct based on its validation tags. It returns
// a *ValidationError with user-friendly messages when validation fails.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		for _, err := range err.(validator.ValidationErrors) {
			var message string

			switch err.Tag() {
			case "custom_id":
				message = fmt.Sprintf(
					"field '%s' must contain only letters, numbers, hyphens, and underscores",
					err.Field(),
				)
			default:
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}
			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
