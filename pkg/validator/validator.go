package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps a configured validator instance
type CustomValidator struct {
	validator *validator.Validate
}

// FieldError describes a single failed field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidator creates a new validator instance
func NewValidator() *CustomValidator {
	v := validator.New()

	// Report JSON tag names instead of Go struct field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &CustomValidator{
		validator: v,
	}
}

// Struct validates a struct and returns one FieldError per failing field
func (cv *CustomValidator) Struct(data interface{}) ([]FieldError, error) {
	err := cv.validator.Struct(data)
	if err == nil {
		return nil, nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
		})
	}
	return fieldErrors, nil
}

// errorMessage builds a human-readable message for a validation failure
func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum length is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", err.Param())
	case "gte":
		return fmt.Sprintf("Value must be greater than or equal to %s", err.Param())
	case "gt":
		return fmt.Sprintf("Value must be greater than %s", err.Param())
	case "datetime":
		return "Date must be in YYYY-MM-DD format"
	case "uuid":
		return "Invalid UUID format"
	default:
		return fmt.Sprintf("Validation failed on '%s' with value '%v'", err.Tag(), err.Value())
	}
}
