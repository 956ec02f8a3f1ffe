package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"taskhive/apperrors"
)

var validate = validator.New()

// ValidateStruct checks a request struct's validate tags and folds every
// failure into a single validation error, worded for API clients. It runs
// before any database access.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var msgs []string
	for _, fieldErr := range err.(validator.ValidationErrors) {
		msgs = append(msgs, fieldMessage(fieldErr))
	}
	return apperrors.Validation("", strings.Join(msgs, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of " + fe.Param()
	}
	return field + " is invalid"
}
