package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/apperrors"
)

func TestValidateStructCollectsAllFailures(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	err := ValidateStruct(form{Email: "not-an-email", Password: "short"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")

	assert.NoError(t, ValidateStruct(form{Email: "alice@x.com", Password: "long enough"}))
}

func TestValidateStructKeepsLiteralPercent(t *testing.T) {
	type form struct {
		Role string `validate:"required,oneof=100%"`
	}

	// Messages must pass through verbatim, never as a format string
	err := ValidateStruct(form{Role: "other"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role must be one of 100%")
}
