package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "pricetracker/internal/domain/errors"
)

type signupBody struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Password        string `json:"password" validate:"required,min=8,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

func TestValidate_Valid(t *testing.T) {
	err := New().Validate(&signupBody{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	assert.NoError(t, err)
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := New().Validate(&signupBody{
		Email:           "not-an-email",
		Username:        "al",
		Password:        "short",
		ConfirmPassword: "different",
	})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	appErr, ok := domainerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Validation error", appErr.Message())

	got := map[string]string{}
	for _, f := range appErr.Fields() {
		got[f.Field] = f.Message
	}
	assert.Equal(t, map[string]string{
		"email":           "Invalid email address",
		"username":        "Username must be at least 3 characters",
		"password":        "Password must be at least 8 characters",
		"confirmPassword": "Passwords don't match",
	}, got)
}

func TestValidate_PasswordByteLimit(t *testing.T) {
	long := strings.Repeat("é", 40) // 80 bytes, 40 characters
	err := New().Validate(&signupBody{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        long,
		ConfirmPassword: long,
	})

	appErr, ok := domainerrors.AsAppError(err)
	require.True(t, ok)
	require.Len(t, appErr.Fields(), 1)
	assert.Equal(t, "password", appErr.Fields()[0].Field)
	assert.Equal(t, "Password must be at most 72 bytes", appErr.Fields()[0].Message)
}
