package validator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Page     int    `query:"page" form:"page" validate:"gte=0"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&registerRequest{Email: "user@example.com", Password: "password1"}))

	err := v.Validate(&registerRequest{Email: "not-an-email", Password: "short", Page: -1})
	require.Error(t, err)

	var validationErr *Error
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, []FieldError{
		{Field: "email", Rule: "email"},
		{Field: "password", Rule: "min", Param: "8"},
		{Field: "page", Rule: "gte", Param: "0"},
	}, validationErr.Fields)
	assert.Contains(t, err.Error(), "email failed on email")
}
