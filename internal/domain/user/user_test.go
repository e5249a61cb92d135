package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	u, err := New("ana@example.com", "$2a$10$hash", true)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	assert.True(t, u.IsActive)
	assert.Zero(t, u.ID)
}

func TestNew_EmptyFields(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		hash      string
		wantField string
	}{
		{name: "empty email", email: "", hash: "$2a$10$hash", wantField: "email"},
		{name: "empty password hash", email: "ana@example.com", hash: "", wantField: "password_hash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.email, tt.hash, true)

			var efErr *EmptyFieldError
			require.ErrorAs(t, err, &efErr)
			assert.Equal(t, tt.wantField, efErr.Field)
		})
	}
}
