package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/validate"
)

func TestStruct_SignUp(t *testing.T) {
	tests := []struct {
		name   string
		req    models.SignUpRequest
		errors validate.FieldErrors
	}{
		{
			name: "valid",
			req:  models.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "abc"},
		},
		{
			name: "long name and password",
			req: models.SignUpRequest{
				Name:     "Maria Anna Sophia Cecilia Kalogeropoulos-Vandenberghe de la Cruz y Fernandez-Oyarzabal",
				Email:    "maria@example.com",
				Password: strings.Repeat("p", 200),
			},
		},
		{
			name:   "short name",
			req:    models.SignUpRequest{Name: "Al", Email: "al@example.com", Password: "abc"},
			errors: validate.FieldErrors{"name": "name must be at least 3 characters"},
		},
		{
			name:   "bad email",
			req:    models.SignUpRequest{Name: "Ada", Email: "not-an-email", Password: "abc"},
			errors: validate.FieldErrors{"email": "invalid email format"},
		},
		{
			name: "everything missing",
			req:  models.SignUpRequest{},
			errors: validate.FieldErrors{
				"name":     "name is required",
				"email":    "email is required",
				"password": "password is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errors, validate.Struct(tt.req))
		})
	}
}

func TestStruct_SignInShortPassword(t *testing.T) {
	errs := validate.Struct(models.SignInRequest{Email: "ada@example.com", Password: "ab"})
	require.Len(t, errs, 1)
	assert.Equal(t, "password must be at least 3 characters", errs["password"])
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"name", "email", "password"}, validate.Fields(models.SignUpRequest{}))
	assert.Equal(t, []string{"email", "password"}, validate.Fields(&models.SignInRequest{}))
}
