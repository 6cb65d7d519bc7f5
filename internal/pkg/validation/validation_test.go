package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	UserType string `json:"userType" validate:"omitempty,usertype"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		in     registerInput
		fields []string
	}{
		{
			name: "valid",
			in:   registerInput{Name: "Ava", Email: "ava@example.com", Password: "secret1", UserType: "mentor"},
		},
		{
			name: "empty user type defaults",
			in:   registerInput{Name: "Ava", Email: "ava@example.com", Password: "secret1"},
		},
		{
			name:   "blank name and bad email",
			in:     registerInput{Name: "  ", Email: "nope", Password: "secret1"},
			fields: []string{"name", "email"},
		},
		{
			name:   "short password and unknown role",
			in:     registerInput{Name: "Ava", Email: "ava@example.com", Password: "123", UserType: "director"},
			fields: []string{"password", "userType"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.in)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *Error
			require.True(t, errors.As(err, &verr), "want *Error, got %v", err)
			assert.Len(t, verr.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
				assert.NotEmpty(t, verr.Fields[f])
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "bad", "a": "worse"}}
	assert.Equal(t, "validation failed: a: worse; b: bad", err.Error())
	assert.Equal(t, "validation failed", (&Error{}).Error())
}

func TestUserTypeMessageListsRoles(t *testing.T) {
	err := New().Validate(&registerInput{Name: "Ava", Email: "ava@example.com", Password: "secret1", UserType: "producer"})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "userType must be one of filmmaker, mentor, sponsor", verr.Fields["userType"])
}
