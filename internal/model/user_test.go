package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "name wins", user: User{Name: "Alice", Email: "a@b.com"}, want: "Alice"},
		{name: "falls back to email", user: User{Email: "a@b.com"}, want: "a@b.com"},
		{name: "unknown", user: User{}, want: UnknownDisplayName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, User{Role: RoleAdmin}.IsAdmin())
	assert.False(t, User{Role: RoleUser}.IsAdmin())
	assert.False(t, User{}.IsAdmin())
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Op: "login", Status: 401, Message: "bad credentials"}
	assert.Equal(t, "bad credentials", err.Error())
}
