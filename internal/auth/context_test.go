package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &UserContext{UserID: uuid.New(), DisplayName: "Dana Reyes", AuthType: AuthTypeJWT}
	ctx := WithUserContext(context.Background(), user)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}

func TestMustFromContext_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustFromContext(context.Background())
	})
}

func TestGetDisplayNameInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Dana Reyes", "DR"},
		{"dana", "D"},
		{"Dana van der Berg", "DVDB"},
		{"", ""},
	}
	for _, tt := range tests {
		u := &UserContext{DisplayName: tt.name}
		assert.Equal(t, tt.want, u.GetDisplayNameInitials(), tt.name)
	}
}
