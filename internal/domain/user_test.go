package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
		wantErr  error
	}{
		{"plain", "alice", "alice", nil},
		{"trims whitespace", "  alice  ", "alice", nil},
		{"empty", "", "", ErrUsernameEmpty},
		{"whitespace only", "   ", "", ErrUsernameEmpty},
		{"too long", strings.Repeat("a", MaxUsernameLen+1), "", ErrUsernameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser("u1", tt.username)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, UserID("u1"), u.ID)
			require.Equal(t, tt.want, u.Username)
		})
	}
}
