package user

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/shared/authorization"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "h:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if hash != "h:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func TestNewUser(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		userName  string
		role      authorization.UserRole
		wantEmail string
		wantErr   bool
	}{
		{name: "normalizes email", email: "  Lan@Shop.VN ", userName: "Lan", role: authorization.RoleStaff, wantEmail: "lan@shop.vn"},
		{name: "empty email", email: "", userName: "Lan", role: authorization.RoleStaff, wantErr: true},
		{name: "bad email", email: "lan@", userName: "Lan", role: authorization.RoleStaff, wantErr: true},
		{name: "empty name", email: "lan@shop.vn", userName: "  ", role: authorization.RoleStaff, wantErr: true},
		{name: "bad role", email: "lan@shop.vn", userName: "Lan", role: "root", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.email, tt.userName, tt.role)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, u.Email())
			assert.True(t, u.IsActive())
		})
	}
}

func TestUser_Password(t *testing.T) {
	u, err := NewUser("lan@shop.vn", "Lan", authorization.RoleAdmin)
	require.NoError(t, err)

	assert.Error(t, u.VerifyPassword("anything", plainHasher{}))
	assert.Error(t, u.SetPassword("short", plainHasher{}))

	require.NoError(t, u.SetPassword("s3cret-pass", plainHasher{}))
	assert.NoError(t, u.VerifyPassword("s3cret-pass", plainHasher{}))
	assert.Error(t, u.VerifyPassword("wrong-pass", plainHasher{}))
}

func TestUser_DisableAndLogin(t *testing.T) {
	u, err := NewUser("lan@shop.vn", "Lan", authorization.RoleStaff)
	require.NoError(t, err)

	at := time.Date(2025, 1, 15, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	u.RecordLogin(at)
	require.NotNil(t, u.LastLoginAt())
	assert.Equal(t, time.UTC, u.LastLoginAt().Location())

	u.Disable()
	assert.False(t, u.IsActive())
	u.Enable()
	assert.True(t, u.IsActive())
}
