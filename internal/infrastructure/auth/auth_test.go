package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/shared/authorization"
)

func TestBcryptPasswordHasher(t *testing.T) {
	h := NewBcryptPasswordHasher(4)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, h.Verify("s3cret-pass", hash))
	assert.Error(t, h.Verify("wrong", hash))
	assert.Error(t, h.Verify("s3cret-pass", "not-a-hash"))

	h.VerifyDummy("anything")
}

func TestBcryptPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewBcryptPasswordHasher(99)
	assert.Equal(t, 10, h.cost)
}

func TestJWTService_RoundTrip(t *testing.T) {
	s := NewJWTService("test-secret", 30)
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token, exp, err := s.Generate(42, "staff@example.com", authorization.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), exp)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "staff@example.com", claims.Email)
	assert.Equal(t, authorization.RoleStaff, claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestJWTService_RejectsExpiredAndForeign(t *testing.T) {
	s := NewJWTService("test-secret", 30)
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token, _, err := s.Generate(1, "a@example.com", authorization.RoleAdmin)
	require.NoError(t, err)

	now = now.Add(31 * time.Minute)
	_, err = s.Verify(token)
	assert.Error(t, err)

	other := NewJWTService("other-secret", 30)
	other.now = s.now
	foreign, _, err := other.Generate(1, "a@example.com", authorization.RoleAdmin)
	require.NoError(t, err)
	_, err = s.Verify(foreign)
	assert.Error(t, err)
}

func TestJWTService_DefaultLifetime(t *testing.T) {
	assert.Equal(t, 120, NewJWTService("x", 0).AccessExpMinutes())
}

func TestGoogleOAuthClient_AuthURLCarriesPKCE(t *testing.T) {
	c := NewGoogleOAuthClient(GoogleOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://admin.example.com/api/auth/oauth/google/callback",
	})
	require.True(t, c.Configured())

	authURL, verifier := c.AuthURL("state-123")
	require.NotEmpty(t, verifier)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.NotEqual(t, verifier, q.Get("code_challenge"))
}

func TestGoogleOAuthClient_NotConfigured(t *testing.T) {
	assert.False(t, NewGoogleOAuthClient(GoogleOAuthConfig{}).Configured())
}

func TestGoogleOAuthClient_GetUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":"owner@example.com","verified_email":true,"name":"Owner"}`))
	}))
	defer srv.Close()

	c := NewGoogleOAuthClient(GoogleOAuthConfig{ClientID: "id", ClientSecret: "secret"})
	c.userInfoURL = srv.URL

	info, err := c.GetUserInfo(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, &OAuthUserInfo{
		Email:         "owner@example.com",
		Name:          "Owner",
		EmailVerified: true,
		ProviderID:    "g-1",
	}, info)

	_, err = c.GetUserInfo(context.Background(), "bad-token")
	assert.Error(t, err)
}
