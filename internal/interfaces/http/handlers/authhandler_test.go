package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/application/user/usecases"
	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers/testutil"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/config"
	"github.com/lumishop/shopadmin/internal/shared/constants"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockLoginUC struct {
	got    usecases.LoginWithPasswordCommand
	result *usecases.LoginWithPasswordResult
	err    error
}

func (m *mockLoginUC) Execute(ctx context.Context, cmd usecases.LoginWithPasswordCommand) (*usecases.LoginWithPasswordResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockInitiateOAuthUC struct {
	got    usecases.InitiateOAuthLoginCommand
	result *usecases.InitiateOAuthLoginResult
	err    error
}

func (m *mockInitiateOAuthUC) Execute(ctx context.Context, cmd usecases.InitiateOAuthLoginCommand) (*usecases.InitiateOAuthLoginResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockHandleOAuthUC struct {
	got    usecases.HandleOAuthCallbackCommand
	called bool
	result *usecases.HandleOAuthCallbackResult
	err    error
}

func (m *mockHandleOAuthUC) Execute(ctx context.Context, cmd usecases.HandleOAuthCallbackCommand) (*usecases.HandleOAuthCallbackResult, error) {
	m.got = cmd
	m.called = true
	return m.result, m.err
}

type mockCurrentUserUC struct {
	result *user.User
	err    error
}

func (m *mockCurrentUserUC) Execute(ctx context.Context, userID uint) (*user.User, error) {
	return m.result, m.err
}

// =====================================================================
// Fixture
// =====================================================================

type authFixture struct {
	login    *mockLoginUC
	initiate *mockInitiateOAuthUC
	callback *mockHandleOAuthUC
	current  *mockCurrentUserUC
	handler  *AuthHandler
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		login:    &mockLoginUC{},
		initiate: &mockInitiateOAuthUC{},
		callback: &mockHandleOAuthUC{},
		current:  &mockCurrentUserUC{},
	}
	f.handler = NewAuthHandler(f.login, f.initiate, f.callback, f.current,
		testutil.NewMockLogger(), config.CookieConfig{Secure: true, SameSite: "Lax"}, "https://shop.example/")
	return f
}

func testUser(t *testing.T) *user.User {
	t.Helper()
	now := time.Now().UTC()
	u, err := user.ReconstructUser(5, "lan@shop.vn", "Lan", authorization.RoleStaff, user.StatusActive, nil, nil, now, now)
	require.NoError(t, err)
	return u
}

func TestAuthHandler_LoginSetsCookie(t *testing.T) {
	f := newAuthFixture()
	f.login.result = &usecases.LoginWithPasswordResult{
		User:    testUser(t),
		Session: usecases.Session{AccessToken: "jwt-token", ExpiresAt: time.Now().Add(time.Hour)},
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "lan@shop.vn",
		"password": "correct horse",
	})
	f.handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "correct horse", f.login.got.Password)

	ck := findCookie(w, utils.AccessTokenCookie)
	require.NotNil(t, ck)
	assert.Equal(t, "jwt-token", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.InDelta(t, 3600, ck.MaxAge, 5)

	assert.NotContains(t, w.Body.String(), "jwt-token")
	assert.Contains(t, w.Body.String(), `"email":"lan@shop.vn"`)
}

func TestAuthHandler_LoginFailure(t *testing.T) {
	f := newAuthFixture()
	f.login.err = errors.NewUnauthorizedError("invalid email or password")

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "lan@shop.vn",
		"password": "wrong",
	})
	f.handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, findCookie(w, utils.AccessTokenCookie))
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	f := newAuthFixture()

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", map[string]string{"email": "nope"})
	f.handler.Login(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newAuthFixture()
	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/logout", nil)
	f.handler.Logout(c)

	require.Equal(t, http.StatusOK, w.Code)
	ck := findCookie(w, utils.AccessTokenCookie)
	require.NotNil(t, ck)
	assert.Equal(t, "", ck.Value)
	assert.Less(t, ck.MaxAge, 0)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	f := newAuthFixture()
	f.current.result = testUser(t)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/me", nil)
	testutil.SetAuthContext(c, 5, authorization.RoleStaff)
	f.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "staff", body["role"])

	c, w = testutil.NewTestContext(http.MethodGet, "/api/auth/me", nil)
	f.handler.GetCurrentUser(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_InitiateGoogleOAuth(t *testing.T) {
	f := newAuthFixture()
	f.initiate.result = &usecases.InitiateOAuthLoginResult{
		AuthURL: "https://accounts.google.com/o/oauth2/auth?state=s1",
		State:   "s1",
	}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/oauth/google?redirect=/admin/orders", nil)
	f.handler.InitiateGoogleOAuth(c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, f.initiate.result.AuthURL, w.Header().Get("Location"))
	assert.Equal(t, "/admin/orders", f.initiate.got.RedirectTo)

	ck := findCookie(w, utils.OAuthStateCookie)
	require.NotNil(t, ck)
	assert.Equal(t, "s1", ck.Value)
	assert.True(t, ck.HttpOnly)
}

func TestAuthHandler_GoogleCallbackSuccess(t *testing.T) {
	f := newAuthFixture()
	f.callback.result = &usecases.HandleOAuthCallbackResult{
		User:       testUser(t),
		Session:    usecases.Session{AccessToken: "jwt", ExpiresAt: time.Now().Add(time.Hour)},
		RedirectTo: "/admin/orders",
	}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/oauth/google/callback?code=c1&state=s1", nil)
	c.Request.AddCookie(&http.Cookie{Name: utils.OAuthStateCookie, Value: "s1"})
	f.handler.HandleGoogleCallback(c)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://shop.example/admin/orders", w.Header().Get("Location"))
	assert.Equal(t, usecases.HandleOAuthCallbackCommand{Code: "c1", State: "s1", CookieState: "s1"}, f.callback.got)

	ck := findCookie(w, utils.AccessTokenCookie)
	require.NotNil(t, ck)
	assert.Equal(t, "jwt", ck.Value)
}

func TestAuthHandler_GoogleCallbackErrors(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		ucErr     error
		wantCode  constants.OAuthErrorCode
		wantUCRun bool
	}{
		{"provider denied", "error=access_denied", nil, constants.OAuthErrorAccessDenied, false},
		{"missing code", "state=s1", nil, constants.OAuthErrorMissingCode, false},
		{"missing state", "code=c1", nil, constants.OAuthErrorMissingState, false},
		{"state mismatch", "code=c1&state=s1", errors.NewUnauthorizedError("invalid or expired state parameter"), constants.OAuthErrorInvalidState, true},
		{"exchange failed", "code=c1&state=s1", errors.NewUnauthorizedError("failed to exchange authorization code"), constants.OAuthErrorExchangeFailed, true},
		{"unverified email", "code=c1&state=s1", errors.NewForbiddenError("google account email is not verified"), constants.OAuthErrorEmailNotVerified, true},
		{"disabled", "code=c1&state=s1", errors.NewForbiddenError("account is disabled"), constants.OAuthErrorAccountDisabled, true},
		{"upstream", "code=c1&state=s1", stderrors.New("connection reset"), constants.OAuthErrorUserInfoFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.callback.err = tt.ucErr

			c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/oauth/google/callback?"+tt.query, nil)
			f.handler.HandleGoogleCallback(c)

			require.Equal(t, http.StatusFound, w.Code)
			loc, err := url.Parse(w.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, string(tt.wantCode), loc.Query().Get("error"))
			assert.Equal(t, tt.wantUCRun, f.callback.called)
			assert.Nil(t, findCookie(w, utils.AccessTokenCookie))

			state := findCookie(w, utils.OAuthStateCookie)
			require.NotNil(t, state, "state cookie is always cleared")
			assert.Less(t, state.MaxAge, 0)
		})
	}
}
