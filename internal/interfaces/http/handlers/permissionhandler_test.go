package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/application/user/usecases"
	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers/testutil"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/errors"
)

type mockPermissionService struct {
	allowed   []string
	gotRole   authorization.UserRole
	reloadErr error
	reloaded  bool
}

func (m *mockPermissionService) Allowed(ctx context.Context, role authorization.UserRole, perms []string) ([]string, error) {
	m.gotRole = role
	return m.allowed, nil
}

func (m *mockPermissionService) Reload(ctx context.Context) error {
	m.reloaded = true
	return m.reloadErr
}

func TestPermissionHandler_Mine(t *testing.T) {
	svc := &mockPermissionService{allowed: []string{"orders:read", "reports:read"}}
	h := NewPermissionHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/admin/permissions/me", nil)
	testutil.SetAuthContext(c, 2, authorization.RoleStaff)
	h.Mine(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, authorization.RoleStaff, svc.gotRole)
	assert.Contains(t, w.Body.String(), `"permissions":["orders:read","reports:read"]`)
}

func TestPermissionHandler_Reload(t *testing.T) {
	svc := &mockPermissionService{}
	h := NewPermissionHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/permissions/reload", nil)
	h.Reload(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.reloaded)

	svc.reloadErr = stderrors.New("yaml: bad indent")
	c, w = testutil.NewTestContext(http.MethodPost, "/api/admin/permissions/reload", nil)
	h.Reload(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "yaml")
}

type mockCreateUserUC struct {
	got    usecases.CreateUserCommand
	called bool
	result *user.User
	err    error
}

func (m *mockCreateUserUC) Execute(ctx context.Context, cmd usecases.CreateUserCommand) (*user.User, error) {
	m.got = cmd
	m.called = true
	return m.result, m.err
}

func TestUserHandler_CreateUser(t *testing.T) {
	uc := &mockCreateUserUC{result: testUser(t)}
	h := NewUserHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/users", map[string]string{
		"email":    "lan@shop.vn",
		"name":     "Lan",
		"role":     "staff",
		"password": "longenough",
	})
	h.CreateUser(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, authorization.RoleStaff, uc.got.Role)
	assert.NotContains(t, w.Body.String(), "longenough")

	uc = &mockCreateUserUC{}
	h = NewUserHandler(uc, testutil.NewMockLogger())
	c, w = testutil.NewTestContext(http.MethodPost, "/api/admin/users", map[string]string{
		"email": "lan@shop.vn",
		"name":  "<b>Lan</b>",
		"role":  "root",
	})
	h.CreateUser(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, uc.called)

	uc = &mockCreateUserUC{err: errors.NewConflictError("email already registered")}
	h = NewUserHandler(uc, testutil.NewMockLogger())
	c, w = testutil.NewTestContext(http.MethodPost, "/api/admin/users", map[string]string{
		"email": "lan@shop.vn",
		"name":  "Lan",
		"role":  "staff",
	})
	h.CreateUser(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}
