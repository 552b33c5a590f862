package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/infrastructure/auth"
	"github.com/lumishop/shopadmin/internal/infrastructure/config"
	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/models"
	"github.com/lumishop/shopadmin/internal/infrastructure/repository"
	"github.com/lumishop/shopadmin/internal/interfaces/http/middleware"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
	sharedConfig "github.com/lumishop/shopadmin/internal/shared/config"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: sharedConfig.ServerConfig{
			BaseURL:        "http://localhost:8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Auth: sharedConfig.AuthConfig{
			Password:       sharedConfig.PasswordConfig{BcryptCost: 4},
			JWT:            sharedConfig.JWTConfig{Secret: "router-test-secret-0123456789abcdef", AccessExpMinutes: 60},
			Cookie:         sharedConfig.CookieConfig{Path: "/", SameSite: "lax"},
			LoginPerMinute: 10,
		},
		CSRF: sharedConfig.CSRFConfig{
			TokenTTLMinutes:   60,
			SessionTTLHours:   24,
			EndpointPerMinute: 120,
			EndpointBurst:     20,
		},
		APIToken: sharedConfig.APITokenConfig{DefaultRateLimit: 60, MaxRateLimit: 600, UsageQueueSize: 16},
		Security: sharedConfig.SecurityConfig{MaxBodyBytes: 1 << 20, RichFields: []string{"content"}},
		Report:   sharedConfig.ReportConfig{Locale: "vi", Currency: "VND"},
		Permission: sharedConfig.PermissionConfig{
			SeedFile: "../../../configs/permissions.yaml",
		},
	}
}

func newTestRouter(t *testing.T) (*Router, *gorm.DB) {
	t.Helper()

	// Same pool settings as the server: sqlite runs on a single connection.
	gdb, err := database.Open(&sharedConfig.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	r, err := NewRouter(gdb, testConfig(), logger.NewNop())
	require.NoError(t, err)
	r.SetupRoutes()
	t.Cleanup(func() { r.Shutdown(context.Background()) })

	return r, gdb
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func send(r http.Handler, method, path string, body any, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t)

	w := send(r.GetEngine(), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouter_SwaggerDoc(t *testing.T) {
	r, _ := newTestRouter(t)

	w := send(r.GetEngine(), http.MethodGet, "/swagger/doc.json", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shop Admin API")
	assert.Contains(t, w.Body.String(), "/api/v1/orders")
	assert.Equal(t, middleware.SwaggerUIPolicy, w.Header().Get("Content-Security-Policy"))
}

func TestRouter_RejectsUnauthenticated(t *testing.T) {
	r, _ := newTestRouter(t)
	engine := r.GetEngine()

	t.Run("api v1 without bearer token", func(t *testing.T) {
		w := send(engine, http.MethodGet, "/api/v1/orders", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin read without session", func(t *testing.T) {
		w := send(engine, http.MethodGet, "/api/admin/tokens", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin write without csrf token", func(t *testing.T) {
		w := send(engine, http.MethodPost, "/api/admin/tokens", map[string]any{"name": "x"}, nil)
		assert.Equal(t, 419, w.Code)
	})
}

// adminSession is a signed-in browser session holding a CSRF token.
type adminSession struct {
	access  *http.Cookie
	session *http.Cookie
	csrf    string
}

func (s adminSession) header() http.Header {
	return http.Header{utils.CSRFTokenHeader: {s.csrf}}
}

// signIn creates a user with role, logs in with a password and fetches a CSRF token.
func signIn(t *testing.T, engine http.Handler, gdb *gorm.DB, email string, role authorization.UserRole) adminSession {
	t.Helper()

	users := repository.NewUserRepository(gdb, logger.NewNop())
	u, err := user.NewUser(email, "Staff", role)
	require.NoError(t, err)
	require.NoError(t, u.SetPassword("correct horse battery", auth.NewBcryptPasswordHasher(4)))
	require.NoError(t, users.Create(context.Background(), u))

	w := send(engine, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": "correct horse battery"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	access := cookieNamed(w, utils.AccessTokenCookie)
	require.NotNil(t, access)

	w = send(engine, http.MethodGet, "/csrf-token", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := cookieNamed(w, utils.SessionCookie)
	require.NotNil(t, session)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var csrfBody struct {
		CSRFToken string `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &csrfBody))
	require.NotEmpty(t, csrfBody.CSRFToken)

	return adminSession{access: access, session: session, csrf: csrfBody.CSRFToken}
}

// issueToken issues an API token through the admin API and returns its plaintext.
func issueToken(t *testing.T, engine http.Handler, s adminSession, permissions ...string) string {
	t.Helper()

	w := send(engine, http.MethodPost, "/api/admin/tokens",
		map[string]any{"name": "pos sync", "permissions": permissions},
		s.header(), s.access, s.session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var issued struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &issued))
	require.NotEmpty(t, issued.Token)
	return issued.Token
}

// TestRouter_TokenFlow logs in with a password, obtains a CSRF token, issues an API
// token through the admin API and uses it on /api/v1.
func TestRouter_TokenFlow(t *testing.T) {
	r, gdb := newTestRouter(t)
	engine := r.GetEngine()

	s := signIn(t, engine, gdb, "staff@lumi.vn", authorization.RoleStaff)
	bearer := http.Header{"Authorization": {"Bearer " + issueToken(t, engine, s, "orders:read")}}

	w := send(engine, http.MethodGet, "/api/v1/orders", nil, bearer)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The token only grants orders:read.
	w = send(engine, http.MethodGet, "/api/v1/reports/revenue?type=daily&date=2025-01-15", nil, bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(engine, http.MethodGet, "/api/admin/permissions/me", nil, nil, s.access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "orders:read")
	assert.NotContains(t, w.Body.String(), "permissions:reload")
}

func TestRouter_RebootKeepsStoredPolicies(t *testing.T) {
	r, gdb := newTestRouter(t)

	var before int64
	require.NoError(t, gdb.Table("casbin_rule").Count(&before).Error)
	require.NotZero(t, before)

	// A second boot on the same single-connection database reseeds the stored rules.
	again, err := NewRouter(gdb, testConfig(), logger.NewNop())
	require.NoError(t, err)
	again.SetupRoutes()
	t.Cleanup(func() { again.Shutdown(context.Background()) })

	var after int64
	require.NoError(t, gdb.Table("casbin_rule").Count(&after).Error)
	assert.Equal(t, before, after)

	engine := r.GetEngine()
	s := signIn(t, engine, gdb, "admin@lumi.vn", authorization.RoleAdmin)
	for i := 0; i < 2; i++ {
		w := send(engine, http.MethodPost, "/api/admin/permissions/reload", nil, s.header(), s.access, s.session)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	require.NoError(t, gdb.Table("casbin_rule").Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestRouter_OrderTextEncodedOnce(t *testing.T) {
	r, gdb := newTestRouter(t)
	engine := r.GetEngine()

	s := signIn(t, engine, gdb, "staff@lumi.vn", authorization.RoleStaff)
	bearer := http.Header{"Authorization": {"Bearer " + issueToken(t, engine, s, "orders:read", "orders:write")}}

	w := send(engine, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_name":  "Tom & Jerry's",
		"customer_phone": "0901234567",
		"items": []map[string]any{
			{"product_name": "Bánh & Trà", "quantity": 1, "unit_price": 10000},
		},
	}, bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var created struct {
		CustomerName  string `json:"customer_name"`
		PaymentMethod string `json:"payment_method"`
		Items         []struct {
			ProductName string `json:"product_name"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Tom &amp; Jerry&#39;s", created.CustomerName)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Bánh &amp; Trà", created.Items[0].ProductName)
	assert.Equal(t, "cod", created.PaymentMethod)
}

func TestRouter_SanitizesJSONSentAsPlainText(t *testing.T) {
	r, gdb := newTestRouter(t)
	engine := r.GetEngine()

	s := signIn(t, engine, gdb, "staff@lumi.vn", authorization.RoleStaff)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/tokens",
		bytes.NewBufferString(`{"name":"<script>alert(1)</script>","permissions":["orders:read"]}`))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set(utils.CSRFTokenHeader, s.csrf)
	req.AddCookie(s.access)
	req.AddCookie(s.session)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var issued struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &issued))
	assert.NotContains(t, issued.Name, "<script")
}

func TestRouter_ForgedWriteRefusedBeforeBodyIsRead(t *testing.T) {
	r, gdb := newTestRouter(t)
	engine := r.GetEngine()

	s := signIn(t, engine, gdb, "staff@lumi.vn", authorization.RoleStaff)

	// Malformed body and no CSRF header: the CSRF check answers first.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/tokens", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(s.access)
	req.AddCookie(s.session)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, 419, w.Code)
}
