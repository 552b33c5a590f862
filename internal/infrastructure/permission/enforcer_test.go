package permission

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/shared/config"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

const testSeed = `
roles:
  customer:
    permissions: [tokens:read, tokens:write]
  staff:
    inherits: [customer]
    permissions: [orders:read, orders:write, reports:read, posts:preview]
  admin:
    permissions: ["*"]
`

func newSeededEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	seed, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)

	e, err := NewMemoryEnforcer(logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, e.ReplacePolicies(seed))
	return e
}

func TestEnforcer_SeededRoles(t *testing.T) {
	e := newSeededEnforcer(t)

	tests := []struct {
		role     string
		resource string
		action   string
		want     bool
	}{
		{"admin", "orders", "write", true},
		{"admin", "anything", "delete", true},
		{"staff", "orders", "read", true},
		{"staff", "reports", "read", true},
		{"staff", "reports", "write", false},
		{"staff", "tokens", "write", true},
		{"customer", "tokens", "read", true},
		{"customer", "orders", "read", false},
		{"unknown", "tokens", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.resource+":"+tt.action, func(t *testing.T) {
			allowed, err := e.Enforce(tt.role, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestEnforcer_ReplacePoliciesDropsOldRules(t *testing.T) {
	e := newSeededEnforcer(t)

	seed, err := ParseSeed([]byte("roles:\n  staff:\n    permissions: [reports:read]\n"))
	require.NoError(t, err)
	require.NoError(t, e.ReplacePolicies(seed))

	allowed, err := e.Enforce("staff", "orders", "read")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = e.Enforce("admin", "orders", "read")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = e.Enforce("staff", "reports", "read")
	require.NoError(t, err)
	assert.True(t, allowed)
}

// openSingleConnDB opens sqlite with the server's pool settings: one connection.
func openSingleConnDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func countRules(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table("casbin_rule").Count(&n).Error)
	return n
}

func TestEnforcer_PersistedReplaceOnSingleConnection(t *testing.T) {
	db := openSingleConnDB(t)

	e, err := NewEnforcer(db, logger.NewNop())
	require.NoError(t, err)

	seed, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)
	require.NoError(t, e.ReplacePolicies(seed))
	// 2 + 4 + 1 policies and one inheritance rule
	assert.Equal(t, int64(8), countRules(t, db))

	// Replaying the same seed writes nothing new.
	require.NoError(t, e.ReplacePolicies(seed))
	assert.Equal(t, int64(8), countRules(t, db))

	smaller, err := ParseSeed([]byte("roles:\n  staff:\n    permissions: [reports:read]\n"))
	require.NoError(t, err)
	require.NoError(t, e.ReplacePolicies(smaller))
	assert.Equal(t, int64(1), countRules(t, db))

	// A fresh enforcer sees exactly what was stored.
	reloaded, err := NewEnforcer(db, logger.NewNop())
	require.NoError(t, err)

	allowed, err := reloaded.Enforce("staff", "reports", "read")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = reloaded.Enforce("admin", "orders", "read")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestDiffRules(t *testing.T) {
	current := [][]string{{"staff", "orders", "read"}, {"staff", "orders", "write"}}
	want := [][]string{{"staff", "orders", "read"}, {"staff", "reports", "read"}, {"staff", "reports", "read"}}

	stale, missing := diffRules(current, want)
	assert.Equal(t, [][]string{{"staff", "orders", "write"}}, stale)
	assert.Equal(t, [][]string{{"staff", "reports", "read"}}, missing)
}

func TestEnforcer_AddAndRemovePolicy(t *testing.T) {
	e, err := NewMemoryEnforcer(logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, e.AddPolicy("staff", "products", "read"))
	allowed, err := e.Enforce("staff", "products", "read")
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, e.RemovePolicy("staff", "products", "read"))
	allowed, err = e.Enforce("staff", "products", "read")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestSeed_Rules(t *testing.T) {
	seed, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)

	policies, groupings, err := seed.Rules()
	require.NoError(t, err)
	assert.Contains(t, policies, []string{"admin", "*", "*"})
	assert.Contains(t, policies, []string{"staff", "posts", "preview"})
	assert.Equal(t, [][]string{{"staff", "customer"}}, groupings)
}

func TestSeed_Errors(t *testing.T) {
	_, err := ParseSeed([]byte("roles: {}"))
	assert.Error(t, err)

	seed, err := ParseSeed([]byte("roles:\n  staff:\n    inherits: [ghost]\n"))
	require.NoError(t, err)
	_, _, err = seed.Rules()
	assert.Error(t, err)

	seed, err = ParseSeed([]byte("roles:\n  staff:\n    permissions: [\"orders:\"]\n"))
	require.NoError(t, err)
	_, _, err = seed.Rules()
	assert.Error(t, err)
}

func TestLoadSeed_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Len(t, seed.Roles, 3)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFileReloader(t *testing.T) {
	e, err := NewMemoryEnforcer(logger.NewNop())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "permissions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o600))

	r := FileReloader{Enforcer: e, Path: path}
	require.NoError(t, r.Reload())

	ok, err := e.Enforce("staff", "orders", "read")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("roles:\n  staff:\n    permissions: [\"reports:read\"]\n"), 0o600))
	require.NoError(t, r.Reload())

	ok, err = e.Enforce("staff", "orders", "read")
	require.NoError(t, err)
	assert.False(t, ok)
}
