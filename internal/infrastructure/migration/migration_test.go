package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lumishop/shopadmin/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	db := openSQLite(t)

	strategy, err := NewStrategy(StrategyGoose, "sqlite", logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, strategy.Migrate(db))

	version, err := strategy.Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"users", "api_tokens", "orders", "order_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// Idempotent.
	require.NoError(t, strategy.Migrate(db))

	require.NoError(t, strategy.Down(db, 1))
	assert.False(t, db.Migrator().HasTable("orders"))
}

func TestAutoMigrateStrategy(t *testing.T) {
	db := openSQLite(t)

	strategy, err := NewStrategy(StrategyAuto, "sqlite", logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, strategy.Migrate(db))
	assert.True(t, db.Migrator().HasTable("api_tokens"))
	assert.Error(t, strategy.Down(db, 1))
}

func TestNewStrategy_Errors(t *testing.T) {
	_, err := NewStrategy(StrategyGolangMigrate, "sqlite", logger.NewNop())
	assert.Error(t, err)

	_, err = NewStrategy("flyway", "mysql", logger.NewNop())
	assert.Error(t, err)

	_, err = NewStrategy(StrategyGoose, "postgres", logger.NewNop())
	assert.Error(t, err)

	s, err := NewStrategy(StrategyGolangMigrate, "mysql", logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "golang_migrate", s.Name())
}

func TestEmbeddedScripts(t *testing.T) {
	entries, err := Scripts.ReadDir(migrateDir)
	require.NoError(t, err)
	// up and down per version
	assert.Equal(t, 0, len(entries)%2)

	for _, dialect := range []string{"mysql", "sqlite"} {
		files, err := Scripts.ReadDir(gooseDir + "/" + dialect)
		require.NoError(t, err)
		assert.NotEmpty(t, files)
	}
}
