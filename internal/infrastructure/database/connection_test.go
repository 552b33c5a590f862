package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/shared/config"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, DriverMySQL, DriverName(&config.DatabaseConfig{}))
	assert.Equal(t, DriverSQLite, DriverName(&config.DatabaseConfig{Driver: "SQLite"}))
}
