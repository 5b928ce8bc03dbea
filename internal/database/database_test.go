package database_test

import (
	"testing"

	"github.com/luxone/quotation-api/internal/config"
	"github.com/luxone/quotation-api/internal/database"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := database.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.Quotation{}))
	assert.True(t, db.Migrator().HasTable(&domain.CostRule{}))

	assert.NoError(t, database.HealthCheck(db))

	stats, err := database.HealthCheckWithStats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := database.NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
