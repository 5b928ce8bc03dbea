package config_test

import (
	"testing"
	"time"

	"github.com/luxone/quotation-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Luxone Quotation API", cfg.App.Name)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "area-v2", cfg.Pricing.Policy)
	assert.Equal(t, "AED", cfg.Pricing.Currency)
	assert.Equal(t, "0 */5 * * * *", cfg.Pricing.RuleRefreshCron)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadBytes())
	assert.Contains(t, cfg.RateLimit.WhitelistPaths, "/health")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("PRICING_POLICY", "slab-itemized-v1")
	t.Setenv("ADMIN_API_KEY", "secret-key")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "slab-itemized-v1", cfg.Pricing.Policy)
	assert.Equal(t, "secret-key", cfg.Auth.ApiKey)
	assert.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			App:      config.AppConfig{Environment: "development"},
			Database: config.DatabaseConfig{Driver: "sqlite"},
			Storage:  config.StorageConfig{Mode: "local"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *config.Config) {}},
		{name: "unknown driver", mutate: func(c *config.Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "unknown storage", mutate: func(c *config.Config) { c.Storage.Mode = "s3" }, wantErr: true},
		{name: "production without jwt secret", mutate: func(c *config.Config) { c.App.Environment = "production" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	d := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.ConnectionString())
}
