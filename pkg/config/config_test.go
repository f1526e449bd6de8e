package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory, so no stray .env is picked up
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9090", cfg.GRPCPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "roi", cfg.PerformanceMetric)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.Database.ConnectRetries)
	assert.False(t, cfg.SeedDemo)
}

func TestLoad_CustomValues(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GRPC_PORT", "9001")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/p.db")
	t.Setenv("PERFORMANCE_METRIC", "Annualized")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("DB_CONNECT_RETRIES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/p.db", cfg.Database.SQLitePath)
	assert.Equal(t, "annualized", cfg.PerformanceMetric)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.Database.ConnectRetries, "invalid int falls back to default")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{
			name:   "Unknown environment",
			env:    map[string]string{"ENV": "qa"},
			errMsg: "ENV must be one of",
		},
		{
			name:   "Unknown driver",
			env:    map[string]string{"ENV": "development", "DB_DRIVER": "mysql"},
			errMsg: "DB_DRIVER must be one of",
		},
		{
			name:   "Unknown metric",
			env:    map[string]string{"ENV": "development", "PERFORMANCE_METRIC": "sharpe"},
			errMsg: "PERFORMANCE_METRIC must be one of",
		},
		{
			name:   "Missing secret in production",
			env:    map[string]string{"ENV": "production", "JWT_SECRET": ""},
			errMsg: "JWT_SECRET is required",
		},
		{
			name:   "Same ports",
			env:    map[string]string{"ENV": "development", "PORT": "7000", "GRPC_PORT": "7000"},
			errMsg: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "development")
	// godotenv never overrides variables that are already set, so make sure this one is not
	os.Unsetenv("LOG_FORMAT")
	t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })

	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("LOG_FORMAT=console\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestPostgresDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", db.PostgresDSN())

	db.ConnStr = "postgres://u:p@db/n"
	assert.Equal(t, "postgres://u:p@db/n", db.PostgresDSN())
}
