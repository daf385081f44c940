package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogdeck/internal/apperr"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 500, cfg.Cache.RatingMemoSize)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: "9000"
database:
  driver: sqlite
  dsn: blog.db
cache:
  rating_memo_size: 32
  rating_memo_ttl: 10s
log:
  level: debug
seed:
  tags: [Go, Rust]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "env overrides file")
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "blog.db", cfg.Database.DSN)
	assert.Equal(t, 32, cfg.Cache.RatingMemoSize)
	assert.Equal(t, 10*time.Second, cfg.Cache.RatingMemoTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"Go", "Rust"}, cfg.Seed.Tags)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfiguration, apperr.CodeOf(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"empty secret", func(c *Config) { c.Server.SessionSecret = "" }},
		{"memo size", func(c *Config) { c.Cache.RatingMemoSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, apperr.CodeConfiguration, apperr.CodeOf(err))
		})
	}
}
