package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"blogdeck/internal/apperr"
)

// Config is the whole application configuration.
type Config struct {
	Server struct {
		Port          string `yaml:"port"`
		SessionSecret string `yaml:"session_secret"`
		Mode          string `yaml:"mode"` // gin mode: debug, release, test
	} `yaml:"server"`

	Database Database `yaml:"database"`

	Cache struct {
		RatingMemoSize int           `yaml:"rating_memo_size"`
		RatingMemoTTL  time.Duration `yaml:"rating_memo_ttl"`
	} `yaml:"cache"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Seed struct {
		Tags []string `yaml:"tags"`
	} `yaml:"seed"`
}

// Database holds the record store connection settings.
type Database struct {
	Driver          string        `yaml:"driver"` // postgres or sqlite
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	LogLevel        string        `yaml:"log_level"` // silent, error, warn, info
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Default returns the configuration used for local development.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.SessionSecret = "secret_key_change_me"
	cfg.Server.Mode = "debug"

	cfg.Database.Driver = DriverPostgres
	cfg.Database.DSN = "host=localhost user=postgres password=postgres dbname=blogdeck port=5432 sslmode=disable"
	cfg.Database.MaxOpenConns = 10
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 30 * time.Minute
	cfg.Database.LogLevel = "warn"

	cfg.Cache.RatingMemoSize = 500
	cfg.Cache.RatingMemoTTL = time.Minute

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"

	cfg.Seed.Tags = []string{"General", "Programming", "Travel", "Food"}
	return cfg
}

// Load builds the configuration from defaults, the optional YAML file at
// path and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodeConfiguration, "read config file").WithDetails(path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperr.Wrap(err, apperr.CodeConfiguration, "parse config file").WithDetails(path)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Server.SessionSecret = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.Server.Mode = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Validate checks the settings the application cannot start without.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if c.Server.SessionSecret == "" {
		errs = append(errs, errors.New("session secret is empty"))
	}
	if c.Cache.RatingMemoSize <= 0 {
		errs = append(errs, errors.New("cache.rating_memo_size must be positive"))
	}
	if len(errs) > 0 {
		return apperr.Wrap(errors.Join(errs...), apperr.CodeConfiguration, "invalid configuration")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
