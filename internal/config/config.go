package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env  string `mapstructure:"ENV"`
	Addr string `mapstructure:"ADDR"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DBDSN    string `mapstructure:"DB_DSN"`

	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogJSON  bool   `mapstructure:"LOG_JSON"`

	ProfilePageSize int `mapstructure:"PROFILE_PAGE_SIZE"`

	// Message submission limit per user.
	SendRatePerMinute float64 `mapstructure:"SEND_RATE_PER_MINUTE"`
	SendBurst         int     `mapstructure:"SEND_BURST"`
}

const devSecret = "dev-secret-change-me"

var defaults = map[string]any{
	"ENV":                  "development",
	"ADDR":                 ":8080",
	"DB_DRIVER":            "sqlite3",
	"DB_DSN":               "connect.db",
	"SESSION_SECRET":       "",
	"SESSION_TTL":          "168h",
	"LOG_LEVEL":            "info",
	"LOG_JSON":             false,
	"PROFILE_PAGE_SIZE":    12,
	"SEND_RATE_PER_MINUTE": 30.0,
	"SEND_BURST":           10,
}

// Load reads the optional .env files and the process environment. Values
// already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.SessionSecret == "" && cfg.IsDevelopment() {
		cfg.SessionSecret = devSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required outside development")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.ProfilePageSize <= 0 {
		return fmt.Errorf("PROFILE_PAGE_SIZE must be positive, got %d", c.ProfilePageSize)
	}
	if c.SendRatePerMinute <= 0 || c.SendBurst <= 0 {
		return errors.New("SEND_RATE_PER_MINUTE and SEND_BURST must be positive")
	}
	return nil
}
