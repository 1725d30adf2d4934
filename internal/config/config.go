// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve in minimal images

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT,required,notEmpty"`

	// Backend service addresses (host:port)
	TransactionsAddr string `env:"TRANSACTIONS_API_ADDR,required,notEmpty"`
	BalancesAddr     string `env:"BALANCES_API_ADDR,required,notEmpty"`
	HistoryAddr      string `env:"HISTORY_API_ADDR,required,notEmpty"`
	TokenCreatorAddr string `env:"TOKEN_CREATOR_API_ADDR,required,notEmpty"`
	ContactsAddr     string `env:"CONTACTS_API_ADDR,required,notEmpty"`

	// Routing number of this bank
	LocalRoutingNum string `env:"LOCAL_ROUTING_NUM,required,notEmpty"`

	// PEM encoded RSA public key used to verify session tokens
	PublicKeyPath string `env:"PUB_KEY_PATH,required,notEmpty"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Timeout applied to backend reads (balance, history, contacts, token)
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	// IANA zone used when rendering transaction dates
	DisplayTimezone string `env:"DISPLAY_TIMEZONE" envDefault:"UTC"`

	// Marks the session cookie Secure; enable behind HTTPS
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location resolves DisplayTimezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load parses environment variables and returns a Config.
// A .env file (ENV_FILE, or ./.env) is read first when present; variables
// already set in the environment take precedence over it.
// Returns an error naming the variable if a required one is missing.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}
