package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	Backend BackendConfig
	Pricing PricingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds the consumption ledger database configuration.
// WARNING: Default password is for local development only.
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"pricing_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"2"`
	Retries  int    `envconfig:"DB_CONNECT_RETRIES" default:"5"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// BackendConfig points at the booking backend of record.
type BackendConfig struct {
	BaseURL string `envconfig:"BACKEND_BASE_URL" default:"http://localhost:8080"`
	Timeout int    `envconfig:"BACKEND_TIMEOUT" default:"10"` // seconds

	// Circuit breaker: consecutive failures before opening, and seconds it stays open.
	BreakerFailures uint32 `envconfig:"BACKEND_BREAKER_FAILURES" default:"5"`
	BreakerOpen     int    `envconfig:"BACKEND_BREAKER_OPEN" default:"30"`
}

// RequestTimeout returns Timeout as a duration.
func (c BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// BreakerOpenFor returns BreakerOpen as a duration.
func (c BackendConfig) BreakerOpenFor() time.Duration {
	return time.Duration(c.BreakerOpen) * time.Second
}

// PricingConfig holds pricing engine settings.
type PricingConfig struct {
	// Timezone decides which calendar day "today" is for coupon validity.
	Timezone string `envconfig:"PRICING_TIMEZONE" default:"UTC"`
}

// Location loads the configured timezone.
func (c PricingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load pricing timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
