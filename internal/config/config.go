// Package config loads the storefront service configuration from the
// environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/utafrali/BookingGo/pkg/config"
	"github.com/utafrali/BookingGo/pkg/database"
)

// Cart store backend names.
const (
	CartStoreRedis  = "redis"
	CartStoreSQLite = "sqlite"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Cart persistence backend: redis or sqlite.
	CartStore  string `env:"CART_STORE" envDefault:"redis"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/storefront.db"`

	// Redis
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass         string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`

	// Cart TTL in hours (default: 7 days)
	CartTTLHours int `env:"CART_TTL_HOURS" envDefault:"168"`

	// PostgreSQL receipt archive. Optional: when disabled the service runs
	// without booking history.
	PostgresEnabled bool   `env:"POSTGRES_ENABLED" envDefault:"false"`
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"storefront_secret"`
	PostgresDB      string `env:"STOREFRONT_DB_NAME" envDefault:"storefront"`
	PostgresSSL     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Booking backend
	BookingAPIURL        string `env:"BOOKING_API_URL" envDefault:"http://localhost:8090"`
	SubmitTimeoutSeconds int    `env:"CHECKOUT_SUBMIT_TIMEOUT_SECONDS" envDefault:"20"`

	// Pricing
	TaxRate         float64 `env:"TAX_RATE" envDefault:"0.10"`
	ServiceFeeCents int64   `env:"SERVICE_FEE_CENTS" envDefault:"500"`

	// Circuit breaker settings for the booking backend
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartStore != CartStoreRedis && c.CartStore != CartStoreSQLite {
		return fmt.Errorf("CART_STORE must be %q or %q, got %q", CartStoreRedis, CartStoreSQLite, c.CartStore)
	}
	if c.CartStore == CartStoreSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when CART_STORE is sqlite")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.BookingAPIURL == "" {
		return fmt.Errorf("BOOKING_API_URL is required")
	}
	if _, err := url.ParseRequestURI(c.BookingAPIURL); err != nil {
		return fmt.Errorf("invalid BOOKING_API_URL %q: %w", c.BookingAPIURL, err)
	}
	if c.TaxRate < 0 || c.TaxRate > 1.0 {
		return fmt.Errorf("TAX_RATE must be between 0.0 and 1.0, got %f", c.TaxRate)
	}
	if c.ServiceFeeCents < 0 {
		return fmt.Errorf("SERVICE_FEE_CENTS must not be negative, got %d", c.ServiceFeeCents)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// CartTTL returns the cart lifetime as a duration.
func (c *Config) CartTTL() time.Duration {
	return time.Duration(c.CartTTLHours) * time.Hour
}

// SubmitTimeout returns the per-submission booking backend timeout.
func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.SubmitTimeoutSeconds) * time.Second
}

// Postgres returns the connection settings for the receipt archive pool.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the connection settings for the cart store.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:         c.RedisHost,
		Port:         c.RedisPort,
		Password:     c.RedisPass,
		DB:           c.RedisDB,
		PoolSize:     c.RedisPoolSize,
		MinIdleConns: c.RedisMinIdleConns,
	}
}
