// Package config defines the global configuration structure for the umbrella
// service. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup.
package config

import "time"

// Config is the top-level configuration struct for the umbrella service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"umbrella-service"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server   ServerConfig
	Database DatabaseConfig
	Provider ProviderConfig
	Umbrella UmbrellaConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL" validate:"omitempty,url"`

	// Tuning Parameters
	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"5"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	ConnectTimeout  time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"2s"`
}

// ProviderConfig holds the upstream forecast feed configuration.
type ProviderConfig struct {
	BaseURL   string        `envconfig:"FORECAST_BASE_URL" default:"https://www.jma.go.jp/bosai/forecast/data/forecast" validate:"url"`
	UserAgent string        `envconfig:"FORECAST_USER_AGENT" default:"umbrella-service/1.0"`
	Timeout   time.Duration `envconfig:"FORECAST_TIMEOUT" default:"10s"`

	// CacheTTL is the payload cache lifetime measured from write time.
	CacheTTL time.Duration `envconfig:"FORECAST_CACHE_TTL" default:"15m"`

	// RequestsPerSecond throttles calls to the public feed.
	RequestsPerSecond float64 `envconfig:"FORECAST_RATE_LIMIT" default:"2"`
	RateBurst         int     `envconfig:"FORECAST_RATE_BURST" default:"4"`
}

// UmbrellaConfig holds decision-engine tunables. Thresholds here are the
// process-level defaults; per-user criteria from settings take precedence.
type UmbrellaConfig struct {
	PopThreshold    float64 `envconfig:"UMBRELLA_POP_THRESHOLD" default:"50" validate:"min=0,max=100"`
	PrecipThreshold float64 `envconfig:"UMBRELLA_PRECIP_THRESHOLD" default:"1" validate:"min=0"`
	Logic           string  `envconfig:"UMBRELLA_LOGIC" default:"OR" validate:"oneof=AND OR"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
