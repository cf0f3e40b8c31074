package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the environment variables read by parseEnv, e.g.
// COUNTRYEXPLORER_DATABASE_DSN. The unprefixed name is accepted as a fallback.
const EnvPrefix = "COUNTRYEXPLORER"

// EnvConfig mirrors Config for envconfig. Pointer fields stay nil when the
// variable is unset, so only variables that are present override Config.
type EnvConfig struct {
	EndpointAddrHTTP            *string        `envconfig:"HTTP_ADDR"`
	EndpointAddrGRPC            *string        `envconfig:"GRPC_ADDR"`
	DatabaseDSN                 *string        `envconfig:"DATABASE_DSN"`
	SecretKey                   *string        `envconfig:"SECRET_KEY"`
	AccessTokenValidityDuration *time.Duration `envconfig:"ACCESS_TOKEN_VALIDITY"`
	UpstreamBaseURL             *string        `envconfig:"UPSTREAM_BASE_URL"`
	UpstreamTimeout             *time.Duration `envconfig:"UPSTREAM_TIMEOUT"`
	UpstreamRetries             *int           `envconfig:"UPSTREAM_RETRIES"`
	UpstreamRetryDelay          *time.Duration `envconfig:"UPSTREAM_RETRY_DELAY"`
	UpstreamCodesBatch          *int           `envconfig:"UPSTREAM_CODES_BATCH"`
	CORSAllowedOrigin           *string        `envconfig:"CORS_ALLOWED_ORIGIN"`
	LogLevel                    *string        `envconfig:"LOG_LEVEL"`
	LogBackend                  *string        `envconfig:"LOG_BACKEND"`
}

// loadDotEnv is a seam for tests.
var loadDotEnv = func() error { return godotenv.Load() }

// parseEnv loads an optional .env file into the process environment and then
// overlays every variable that is set. Malformed values panic.
func parseEnv(config *Config) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	var e EnvConfig
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, e.EndpointAddrHTTP)
	overlay(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	overlay(&config.DatabaseDSN, e.DatabaseDSN)
	overlay(&config.SecretKey, e.SecretKey)
	overlay(&config.AccessTokenValidityDuration, e.AccessTokenValidityDuration)
	overlay(&config.UpstreamBaseURL, e.UpstreamBaseURL)
	overlay(&config.UpstreamTimeout, e.UpstreamTimeout)
	overlay(&config.UpstreamRetries, e.UpstreamRetries)
	overlay(&config.UpstreamRetryDelay, e.UpstreamRetryDelay)
	overlay(&config.UpstreamCodesBatch, e.UpstreamCodesBatch)
	overlay(&config.CORSAllowedOrigin, e.CORSAllowedOrigin)
	overlay(&config.LogLevel, e.LogLevel)
	overlay(&config.LogBackend, e.LogBackend)
}

func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
