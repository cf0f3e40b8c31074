package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/countryexplorer/internal/flagx"
	"github.com/dmitrijs2005/countryexplorer/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "10s"-style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	UpstreamBaseURL             string          `json:"upstream_base_url"`
	UpstreamTimeout             *timex.Duration `json:"upstream_timeout"`
	UpstreamRetries             *int            `json:"upstream_retries"`
	UpstreamRetryDelay          *timex.Duration `json:"upstream_retry_delay"`
	UpstreamCodesBatch          *int            `json:"upstream_codes_batch"`
	CORSAllowedOrigin           string          `json:"cors_allowed_origin"`
	LogLevel                    string          `json:"log_level"`
	LogBackend                  string          `json:"log_backend"`
}

// parseJson overlays values from the file named by -c / -config.
// Keys missing from the file keep their current value; database_dsn may be
// set to "" explicitly to select the in-memory store.
// An unreadable file or invalid JSON panics: this only runs at startup.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.UpstreamBaseURL, c.UpstreamBaseURL)
	if c.UpstreamTimeout != nil {
		config.UpstreamTimeout = c.UpstreamTimeout.Duration
	}
	if c.UpstreamRetries != nil {
		config.UpstreamRetries = *c.UpstreamRetries
	}
	if c.UpstreamRetryDelay != nil {
		config.UpstreamRetryDelay = c.UpstreamRetryDelay.Duration
	}
	if c.UpstreamCodesBatch != nil {
		config.UpstreamCodesBatch = *c.UpstreamCodesBatch
	}
	setString(&config.CORSAllowedOrigin, c.CORSAllowedOrigin)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogBackend, c.LogBackend)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
