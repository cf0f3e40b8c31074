package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-g", ":6000", "-d", "db", "-s", "secret",
				"-t", "90", "-u", "http://upstream", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:            "127.0.0.1:9090",
				EndpointAddrGRPC:            ":6000",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 90 * time.Minute,
				UpstreamBaseURL:             "http://upstream",
				LogLevel:                    "debug",
			},
		},
		{
			name:     "no -t keeps sub-minute validity",
			args:     []string{"cmd", "-c", "ignored.json"},
			expected: &Config{AccessTokenValidityDuration: 30 * time.Second},
		},
		{
			name:        "bad int panics",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{AccessTokenValidityDuration: 30 * time.Second}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Equal(t, tt.expected, cfg)
		})
	}
}
