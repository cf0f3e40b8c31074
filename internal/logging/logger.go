// Package logging defines the structured-logging interface used across the
// server. Two backends are provided: log/slog (default) and zap.
package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "upstream call", "path", "/alpha/FRA", "status", 200)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported backends for New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a JSON logger on stdout for the given backend and level
// (debug, info, warn, error).
func New(backend, level string) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		l, err := newSlog(os.Stdout, defaultLevel(level))
		if err != nil {
			return nil, err
		}
		return NewSlogLogger(l), nil
	case BackendZap:
		z, err := newZap(defaultLevel(level))
		if err != nil {
			return nil, err
		}
		return NewZapLogger(z), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func defaultLevel(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
