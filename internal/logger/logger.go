// Package logger wraps zerolog with the constructors and context helpers used
// across the application. All output is JSON on stdout with a "role" field so
// logs from the server and the consumer can be told apart.
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger, exposing the full zerolog API.
type Logger struct {
	zerolog.Logger
}

type ctxKey struct{}

// New constructs a JSON logger for the given role label (e.g. "server", "consumer").
func New(role string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// NewNop returns a logger that discards everything. Useful in tests.
func NewNop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithContext returns a copy of ctx carrying the logger.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or a default one when absent.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return New("app")
}
