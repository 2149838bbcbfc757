package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// New returns the service logger. Production writes JSON lines at info;
// other environments get colored console output at debug. A non-empty
// level overrides the environment default.
func New(appName, env, level string) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}
	lvl := zerolog.DebugLevel
	if env == "production" {
		out = os.Stdout
		lvl = zerolog.InfoLevel
	}
	return newLogger(out, appName, env, level, lvl)
}

func newLogger(out io.Writer, appName, env, level string, fallback zerolog.Level) zerolog.Logger {
	lvl := fallback
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	return zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
}

// IntoContext stores a request-scoped logger.
func IntoContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by IntoContext, or a no-op logger.
// The result is a value; assign it before calling level methods.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return zerolog.Nop()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
