package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options tunes the logger beyond the app identity.
type Options struct {
	Level         string
	File          string
	FileMaxSizeMB int
	FileBackups   int
	FileMaxAge    int
}

// FromContext returns a zerolog.Logger stored in context, or a no-op logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return zerolog.Nop()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

type loggerKey struct{}

// New builds a structured logger: console output outside production, JSON in
// production, plus a rotating file sink when opts.File is set.
func New(appName, env string, opts Options) zerolog.Logger {
	var console io.Writer = os.Stdout
	if env != "production" {
		console = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339Nano,
		}
	}

	out := console
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.FileMaxSizeMB,
			MaxBackups: opts.FileBackups,
			MaxAge:     opts.FileMaxAge,
			Compress:   true,
		})
	}

	return NewWithWriter(appName, env, opts.Level, out)
}

// NewWithWriter builds the logger on an arbitrary writer.
func NewWithWriter(appName, env, level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
}

// IntoContext injects a logger into context for downstream use.
func IntoContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
