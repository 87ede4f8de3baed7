package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logger *slog.Logger

func init() {
	// Default to INFO level on stderr
	InitLogger(Options{Level: "info"})
}

type Options struct {
	Level  string    // debug, info, warn or error
	Format string    // text or json
	Output io.Writer // defaults to stderr
}

// ParseLevel maps a level name to a slog level. Unknown names are INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger without touching the global default.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	if strings.EqualFold(opts.Format, "json") {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}

// InitLogger builds a logger and installs it as the slog default.
func InitLogger(opts Options) *slog.Logger {
	logger = New(opts)
	slog.SetDefault(logger)
	return logger
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	return logger
}
