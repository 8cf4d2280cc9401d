package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/busylight-core/internal/infrastructure/config"
)

// Logger is the daemon-wide structured logger, a thin wrapper over
// slog.Logger carrying the service and version attributes on every
// record. Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of the config.
//
// Format selects the handler: "text" for human-readable development
// output, anything else (normally "json") for machine-parsable
// production output. Output selects stdout or stderr. Level filters
// records below the configured severity.
func New(cfg config.LoggingConfig, version string) *Logger {
	handler := newHandler(destination(cfg.Output), cfg.Format, parseLevel(cfg.Level))
	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "busylight"),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// With returns a child Logger carrying extra default attributes, e.g.
// logger.With("component", "mqtt").
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default returns a JSON/info/stdout logger for use during early
// startup, before the config file has been read.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func destination(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// parseLevel maps a config level string to a slog.Level. Unrecognised
// values fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
