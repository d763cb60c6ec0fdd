package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"ideprojects/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	Writer      io.Writer
	Development bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(writer, levelVar, addSource)
	case "console":
		handler = newPrettyHandler(writer, levelVar, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(handler), nil
}

// NewFromConfig creates a logger using application config defaults.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	return New(ConfigOptions(cfg))
}

// ConfigOptions derives logger options from cfg. Silent export runs only
// surface warnings and errors unless debug was requested.
func ConfigOptions(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Level: "info", Format: "console"}
	}
	level := cfg.Logging.Level
	if cfg.SilentMode() && parseLevel(level) < slog.LevelWarn && parseLevel(level) > slog.LevelDebug {
		level = "warn"
	}
	return Options{
		Level:  level,
		Format: cfg.Logging.Format,
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
