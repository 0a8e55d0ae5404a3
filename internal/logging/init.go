// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Init merges cfg over DefaultConfig, applies env overrides and installs
// the result as slog's default logger. The returned func closes the sink.
func Init(cfg Config, version string) (func() error, error) {
	cfg = mergeConfig(DefaultConfig(), cfg).WithEnv()
	normalized, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	logger, closeFn, err := build(normalized)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.With(slog.String("app", "carto"), slog.String("version", version)))
	return closeFn, nil
}

func build(cfg Config) (*slog.Logger, func() error, error) {
	sink := SinkFile
	if cfg.Sink != nil {
		sink = Sink(*cfg.Sink)
	}
	writer, closeFn, err := resolveWriter(cfg, sink)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(deref(cfg.Level, ""))}
	var handler slog.Handler
	if cfg.Format != nil && Format(*cfg.Format) == FormatJSON {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	return slog.New(handler), closeFn, nil
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

// DefaultFile is carto/carto.log under the user cache dir.
func DefaultFile() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "carto", "carto.log"), nil
}

func resolveWriter(cfg Config, sink Sink) (io.Writer, func() error, error) {
	switch sink {
	case SinkNone:
		return io.Discard, func() error { return nil }, nil
	case SinkStderr:
		return os.Stderr, func() error { return nil }, nil
	case SinkFile:
		path := strings.TrimSpace(deref(cfg.File, ""))
		if path == "" {
			var err error
			if path, err = DefaultFile(); err != nil {
				return nil, nil, err
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    deref(cfg.MaxSizeMB, 10),
			MaxBackups: deref(cfg.MaxBackups, 3),
			MaxAge:     deref(cfg.MaxAgeDays, 14),
			Compress:   deref(cfg.Compress, false),
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", sink)
	}
}

func deref[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
