package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel      = "CARTO_LOG_LEVEL"
	EnvLogFormat     = "CARTO_LOG_FORMAT"
	EnvLogSink       = "CARTO_LOG_SINK"
	EnvLogFile       = "CARTO_LOG_FILE"
	EnvLogMaxSizeMB  = "CARTO_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "CARTO_LOG_MAX_BACKUPS"
)

// Config is the [logging] section of config.toml. Nil fields keep their
// default.
type Config struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
	Sink   *string `toml:"sink,omitempty"`
	File   *string `toml:"file,omitempty"`

	MaxSizeMB  *int  `toml:"max_size_mb,omitempty"`
	MaxBackups *int  `toml:"max_backups,omitempty"`
	MaxAgeDays *int  `toml:"max_age_days,omitempty"`
	Compress   *bool `toml:"compress,omitempty"`
}

// DefaultConfig logs warnings to a rotating file; the terminal belongs to
// the UI.
func DefaultConfig() Config {
	level := "warn"
	sink := string(SinkFile)
	format := string(FormatText)
	maxSizeMB := 10
	maxBackups := 3
	maxAgeDays := 14
	compress := false

	return Config{
		Level:      &level,
		Format:     &format,
		Sink:       &sink,
		MaxSizeMB:  &maxSizeMB,
		MaxBackups: &maxBackups,
		MaxAgeDays: &maxAgeDays,
		Compress:   &compress,
	}
}

// WithEnv applies the CARTO_LOG_* overrides.
func (c Config) WithEnv() Config {
	applyString := func(dst **string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = &v
		}
	}
	applyInt := func(dst **int, env string) {
		raw := strings.TrimSpace(os.Getenv(env))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return
		}
		*dst = &n
	}

	applyString(&c.Level, EnvLogLevel)
	applyString(&c.Format, EnvLogFormat)
	applyString(&c.Sink, EnvLogSink)
	applyString(&c.File, EnvLogFile)
	applyInt(&c.MaxSizeMB, EnvLogMaxSizeMB)
	applyInt(&c.MaxBackups, EnvLogMaxBackups)
	return c
}

// Normalize validates format and sink.
func (c Config) Normalize() (Config, error) {
	if c.Format != nil {
		v := strings.ToLower(strings.TrimSpace(*c.Format))
		switch Format(v) {
		case FormatText, FormatJSON:
		default:
			return c, fmt.Errorf("logging: unknown format %q", *c.Format)
		}
		c.Format = &v
	}
	if c.Sink != nil {
		v := strings.ToLower(strings.TrimSpace(*c.Sink))
		switch Sink(v) {
		case SinkStderr, SinkFile, SinkNone:
		default:
			return c, fmt.Errorf("logging: unknown sink %q", *c.Sink)
		}
		c.Sink = &v
	}
	return c, nil
}

func mergeConfig(base, override Config) Config {
	out := base
	if override.Level != nil {
		out.Level = override.Level
	}
	if override.Format != nil {
		out.Format = override.Format
	}
	if override.Sink != nil {
		out.Sink = override.Sink
	}
	if override.File != nil {
		out.File = override.File
	}
	if override.MaxSizeMB != nil {
		out.MaxSizeMB = override.MaxSizeMB
	}
	if override.MaxBackups != nil {
		out.MaxBackups = override.MaxBackups
	}
	if override.MaxAgeDays != nil {
		out.MaxAgeDays = override.MaxAgeDays
	}
	if override.Compress != nil {
		out.Compress = override.Compress
	}
	return out
}
