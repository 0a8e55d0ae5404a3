// Package config loads carto's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/kk-code-lab/carto/internal/fs"
	"github.com/kk-code-lab/carto/internal/logging"
	"github.com/kk-code-lab/carto/internal/metadata"
	"github.com/kk-code-lab/carto/internal/preview"
)

const (
	// FileName is the config file inside Dir.
	FileName = "config.toml"
	// EnvConfigDir overrides the config directory.
	EnvConfigDir = "CARTO_CONFIG_DIR"

	defaultDebounceMS = 250
	defaultZoxide     = "zoxide"
)

// Config represents config.toml.
type Config struct {
	Settings  Settings       `toml:"settings"`
	Interface Interface      `toml:"interface"`
	Metadata  Metadata       `toml:"metadata"`
	Plugins   Plugins        `toml:"plugins"`
	Logging   logging.Config `toml:"logging"`
}

// Settings holds browsing behaviour.
type Settings struct {
	ShowHidden        bool   `toml:"show_hidden"`
	PreviewFull       bool   `toml:"preview_full"`
	UseRecycleBin     bool   `toml:"use_recycle_bin"`
	SortBy            string `toml:"sort_by"`
	SortOrder         string `toml:"sort_order"`
	PreviewDebounceMS int    `toml:"preview_debounce_ms"`
}

// Interface holds the preview pane texts.
type Interface struct {
	PreviewStart    string   `toml:"preview_start"`
	PreviewBinary   string   `toml:"preview_binary"`
	PreviewError    string   `toml:"preview_error"`
	ImageExtensions []string `toml:"image_extensions"`
}

// Metadata configures the metadata panel.
type Metadata struct {
	Fields         []string `toml:"fields"`
	DatetimeFormat string   `toml:"datetime_format"`
}

// Plugins groups the external tool integrations.
type Plugins struct {
	Zoxide ZoxideConfig `toml:"zoxide"`
	Editor EditorConfig `toml:"editor"`
}

// ZoxideConfig configures the directory jumper.
type ZoxideConfig struct {
	Enabled    bool   `toml:"enabled"`
	Command    string `toml:"command"`
	ShowScores bool   `toml:"show_scores"`
}

// EditorConfig configures the external editor. An empty command falls
// back to $VISUAL, then $EDITOR.
type EditorConfig struct {
	Command string `toml:"command"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	p := preview.DefaultOptions()
	return Config{
		Settings: Settings{
			UseRecycleBin:     true,
			SortBy:            fs.SortByName.String(),
			SortOrder:         fs.Ascending.String(),
			PreviewDebounceMS: defaultDebounceMS,
		},
		Interface: Interface{
			PreviewStart:    p.StartMessage,
			PreviewBinary:   p.BinaryMessage,
			PreviewError:    p.ErrorMessage,
			ImageExtensions: append([]string(nil), p.ImageExtensions...),
		},
		Metadata: Metadata{
			Fields:         append([]string(nil), metadata.DefaultFields...),
			DatetimeFormat: metadata.DefaultDateFormat,
		},
		Plugins: Plugins{
			Zoxide: ZoxideConfig{Enabled: true, Command: defaultZoxide},
		},
	}
}

// Dir returns the config directory, honouring CARTO_CONFIG_DIR.
func Dir() (string, error) {
	if override := strings.TrimSpace(os.Getenv(EnvConfigDir)); override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "carto"), nil
}

// DefaultPath returns Dir()/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads path over Defaults. A missing file is not an error. A file
// that fails to parse yields Defaults together with the parse error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes data over Defaults.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Defaults()
	cfg.Settings.SortBy = fs.ParseSortBy(cfg.Settings.SortBy).String()
	cfg.Settings.SortOrder = fs.ParseSortOrder(cfg.Settings.SortOrder).String()
	if cfg.Settings.PreviewDebounceMS < 0 {
		cfg.Settings.PreviewDebounceMS = def.Settings.PreviewDebounceMS
	}
	if strings.TrimSpace(cfg.Interface.PreviewBinary) == "" {
		cfg.Interface.PreviewBinary = def.Interface.PreviewBinary
	}
	if strings.TrimSpace(cfg.Interface.PreviewError) == "" {
		cfg.Interface.PreviewError = def.Interface.PreviewError
	}
	if strings.TrimSpace(cfg.Metadata.DatetimeFormat) == "" {
		cfg.Metadata.DatetimeFormat = def.Metadata.DatetimeFormat
	}
	cfg.Metadata.Fields = knownFields(cfg.Metadata.Fields)
	if strings.TrimSpace(cfg.Plugins.Zoxide.Command) == "" {
		cfg.Plugins.Zoxide.Command = def.Plugins.Zoxide.Command
	}
}

func knownFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if seen[f] {
			continue
		}
		if !metadata.IsField(f) {
			slog.Warn("config: unknown metadata field", slog.String("field", f))
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// ListOptions converts the settings into lister options.
func (c Config) ListOptions() fs.ListOptions {
	return fs.ListOptions{
		SortBy:     fs.ParseSortBy(c.Settings.SortBy),
		Order:      fs.ParseSortOrder(c.Settings.SortOrder),
		ShowHidden: c.Settings.ShowHidden,
	}
}

// PreviewOptions converts the interface section into preview options.
func (c Config) PreviewOptions() preview.Options {
	opts := preview.DefaultOptions()
	opts.ShowHidden = c.Settings.ShowHidden
	opts.StartMessage = c.Interface.PreviewStart
	opts.BinaryMessage = c.Interface.PreviewBinary
	opts.ErrorMessage = c.Interface.PreviewError
	opts.ImageExtensions = append([]string(nil), c.Interface.ImageExtensions...)
	return opts
}

// PreviewDelay is the debounce applied to preview and metadata refreshes.
func (c Config) PreviewDelay() time.Duration {
	return time.Duration(c.Settings.PreviewDebounceMS) * time.Millisecond
}

// EditorCommand returns the configured editor command line.
func (c Config) EditorCommand() string {
	if cmd := strings.TrimSpace(c.Plugins.Editor.Command); cmd != "" {
		return cmd
	}
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("EDITOR"))
}

// Loader caches the parsed config and re-reads the file only when its
// size or modification time changed.
type Loader struct {
	path     string
	lastRead fileState
	cached   Config
}

type fileState struct {
	modTime time.Time
	size    int64
}

// NewLoader creates a loader for path.
func NewLoader(path string) *Loader {
	return &Loader{path: strings.TrimSpace(path), cached: Defaults()}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.path }

// Load returns the cached config, reloading when the file changed.
func (l *Loader) Load() (Config, error) {
	if l.path == "" {
		return Defaults(), errors.New("empty config path")
	}
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.cached = Defaults()
			l.lastRead = fileState{}
			return l.cached, nil
		}
		return l.cached, err
	}
	state := fileState{modTime: info.ModTime(), size: info.Size()}
	if state == l.lastRead {
		return l.cached, nil
	}
	cfg, err := Load(l.path)
	if err != nil {
		return l.cached, err
	}
	l.cached = cfg
	l.lastRead = state
	return cfg, nil
}
