package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kk-code-lab/carto/internal/fs"
	"github.com/kk-code-lab/carto/internal/metadata"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Defaults()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestParseMergesOverDefaults(t *testing.T) {
	data := []byte(`
[settings]
show_hidden = true
sort_by = "size"
sort_order = "descending"

[metadata]
fields = ["size", "Type", "bogus", "size"]

[plugins.zoxide]
show_scores = true

[logging]
level = "debug"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Settings.ShowHidden {
		t.Fatal("show_hidden not applied")
	}
	opts := cfg.ListOptions()
	if opts.SortBy != fs.SortBySize || opts.Order != fs.Descending || !opts.ShowHidden {
		t.Fatalf("unexpected list options %+v", opts)
	}
	if got, want := cfg.Metadata.Fields, []string{metadata.FieldSize, metadata.FieldType}; !reflect.DeepEqual(got, want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	if cfg.Metadata.DatetimeFormat != metadata.DefaultDateFormat {
		t.Fatalf("datetime_format lost default: %q", cfg.Metadata.DatetimeFormat)
	}
	if !cfg.Plugins.Zoxide.Enabled || cfg.Plugins.Zoxide.Command != "zoxide" || !cfg.Plugins.Zoxide.ShowScores {
		t.Fatalf("zoxide section not merged: %+v", cfg.Plugins.Zoxide)
	}
	if cfg.Logging.Level == nil || *cfg.Logging.Level != "debug" {
		t.Fatal("logging level not decoded")
	}
	if cfg.PreviewDelay() != 250*time.Millisecond {
		t.Fatalf("delay = %v", cfg.PreviewDelay())
	}
}

func TestParseNormalizesInvalidValues(t *testing.T) {
	cfg, err := Parse([]byte("[settings]\nsort_by = \"colour\"\npreview_debounce_ms = -5\n[interface]\npreview_binary = \"\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Settings.SortBy != "name" {
		t.Fatalf("sort_by = %q", cfg.Settings.SortBy)
	}
	if cfg.Settings.PreviewDebounceMS != 250 {
		t.Fatalf("debounce = %d", cfg.Settings.PreviewDebounceMS)
	}
	if cfg.Interface.PreviewBinary != Defaults().Interface.PreviewBinary {
		t.Fatalf("binary message = %q", cfg.Interface.PreviewBinary)
	}
}

func TestParseErrorReturnsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("[settings\nshow_hidden = true"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Settings.ShowHidden {
		t.Fatal("expected defaults on parse error")
	}
}

func TestPreviewOptionsCarryInterfaceTexts(t *testing.T) {
	cfg := Defaults()
	cfg.Interface.PreviewBinary = "nope"
	cfg.Settings.ShowHidden = true
	opts := cfg.PreviewOptions()
	if opts.BinaryMessage != "nope" || !opts.ShowHidden {
		t.Fatalf("unexpected preview options %+v", opts)
	}
}

func TestEditorCommandFallback(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "vi -n")
	cfg := Defaults()
	if got := cfg.EditorCommand(); got != "vi -n" {
		t.Fatalf("EditorCommand() = %q", got)
	}
	cfg.Plugins.Editor.Command = "hx"
	if got := cfg.EditorCommand(); got != "hx" {
		t.Fatalf("EditorCommand() = %q", got)
	}
}

func TestDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if got != filepath.Join(dir, FileName) {
		t.Fatalf("DefaultPath() = %q", got)
	}
}

func TestLoaderReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	l := NewLoader(path)

	cfg, err := l.Load()
	if err != nil || cfg.Settings.ShowHidden {
		t.Fatalf("missing file: %+v %v", cfg.Settings, err)
	}

	if err := os.WriteFile(path, []byte("[settings]\nshow_hidden = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = l.Load()
	if err != nil || !cfg.Settings.ShowHidden {
		t.Fatalf("expected reload: %+v %v", cfg.Settings, err)
	}

	// A broken rewrite keeps the last good config.
	if err := os.WriteFile(path, []byte("[settings\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = l.Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !cfg.Settings.ShowHidden {
		t.Fatal("expected cached config after parse error")
	}
}

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch(dir, 80*time.Millisecond, FileName)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, FileName)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("[settings]\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		if ev.Name != FileName {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload event")
	}

	select {
	case ev := <-w.Events():
		t.Fatalf("expected a single coalesced event, got extra %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
