package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	if code := execute([]string{"--version"}, &out, &out); code != 0 {
		t.Fatalf("exit code %d, output %q", code, out.String())
	}
	if !strings.Contains(out.String(), buildVersion()) {
		t.Fatalf("version output %q", out.String())
	}
}

func TestUnknownFlagFails(t *testing.T) {
	var out bytes.Buffer
	if code := execute([]string{"--not-a-flag"}, &out, &out); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
}

func TestPositionalArgumentsRejected(t *testing.T) {
	var out bytes.Buffer
	if code := execute([]string{"somewhere"}, &out, &out); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
}

func TestSetupPrintsShellFunction(t *testing.T) {
	var out bytes.Buffer
	if code := execute([]string{"setup", "zsh"}, &out, &out); code != 0 {
		t.Fatalf("exit code %d, output %q", code, out.String())
	}
	if !strings.HasPrefix(out.String(), "carto() {") || !strings.Contains(out.String(), "--print-last-dir") {
		t.Fatalf("unexpected snippet:\n%s", out.String())
	}
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CARTO_CONFIG_DIR", dir)

	got, err := resolveConfigPath("")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "config.toml"); got != want {
		t.Fatalf("default path = %q, want %q", got, want)
	}

	got, err = resolveConfigPath(filepath.Join(dir, "other.toml"))
	if err != nil || got != filepath.Join(dir, "other.toml") {
		t.Fatalf("explicit path = %q, %v", got, err)
	}
}
