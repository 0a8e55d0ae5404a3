package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kk-code-lab/carto/internal/config"
)

type harness struct {
	t       *testing.T
	r       *StateReducer
	s       *AppState
	actions chan Action
	errs    []error
}

func newHarness(t *testing.T, dir string) *harness {
	t.Helper()
	cfg := config.Defaults()
	cfg.Settings.PreviewDebounceMS = 0
	cfg.Plugins.Zoxide.Enabled = false

	h := &harness{t: t, actions: make(chan Action, 256)}
	h.r = NewStateReducer(Options{Config: cfg}, func(a Action) { h.actions <- a })
	h.r.drives = func() []string { return nil }
	h.r.yank = func([]string) error { return nil }

	h.s = NewAppState(dir, cfg)
	h.s.ScreenWidth, h.s.ScreenHeight = 120, 30
	if err := h.r.Init(h.s); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { h.r.Shutdown(h.s) })
	return h
}

func (h *harness) do(a Action) {
	h.t.Helper()
	if _, err := h.r.Reduce(h.s, a); err != nil {
		h.t.Fatalf("Reduce(%T): %v", a, err)
	}
}

// pumpUntil feeds dispatched actions back into the reducer until cond holds.
func (h *harness) pumpUntil(what string, cond func() bool) {
	h.t.Helper()
	deadline := time.After(3 * time.Second)
	for !cond() {
		select {
		case a := <-h.actions:
			if _, err := h.r.Reduce(h.s, a); err != nil {
				h.errs = append(h.errs, err)
			}
		case <-deadline:
			h.t.Fatalf("timed out waiting for %s", what)
		}
	}
}

// drain reduces whatever arrives within d.
func (h *harness) drain(d time.Duration) {
	deadline := time.After(d)
	for {
		select {
		case a := <-h.actions:
			if _, err := h.r.Reduce(h.s, a); err != nil {
				h.errs = append(h.errs, err)
			}
		case <-deadline:
			return
		}
	}
}

func (h *harness) current() string {
	e, ok := h.s.CurrentEntry()
	if !ok {
		return ""
	}
	return e.Name
}

func (h *harness) names() []string {
	var out []string
	for _, e := range h.s.DisplayFiles() {
		out = append(out, e.Name)
	}
	return out
}

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.MkdirAll(filepath.Join(root, n), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
