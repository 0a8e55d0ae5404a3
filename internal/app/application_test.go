package app

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/carto/internal/config"
	statepkg "github.com/kk-code-lab/carto/internal/state"
)

func newTestApp(t *testing.T, cwd, configPath string) *Application {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(120, 30)

	cfg := config.Defaults()
	cfg.Settings.PreviewDebounceMS = 0
	cfg.Plugins.Zoxide.Enabled = false

	app, err := newApplication(screen, Options{Cwd: cwd, ConfigPath: configPath, Config: cfg})
	if err != nil {
		screen.Fini()
		t.Fatalf("newApplication: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if strings.HasSuffix(n, "/") {
			if err := os.MkdirAll(filepath.Join(dir, n), 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func currentName(app *Application) string {
	e, ok := app.state.CurrentEntry()
	if !ok {
		return ""
	}
	return e.Name
}

func TestQuitRecordsPathOnlyWhenChangingDirectory(t *testing.T) {
	dir := t.TempDir()

	app := newTestApp(t, dir, "")
	app.handleAction(statepkg.QuitAction{})
	if !app.shouldQuit || app.GetCurrentPath() != "" {
		t.Fatalf("quit: shouldQuit=%v path=%q", app.shouldQuit, app.GetCurrentPath())
	}

	app = newTestApp(t, dir, "")
	app.handleAction(statepkg.QuitAndChangeAction{})
	if app.GetCurrentPath() != app.state.CurrentPath {
		t.Fatalf("quit-and-change path = %q, want %q", app.GetCurrentPath(), app.state.CurrentPath)
	}
}

func TestReducerErrorsLandOnStatusLine(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	app := newTestApp(t, dir, "")

	app.handleAction(statepkg.GoToPathAction{Path: filepath.Join(dir, "a.txt")})
	if app.state.LastError == nil {
		t.Fatal("navigating to a file should report an error")
	}

	app.handleEvent(tcell.NewEventKey(tcell.KeyDown, 0, 0))
	if app.state.LastError != nil {
		t.Fatalf("key press should clear the error, got %v", app.state.LastError)
	}
}

func TestMouseClickSelectsAndDoubleClickEnters(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "alpha/", "beta/", "gamma.txt")
	app := newTestApp(t, dir, "")

	l := statepkg.ComputeLayout(app.state.ScreenWidth, app.state.ScreenHeight)
	click := tcell.NewEventMouse(l.ListStart+2, l.BodyTop+1, tcell.Button1, 0)

	app.handleEvent(click)
	app.processActions()
	if got := currentName(app); got != "beta" {
		t.Fatalf("after click current = %q, want beta", got)
	}

	app.handleEvent(click)
	app.processActions()
	if want := filepath.Join(dir, "beta"); app.state.CurrentPath != want {
		t.Fatalf("double click: path = %q, want %q", app.state.CurrentPath, want)
	}
}

func TestMouseWheelMovesCursor(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt")
	app := newTestApp(t, dir, "")

	app.handleEvent(tcell.NewEventMouse(0, 5, tcell.WheelDown, 0))
	app.processActions()
	if got := currentName(app); got != "b.txt" {
		t.Fatalf("wheel down: current = %q", got)
	}
}

func TestBreadcrumbPath(t *testing.T) {
	tests := []struct {
		segments []string
		idx      int
		want     string
	}{
		{[]string{"/", "home", "me"}, 0, "/"},
		{[]string{"/", "home", "me"}, 1, "/home"},
		{[]string{"/", "home", "me"}, 2, "/home/me"},
		{[]string{"C:", "Users", "me"}, 1, "C:/Users"},
		{[]string{"/", "home"}, 5, ""},
	}
	for _, tt := range tests {
		want := tt.want
		if want != "" {
			want = filepath.FromSlash(want)
		}
		if got := breadcrumbPath(tt.segments, tt.idx); got != want {
			t.Errorf("breadcrumbPath(%v, %d) = %q, want %q", tt.segments, tt.idx, got, want)
		}
	}
}

func TestBreadcrumbClickJumpsToAncestor(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "x/")
	app := newTestApp(t, filepath.Join(root, "x"), "")

	// The header starts with the title, then "/", then " › ", then the
	// first path component.
	x := len(headerTitle) + 1 + 3
	app.handleEvent(tcell.NewEventMouse(x, 0, tcell.Button1, 0))
	select {
	case a := <-app.actionCh:
		goTo, ok := a.(statepkg.GoToPathAction)
		if !ok {
			t.Fatalf("got %#v, want GoToPathAction", a)
		}
		first := renderSegmentsPath(app.state.CurrentPath, 1)
		if goTo.Path != first {
			t.Fatalf("jumped to %q, want %q", goTo.Path, first)
		}
	default:
		t.Fatal("breadcrumb click emitted nothing")
	}
}

// renderSegmentsPath is the ancestor of path made of its first n+1 segments.
func renderSegmentsPath(path string, n int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	return filepath.FromSlash("/" + parts[n])
}

func TestConfigAndPinsReload(t *testing.T) {
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "config.toml")
	cwd := t.TempDir()
	writeFiles(t, cwd, ".hidden", "shown.txt")
	app := newTestApp(t, cwd, cfgPath)

	if got := len(app.state.DisplayFiles()); got != 1 {
		t.Fatalf("hidden files should start hidden, got %d entries", got)
	}

	body := "[settings]\nshow_hidden = true\n\n[plugins.zoxide]\nenabled = false\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if !app.reloadFile(config.Event{Name: "config.toml", Path: cfgPath}) {
		t.Fatal("config event ignored")
	}
	if app.state.LastError != nil {
		t.Fatalf("reload error: %v", app.state.LastError)
	}
	if !app.state.ListOptions.ShowHidden || len(app.state.DisplayFiles()) != 2 {
		t.Fatalf("show_hidden not applied: %v", app.state.DisplayFiles())
	}

	if _, err := app.pins.Add("work", cwd); err != nil {
		t.Fatalf("add pin: %v", err)
	}
	app.reloadFile(config.Event{Name: filepath.Base(app.pins.Path()), Path: app.pins.Path()})
	if !app.state.Pins.Contains(cwd) {
		t.Fatalf("pins not reloaded: %+v", app.state.Pins)
	}

	if app.reloadFile(config.Event{Name: "other.toml"}) {
		t.Fatal("unrelated file triggered a reload")
	}
}

func TestEditorArgs(t *testing.T) {
	tests := []struct {
		command string
		want    []string
		wantErr error
	}{
		{"vim", []string{"vim", "/tmp/f"}, nil},
		{`code --wait`, []string{"code", "--wait", "/tmp/f"}, nil},
		{`"my editor" -c 'set ft=txt'`, []string{"my editor", "-c", "set ft=txt", "/tmp/f"}, nil},
		{"", nil, errNoEditor},
	}
	for _, tt := range tests {
		got, err := editorArgs(tt.command, "/tmp/f")
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("editorArgs(%q) err = %v, want %v", tt.command, err, tt.wantErr)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("editorArgs(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}

	if _, err := editorArgs(`vim "unterminated`, "/tmp/f"); err == nil {
		t.Fatal("unterminated quote should fail")
	}
}

func TestRenderShowsHeaderAndListing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "notes.md")
	app := newTestApp(t, dir, "")

	app.renderer.Render(app.state)
	screen := app.screen.(tcell.SimulationScreen)
	cells, w, _ := screen.GetContents()

	row := func(y int) string {
		var b strings.Builder
		for x := 0; x < w; x++ {
			b.WriteString(string(cells[y*w+x].Runes))
		}
		return b.String()
	}
	if !strings.HasPrefix(row(0), "carto") {
		t.Fatalf("header = %q", row(0))
	}
	l := statepkg.ComputeLayout(app.state.ScreenWidth, app.state.ScreenHeight)
	if !strings.Contains(row(l.BodyTop), "notes.md") {
		t.Fatalf("first list row = %q", row(l.BodyTop))
	}
}
