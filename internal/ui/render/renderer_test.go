package render

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

func TestTruncateTextToWidth(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 0, ""},
		{"hello world", 1, "…"},
		{"hello world", 6, "hello…"},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		if got := truncateTextToWidth(tt.text, tt.width); got != tt.want {
			t.Errorf("truncateTextToWidth(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestFitLeftKeepsTail(t *testing.T) {
	if got := fitLeft("/home/user/projects", 8); got != "…rojects" {
		t.Fatalf("fitLeft = %q", got)
	}
	if got := fitLeft("abc", 0); got != "" {
		t.Fatalf("fitLeft zero width = %q", got)
	}
}

func TestFormatBreadcrumbSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", []string{"/"}},
		{"/", []string{"/"}},
		{"/home/me/", []string{"/", "home", "me"}},
		{"/a//b", []string{"/", "a", "b"}},
	}
	for _, tt := range tests {
		if got := FormatBreadcrumbSegments(tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FormatBreadcrumbSegments(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFooterHelpFollowsContext(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	state := statepkg.NewAppState(t.TempDir(), config.Defaults())

	got := buildFooterHelpSegments(state)
	if got[0] != "↑↓/↵/←: navigate" || got[len(got)-1] != "q/Q: quit/cd" {
		t.Fatalf("default hints = %v", got)
	}
	for _, s := range got {
		if s == "y: yank path" || s == "e: edit" {
			t.Fatalf("unavailable feature advertised: %v", got)
		}
	}

	state.ClipboardAvailable = true
	state.EditorCommand = "vim"
	state.ListOptions.ShowHidden = true
	got = buildFooterHelpSegments(state)
	for _, want := range []string{".: hide hidden", "y: yank path", "e: edit"} {
		if !contains(got, want) {
			t.Fatalf("hints %v missing %q", got, want)
		}
	}

	state.Focus = statepkg.PaneClipboard
	if got := buildFooterHelpSegments(state); got[len(got)-1] != "q/Q: quit/cd" || !contains(got, "X: remove") {
		t.Fatalf("clipboard hints = %v", got)
	}

	state.Ops.Running = true
	if got := buildFooterHelpSegments(state); !reflect.DeepEqual(got, []string{"Esc: cancel operation"}) {
		t.Fatalf("running hints = %v", got)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type renderFixture struct {
	screen  tcell.SimulationScreen
	state   *statepkg.AppState
	reducer *statepkg.StateReducer
}

func newRenderFixture(t *testing.T, names ...string) *renderFixture {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(100, 20)
	t.Cleanup(screen.Fini)

	cfg := config.Defaults()
	cfg.Plugins.Zoxide.Enabled = false
	actions := make(chan statepkg.Action, 64)
	reducer := statepkg.NewStateReducer(statepkg.Options{Config: cfg}, func(a statepkg.Action) {
		select {
		case actions <- a:
		default:
		}
	})
	state := statepkg.NewAppState(dir, cfg)
	state.ScreenWidth, state.ScreenHeight = 100, 20
	if err := reducer.Init(state); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { reducer.Shutdown(state) })
	return &renderFixture{screen: screen, state: state, reducer: reducer}
}

func (f *renderFixture) row(y int) string {
	NewRenderer(f.screen).Render(f.state)
	cells, w, _ := f.screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteString(string(cells[y*w+x].Runes))
	}
	return b.String()
}

func TestRenderListAndHeader(t *testing.T) {
	f := newRenderFixture(t, "alpha.txt", "beta.txt")

	if header := f.row(0); !strings.HasPrefix(header, "carto ") {
		t.Fatalf("header = %q", header)
	}
	l := statepkg.ComputeLayout(100, 20)
	if got := f.row(l.BodyTop + 1); !strings.Contains(got, "beta.txt") {
		t.Fatalf("second list row = %q", got)
	}
}

func TestRenderStatusLinePrecedence(t *testing.T) {
	f := newRenderFixture(t, "a.txt")
	last := 19

	f.state.Notice = "Copied path to clipboard."
	if got := f.row(last); !strings.Contains(got, "Copied path to clipboard.") {
		t.Fatalf("notice row = %q", got)
	}

	f.state.LastError = errors.New("boom")
	if got := f.row(last); !strings.Contains(got, "boom") || strings.Contains(got, "Copied") {
		t.Fatalf("error row = %q", got)
	}

	f.state.Prompt = statepkg.NewPrompt("Overwrite a.txt?", 'n',
		statepkg.PromptChoice{Key: 'y', Label: "yes"},
		statepkg.PromptChoice{Key: 'n', Label: "no"})
	if got := f.row(last); !strings.Contains(got, "Overwrite a.txt?") || strings.Contains(got, "boom") {
		t.Fatalf("prompt row = %q", got)
	}
}

func TestRenderShowsEmptyFilterMessage(t *testing.T) {
	f := newRenderFixture(t, "a.txt")
	for _, a := range []statepkg.Action{
		statepkg.InputStartAction{Mode: statepkg.InputFilter},
		statepkg.InputCharAction{Char: 'z'},
		statepkg.InputCharAction{Char: 'q'},
	} {
		if _, err := f.reducer.Reduce(f.state, a); err != nil {
			t.Fatal(err)
		}
	}
	l := statepkg.ComputeLayout(100, 20)
	if got := f.row(l.BodyTop); !strings.Contains(got, "no matches for zq") {
		t.Fatalf("list row = %q", got)
	}
}
