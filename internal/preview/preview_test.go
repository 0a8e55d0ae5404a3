package preview

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestScheduleBurstComputesOnlyLastPath(t *testing.T) {
	var mu sync.Mutex
	var built []string
	results := make(chan Result, 8)

	s := NewScheduler(30*time.Millisecond, DefaultOptions(), func(r Result) { results <- r })
	s.build = func(ctx context.Context, path string, opts Options) Content {
		mu.Lock()
		built = append(built, path)
		mu.Unlock()
		return Content{Kind: KindMessage, Path: path, Message: path}
	}

	var last uint64
	for _, p := range []string{"P1", "P2", "P3", "P4", "P5"} {
		last = s.Schedule(p)
	}

	select {
	case r := <-results:
		if r.Path != "P5" || r.Generation != last {
			t.Fatalf("got result for %s gen %d, want P5 gen %d", r.Path, r.Generation, last)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no preview delivered")
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(built) != 1 || built[0] != "P5" {
		t.Fatalf("built = %v, want [P5]", built)
	}
	if len(results) != 0 {
		t.Fatalf("unexpected extra results: %d", len(results))
	}
}

func TestSupersededComputationIsNotDelivered(t *testing.T) {
	release := make(chan struct{})
	results := make(chan Result, 4)
	s := NewScheduler(0, DefaultOptions(), func(r Result) { results <- r })
	s.build = func(ctx context.Context, path string, opts Options) Content {
		if path == "slow" {
			<-release
		}
		return Content{Kind: KindMessage, Path: path}
	}

	s.Schedule("slow")
	fast := s.Schedule("fast")

	r := <-results
	if r.Path != "fast" || r.Generation != fast {
		t.Fatalf("first result = %s gen %d", r.Path, r.Generation)
	}
	close(release)

	select {
	case r := <-results:
		t.Fatalf("stale result delivered: %s gen %d", r.Path, r.Generation)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestViewDropsStaleGeneration(t *testing.T) {
	var v View
	v.Resize(10, 40)
	v.Expect(1)
	v.Expect(2)

	if !v.Apply(2, Content{Kind: KindMessage, Message: "new"}) {
		t.Fatal("current generation rejected")
	}
	if v.Apply(1, Content{Kind: KindMessage, Message: "old"}) {
		t.Fatal("stale generation accepted")
	}
	if got := v.Lines()[0].String(); got != "new" {
		t.Fatalf("view shows %q, want new", got)
	}
}

func TestResizeRewindowsWithoutReadingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	var body strings.Builder
	for i := 0; i < 50; i++ {
		body.WriteString(strings.Repeat("abcdefghij", 10))
		body.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(body.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	var v View
	v.Resize(10, 25)
	v.Set(Build(context.Background(), path, DefaultOptions()))
	if len(v.Lines()) != 10 {
		t.Fatalf("rows = %d, want 10", len(v.Lines()))
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	v.Resize(20, 45)
	lines := v.Lines()
	if len(lines) != 20 {
		t.Fatalf("rows after resize = %d, want 20", len(lines))
	}
	if got := len(lines[0].String()); got != 45-GutterWidth {
		t.Fatalf("columns after resize = %d, want %d", got, 45-GutterWidth)
	}
	if v.Content().Kind != KindText {
		t.Fatalf("cached content lost: kind %v", v.Content().Kind)
	}
}

func TestFullPreviewIsUnclipped(t *testing.T) {
	c := Content{Kind: KindText, Lines: []Line{{{Text: strings.Repeat("x", 300)}}, {{Text: "y"}}}}
	if got := c.Window(1, 10, true); len(got) != 2 || len(got[0].String()) != 300 {
		t.Fatalf("full window clipped: %d lines", len(got))
	}
}

func TestBuildClassifiesFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	goFile := write("main.go", []byte("package main\n\nfunc main() {}\n"))
	binFile := write("blob.dat", []byte{0x00, 0x01, 0x02, 0x03})
	imgFile := write("pic.png", []byte{0x89, 'P', 'N', 'G'})
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()

	tests := []struct {
		name string
		path string
		kind Kind
		msg  string
	}{
		{"text", goFile, KindText, ""},
		{"binary", binFile, KindMessage, opts.BinaryMessage},
		{"image", imgFile, KindImage, opts.ImageMessage},
		{"directory", filepath.Join(dir, "sub"), KindDirectory, ""},
		{"missing", filepath.Join(dir, "nope"), KindMessage, opts.ErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Build(context.Background(), tt.path, opts)
			if c.Kind != tt.kind || c.Message != tt.msg {
				t.Fatalf("Build(%s) = kind %v msg %q", tt.name, c.Kind, c.Message)
			}
		})
	}

	c := Build(context.Background(), goFile, opts)
	if c.Language != "Go" {
		t.Fatalf("language = %q, want Go", c.Language)
	}
	if len(c.Lines) != 3 || c.Lines[0].String() != "package main" {
		t.Fatalf("unexpected lines: %d %q", len(c.Lines), c.Lines[0].String())
	}
}

type fakeImages struct{ calls int }

func (f *fakeImages) Render(ctx context.Context, path string, cols, rows int) ([]string, error) {
	f.calls++
	return []string{"##", "##"}, nil
}

func TestBuildDefersImagesToRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	images := &fakeImages{}
	opts := DefaultOptions()
	opts.Images = images
	c := Build(context.Background(), path, opts)
	if images.calls != 1 || len(c.Window(5, 5, false)) != 2 {
		t.Fatalf("image renderer calls %d, lines %d", images.calls, len(c.Lines))
	}
}

func TestHighlightExpandsTabsAcrossSpans(t *testing.T) {
	lines, _ := Highlight("x.txt", "a\tb\n")
	if len(lines) != 1 || lines[0].String() != "a   b" {
		t.Fatalf("lines = %q", lines[0].String())
	}
}
