package session

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/kk-code-lab/carto/internal/ident"
)

func paths(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

func TestNavigateAfterBackTruncatesForwardBranch(t *testing.T) {
	s := New()
	for _, p := range []string{"/A", "/B", "/C"} {
		s.NavigateTo(p, "")
	}
	if s.Index() != 2 {
		t.Fatalf("index = %d, want 2", s.Index())
	}

	s.GoBack()
	s.GoBack()
	s.NavigateTo("/D", "")

	got := paths(s.History())
	if len(got) != 2 || got[0] != "/A" || got[1] != "/D" {
		t.Fatalf("history = %v, want [/A /D]", got)
	}
	if s.Index() != 1 {
		t.Fatalf("index = %d, want 1", s.Index())
	}
	if s.CanGoForward() {
		t.Fatal("forward branch should be gone")
	}
}

func TestHistoryIndexStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New()
	s.NavigateTo("/root", "")
	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			s.NavigateTo(filepath.Join("/root", string(rune('a'+rng.Intn(26)))), "")
		case 1:
			if s.CanGoBack() {
				s.GoBack()
			}
		case 2:
			if s.CanGoForward() {
				s.GoForward()
			}
		}
		if n := len(s.History()); s.Index() < 0 || s.Index() >= n {
			t.Fatalf("step %d: index %d out of bounds for %d records", i, s.Index(), n)
		}
	}
}

func TestGoBackOutOfBoundsPanics(t *testing.T) {
	s := New()
	s.NavigateTo("/only", "")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	s.GoBack()
}

func TestGoForwardOutOfBoundsPanics(t *testing.T) {
	s := New()
	s.NavigateTo("/only", "")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	s.GoForward()
}

func TestHighlightSeededOnceAndOverwrittenByRecord(t *testing.T) {
	s := New()
	if got := s.RecallHighlight("/x"); got != FirstEntry {
		t.Fatalf("unvisited path recall = %q, want FirstEntry", got)
	}

	s.NavigateTo("/x", "first")
	if got := s.RecallHighlight("/x"); got != "first" {
		t.Fatalf("recall = %q, want seed", got)
	}

	s.RecordHighlight("/x", "third")
	s.NavigateTo("/y", "")
	s.NavigateTo("/x", "first")
	if got := s.RecallHighlight("/x"); got != "third" {
		t.Fatalf("seed must not overwrite remembered highlight, got %q", got)
	}
}

func TestHighlightSharedAcrossVisitsOfSamePath(t *testing.T) {
	s := New()
	s.NavigateTo("/a", "one")
	s.NavigateTo("/b", "")
	s.NavigateTo("/a", "one")
	s.RecordHighlight("/a", "later")

	s.GoBack()
	back := s.GoBack()
	if back.Path != "/a" {
		t.Fatalf("expected to be back at /a, got %s", back.Path)
	}
	if got := s.RecallHighlight(back.Path); got != "later" {
		t.Fatalf("recall = %q, want most recent visit's cursor", got)
	}
}

func TestHighlightKeysAreNormalized(t *testing.T) {
	s := New()
	s.RecordHighlight("/tmp/x/../y/", "id")
	if got := s.RecallHighlight("/tmp/y"); got != "id" {
		t.Fatalf("recall = %q, want id", got)
	}
}

func TestNavigateUpLandsOnChild(t *testing.T) {
	s := New()
	child := filepath.Join(string(filepath.Separator), "home", "me", "projects")
	parent := filepath.Dir(child)
	s.NavigateTo(parent, "elsewhere")
	s.RecordHighlight(parent, "elsewhere")
	s.NavigateTo(child, "")

	got, ok := s.NavigateUp()
	if !ok || got != parent {
		t.Fatalf("NavigateUp = %q, %v", got, ok)
	}
	if id := s.RecallHighlight(parent); id != ident.Encode("projects") {
		t.Fatalf("parent highlight = %q, want child token", id)
	}
	if len(s.History()) != 3 {
		t.Fatalf("going up should push a record, history = %v", paths(s.History()))
	}
}

func TestNavigateUpAtRoot(t *testing.T) {
	s := New()
	root, _ := filepath.Abs(string(filepath.Separator))
	s.NavigateTo(root, "")
	if _, ok := s.NavigateUp(); ok {
		t.Fatal("expected no parent at the root")
	}
}
