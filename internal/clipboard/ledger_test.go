package clipboard

import (
	"errors"
	"testing"

	"github.com/kk-code-lab/carto/internal/ident"
)

func itemPaths(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}

func TestCopyDedupesAndMovesToFront(t *testing.T) {
	l := New()
	l.Copy([]string{"/a", "/b"})
	l.Copy([]string{"/a"})

	got := itemPaths(l.Items())
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Fatalf("ledger = %v, want [/a /b]", got)
	}
}

func TestBatchKeepsInputOrderAtFront(t *testing.T) {
	l := New()
	l.Copy([]string{"/old"})
	l.Cut([]string{"/x", "/y", "/z"})

	got := itemPaths(l.Items())
	want := []string{"/x", "/y", "/z", "/old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ledger = %v, want %v", got, want)
		}
	}
	if l.Items()[0].Op != Cut || l.Items()[3].Op != Copy {
		t.Fatal("operations not preserved")
	}
}

func TestBatchBecomesSelection(t *testing.T) {
	l := New()
	l.Copy([]string{"/old"})
	l.Cut([]string{"/x", "/y"})

	sel := itemPaths(l.Selected())
	if len(sel) != 2 || sel[0] != "/x" || sel[1] != "/y" {
		t.Fatalf("selected = %v, want the new batch", sel)
	}
	if l.IsSelected(ident.Encode("/old")) {
		t.Fatal("previous selection should be replaced")
	}
}

func TestReAddChangesOperation(t *testing.T) {
	l := New()
	l.Copy([]string{"/a"})
	l.Cut([]string{"/a"})
	if l.Len() != 1 || l.Items()[0].Op != Cut {
		t.Fatalf("items = %+v", l.Items())
	}
}

func TestRemoveSelected(t *testing.T) {
	l := New()
	l.Copy([]string{"/a", "/b"})
	l.Copy([]string{"/c"})

	if err := l.RemoveSelected(); err != nil {
		t.Fatalf("RemoveSelected: %v", err)
	}
	got := itemPaths(l.Items())
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Fatalf("ledger = %v", got)
	}

	if err := l.RemoveSelected(); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	if l.Len() != 2 {
		t.Fatal("empty RemoveSelected must not change the ledger")
	}
}

func TestRemoveByID(t *testing.T) {
	l := New()
	l.Cut([]string{"/a", "/b", "/c"})
	l.Remove(ident.Encode("/b"))
	got := itemPaths(l.Items())
	if len(got) != 2 || got[0] != "/a" || got[1] != "/c" {
		t.Fatalf("ledger = %v", got)
	}
}

func TestYankPaths(t *testing.T) {
	var written string
	orig := writeAll
	writeAll = func(s string) error { written = s; return nil }
	defer func() { writeAll = orig }()

	if err := YankPaths(nil); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	if err := YankPaths([]string{"/a", "/b"}); err != nil {
		// Headless machines without xclip report Unsupported.
		t.Skipf("system clipboard unavailable: %v", err)
	}
	if written != "/a\n/b" {
		t.Fatalf("written = %q", written)
	}
}
