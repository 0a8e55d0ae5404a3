// Package session tracks the back/forward history of visited directories and
// the entry last highlighted in each of them.
package session

import (
	"fmt"
	"path/filepath"

	"github.com/kk-code-lab/carto/internal/ident"
)

// FirstEntry is returned by RecallHighlight when nothing is remembered for a
// path; the cursor should go to the first entry of the listing.
const FirstEntry = ""

// Record is one visited directory.
type Record struct {
	Path string
}

// State is the process-wide navigation session. It is not safe for
// concurrent use; the event loop owns it.
type State struct {
	history         []Record
	index           int
	lastHighlighted map[string]string
}

// New returns an empty session.
func New() *State {
	return &State{lastHighlighted: make(map[string]string)}
}

// NormalizePath returns the key used for per-path memory: a cleaned
// absolute path with forward slashes.
func NormalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// NavigateTo appends path to the history. When the user had gone back
// first, the abandoned forward records are discarded. initialHighlight seeds
// the remembered cursor for path only if none is remembered yet.
func (s *State) NavigateTo(path, initialHighlight string) {
	if len(s.history) > 0 && s.index != len(s.history)-1 {
		s.history = s.history[:s.index+1]
	}
	s.history = append(s.history, Record{Path: path})
	s.index = len(s.history) - 1

	key := NormalizePath(path)
	if _, ok := s.lastHighlighted[key]; !ok {
		s.lastHighlighted[key] = initialHighlight
	}
}

// NavigateUp moves to the parent of the current directory and remembers the
// directory just left as the parent's highlighted entry. ok is false at the
// filesystem root or when the history is empty.
func (s *State) NavigateUp() (parent string, ok bool) {
	cur, ok := s.Current()
	if !ok {
		return "", false
	}
	parent = filepath.Dir(cur.Path)
	if parent == cur.Path {
		return "", false
	}
	child := ident.Encode(filepath.Base(cur.Path))
	s.NavigateTo(parent, child)
	s.RecordHighlight(parent, child)
	return parent, true
}

// CanGoBack reports whether GoBack may be called.
func (s *State) CanGoBack() bool {
	return len(s.history) > 0 && s.index > 0
}

// CanGoForward reports whether GoForward may be called.
func (s *State) CanGoForward() bool {
	return s.index < len(s.history)-1
}

// GoBack moves one record back and returns it. Calling it when CanGoBack is
// false is a programming error.
func (s *State) GoBack() Record {
	if !s.CanGoBack() {
		panic(fmt.Sprintf("session: GoBack at index %d of %d", s.index, len(s.history)))
	}
	s.index--
	return s.history[s.index]
}

// GoForward moves one record forward and returns it. Calling it when
// CanGoForward is false is a programming error.
func (s *State) GoForward() Record {
	if !s.CanGoForward() {
		panic(fmt.Sprintf("session: GoForward at index %d of %d", s.index, len(s.history)))
	}
	s.index++
	return s.history[s.index]
}

// Current returns the record at the history index.
func (s *State) Current() (Record, bool) {
	if len(s.history) == 0 {
		return Record{}, false
	}
	return s.history[s.index], true
}

// Index returns the history index.
func (s *State) Index() int {
	return s.index
}

// History returns a copy of the visited records, oldest first.
func (s *State) History() []Record {
	return append([]Record(nil), s.history...)
}

// RecallHighlight returns the identifier last highlighted in path, or
// FirstEntry. The memory is keyed by path, not history position, so the most
// recent visit wins regardless of how the directory was reached.
func (s *State) RecallHighlight(path string) string {
	if id, ok := s.lastHighlighted[NormalizePath(path)]; ok {
		return id
	}
	return FirstEntry
}

// RecordHighlight remembers id as the highlighted entry of path.
func (s *State) RecordHighlight(path, id string) {
	s.lastHighlighted[NormalizePath(path)] = id
}
