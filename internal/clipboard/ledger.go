// Package clipboard keeps the ordered list of pending copy and cut
// operations, and copies paths to the system clipboard.
package clipboard

import (
	"errors"
	"path/filepath"

	"github.com/kk-code-lab/carto/internal/ident"
	"github.com/kk-code-lab/carto/internal/selection"
)

// ErrNothingSelected is returned by RemoveSelected when no entry is selected.
var ErrNothingSelected = errors.New("no clipboard entries selected")

// Op is the pending operation for an entry.
type Op int

const (
	Copy Op = iota
	Cut
)

func (o Op) String() string {
	if o == Cut {
		return "cut"
	}
	return "copy"
}

// Item is one ledger entry. ID is derived from the source path alone, so the
// same path can appear only once whatever the operation.
type Item struct {
	ID    string
	Path  string
	Op    Op
	Label string
}

// Ledger is the clipboard. Index 0 is the most recently added entry. It is
// owned by the event loop and not safe for concurrent use.
type Ledger struct {
	items []Item
	sel   *selection.Model
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{sel: selection.New(nil)}
}

// Copy adds paths as copy entries.
func (l *Ledger) Copy(paths []string) { l.add(paths, Copy) }

// Cut adds paths as cut entries.
func (l *Ledger) Cut(paths []string) { l.add(paths, Cut) }

// add inserts the batch back to front so the ledger starts with the batch in
// input order. An existing entry for a path is replaced and moves to the
// front. The batch becomes the selection.
func (l *Ledger) add(paths []string, op Op) {
	if len(paths) == 0 {
		return
	}
	batch := make([]string, 0, len(paths))
	for i := len(paths) - 1; i >= 0; i-- {
		p := paths[i]
		id := ident.Encode(p)
		l.removeID(id)
		l.items = append([]Item{{ID: id, Path: p, Op: op, Label: filepath.Base(p)}}, l.items...)
		batch = append(batch, id)
	}
	l.sync()
	l.sel.SetCursor(0)
	l.sel.Select(batch)
}

func (l *Ledger) removeID(id string) {
	for i, it := range l.items {
		if it.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *Ledger) sync() {
	ids := make([]string, len(l.items))
	for i, it := range l.items {
		ids[i] = it.ID
	}
	l.sel.SetItems(ids)
}

// Items returns a copy of the entries, front first.
func (l *Ledger) Items() []Item {
	return append([]Item(nil), l.items...)
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.items) }

// Cursor returns the highlighted row of the clipboard panel.
func (l *Ledger) Cursor() int { return l.sel.Cursor() }

// MoveCursor moves the panel cursor by delta rows.
func (l *Ledger) MoveCursor(delta int) { l.sel.SetCursor(l.sel.Cursor() + delta) }

// IsSelected reports whether the entry with id is selected.
func (l *Ledger) IsSelected(id string) bool { return l.sel.IsSelected(id) }

// ToggleCurrent flips the selection of the entry under the panel cursor.
func (l *Ledger) ToggleCurrent() { l.sel.ToggleCurrent() }

// ToggleAll selects every entry, or none if all were selected.
func (l *Ledger) ToggleAll() { l.sel.ToggleAll() }

// Selected returns the selected entries, front first.
func (l *Ledger) Selected() []Item {
	var out []Item
	for _, it := range l.items {
		if l.sel.IsSelected(it.ID) {
			out = append(out, it)
		}
	}
	return out
}

// RemoveSelected drops the selected entries. It returns ErrNothingSelected,
// changing nothing, when the selection is empty.
func (l *Ledger) RemoveSelected() error {
	if l.sel.Count() == 0 {
		return ErrNothingSelected
	}
	kept := l.items[:0]
	for _, it := range l.items {
		if !l.sel.IsSelected(it.ID) {
			kept = append(kept, it)
		}
	}
	l.items = kept
	l.sync()
	return nil
}

// Remove drops the entries with the given ids, typically cut entries that
// were moved successfully.
func (l *Ledger) Remove(ids ...string) {
	for _, id := range ids {
		l.removeID(id)
	}
	l.sync()
}
