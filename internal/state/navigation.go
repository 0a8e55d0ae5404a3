package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/carto/internal/ident"
	"github.com/kk-code-lab/carto/internal/metadata"
	"github.com/kk-code-lab/carto/internal/preview"
	"github.com/kk-code-lab/carto/internal/selection"
	"github.com/kk-code-lab/carto/internal/session"
)

type navKind int

const (
	// navPush records a new history entry.
	navPush navKind = iota
	// navHistory revisits an entry the session already moved to.
	navHistory
)

func (r *StateReducer) navigate(state *AppState, path string, kind navKind) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("open %s: not a directory", path)
	}

	entries := r.list(abs, state.ListOptions)
	if kind == navPush {
		first := session.FirstEntry
		if len(entries) > 0 {
			first = entries[0].ID()
		}
		state.Session.NavigateTo(abs, first)
	}

	state.CurrentPath = abs
	state.Files = entries
	state.FilterQuery = ""
	state.filtered = nil
	state.filterMatches = nil
	if state.Input == InputFilter {
		state.Input = InputNone
		state.InputText = ""
	}
	if state.Selection.Mode() == selection.Visual {
		state.Selection.ToggleMode()
	}
	state.syncSelectionItems()
	r.restoreCursor(state)
	state.ScrollOffset = 0
	state.ensureCursorVisible()
	r.highlightChanged(state, true)
	return nil
}

func (r *StateReducer) enter(state *AppState) error {
	switch state.Focus {
	case PaneSidebar:
		items := state.SidebarItems()
		if len(items) == 0 {
			return nil
		}
		item := items[clampIndex(state.SidebarIndex, len(items))]
		if err := r.navigate(state, item.Path, navPush); err != nil {
			return err
		}
		state.Focus = PaneList
		return nil
	case PaneClipboard:
		items := state.Clipboard.Items()
		if len(items) == 0 {
			return nil
		}
		it := items[clampIndex(state.Clipboard.Cursor(), len(items))]
		dir := filepath.Dir(it.Path)
		state.Session.RecordHighlight(dir, ident.Encode(filepath.Base(it.Path)))
		if err := r.navigate(state, dir, navPush); err != nil {
			return err
		}
		state.Focus = PaneList
		return nil
	case PaneMetadata:
		return nil
	}

	entry, ok := state.CurrentEntry()
	if !ok || entry.IsSentinel() {
		return nil
	}
	if !entry.IsDir() {
		r.dispatch(OpenEditorAction{})
		return nil
	}
	return r.navigate(state, entry.FullPath, navPush)
}

func (r *StateReducer) goUp(state *AppState) error {
	cur, ok := state.Session.Current()
	if !ok {
		return nil
	}
	// NavigateUp drops forward history, so the parent must be usable first.
	if parent := filepath.Dir(cur.Path); parent != cur.Path {
		info, err := os.Stat(parent)
		if err != nil {
			return fmt.Errorf("open %s: %w", parent, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("open %s: not a directory", parent)
		}
	}
	parent, ok := state.Session.NavigateUp()
	if !ok {
		return nil
	}
	return r.navigate(state, parent, navHistory)
}

// reload re-lists the current directory and keeps the cursor on the same
// entry when it still exists.
func (r *StateReducer) reload(state *AppState) {
	if entry, ok := state.CurrentEntry(); ok && !entry.IsSentinel() {
		state.Session.RecordHighlight(state.CurrentPath, entry.ID())
	}
	r.relist(state)
}

// relist re-lists the current directory and puts the cursor on the
// remembered highlight.
func (r *StateReducer) relist(state *AppState) {
	state.Files = r.list(state.CurrentPath, state.ListOptions)
	if state.filtered != nil {
		r.applyFilter(state, state.FilterQuery)
	} else {
		state.syncSelectionItems()
	}
	r.restoreCursor(state)
	state.ensureCursorVisible()
	r.highlightChanged(state, true)
}

func (r *StateReducer) restoreCursor(state *AppState) {
	id := state.Session.RecallHighlight(state.CurrentPath)
	if id == session.FirstEntry || !state.Selection.SetCursorTo(id) {
		state.Selection.SetCursor(0)
	}
}

// highlightChanged records the highlighted entry and re-arms the preview,
// metadata and size jobs when it differs from the last one, or always when
// force is set.
func (r *StateReducer) highlightChanged(state *AppState, force bool) {
	entry, ok := state.CurrentEntry()
	path := ""
	if ok && !entry.IsSentinel() {
		path = entry.FullPath
		state.Session.RecordHighlight(state.CurrentPath, entry.ID())
	}
	if !force && path == state.highlighted {
		return
	}
	state.highlighted = path

	r.refreshPreview(state, entry, ok)
	r.refreshMetadata(state, path)
	r.sizes.Cancel()
	state.Size.Reset()
	if state.Focus == PaneMetadata {
		r.startSize(state)
	}
}

func (r *StateReducer) refreshPreview(state *AppState, entry FileEntry, ok bool) {
	if ok && !entry.IsSentinel() {
		state.Preview.Expect(r.previews.Schedule(entry.FullPath))
		return
	}
	r.previews.Cancel()
	state.Preview.Expect(0)
	msg := r.cfg.Interface.PreviewStart
	if ok {
		msg = entry.Name
	}
	state.Preview.Set(preview.Content{Kind: preview.KindMessage, Message: msg})
}

func (r *StateReducer) refreshMetadata(state *AppState, path string) {
	if path == "" {
		r.meta.Cancel()
		state.metadataGen = 0
		state.Metadata = metadata.Info{}
		return
	}
	fields := append([]string(nil), state.MetadataFields...)
	layout := state.DateFormat
	state.metadataGen = r.meta.Schedule(func(ctx context.Context, gen uint64) {
		info := r.describe(path, fields, layout)
		if ctx.Err() != nil {
			return
		}
		r.dispatch(MetadataResultAction{Generation: gen, Info: info})
	})
}

// startSize walks the highlighted folder. Symlinked folders are not
// measured.
func (r *StateReducer) startSize(state *AppState) {
	entry, ok := state.CurrentEntry()
	if !ok || !entry.IsDir() || entry.IsSymlink {
		return
	}
	gen := r.sizes.Start(entry.FullPath)
	state.Size.Begin(gen, entry.FullPath)
}
