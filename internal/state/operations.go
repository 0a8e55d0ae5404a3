package state

import (
	"context"
	"fmt"
	"path/filepath"
	"unicode"

	"github.com/kk-code-lab/carto/internal/clipboard"
	"github.com/kk-code-lab/carto/internal/fileops"
	"github.com/kk-code-lab/carto/internal/ident"
)

func (r *StateReducer) addToClipboard(state *AppState, op clipboard.Op) {
	paths := state.SelectedPaths()
	if len(paths) == 0 {
		state.Notice = "Nothing selected."
		return
	}
	if op == clipboard.Cut {
		state.Clipboard.Cut(paths)
	} else {
		state.Clipboard.Copy(paths)
	}
	state.Notice = fmt.Sprintf("%s %d item(s) to the clipboard.", pastTense(op), len(paths))
}

func pastTense(op clipboard.Op) string {
	if op == clipboard.Cut {
		return "Cut"
	}
	return "Copied"
}

// paste copies or moves the selected clipboard entries, or all of them when
// none is selected, into the current directory.
func (r *StateReducer) paste(state *AppState) {
	items := state.Clipboard.Selected()
	if len(items) == 0 {
		items = state.Clipboard.Items()
	}
	if len(items) == 0 {
		state.Notice = "Clipboard is empty."
		return
	}
	dest := state.CurrentPath
	r.startBatch(state, "paste", len(items), func(ctx context.Context, ex *fileops.Executor) fileops.Report {
		return ex.Paste(ctx, items, dest)
	})
}

func (r *StateReducer) delete(state *AppState, permanent bool) {
	paths := state.SelectedPaths()
	if len(paths) == 0 {
		state.Notice = "Nothing selected."
		return
	}
	r.startBatch(state, "delete", len(paths), func(ctx context.Context, ex *fileops.Executor) fileops.Report {
		return ex.Delete(ctx, paths, permanent)
	})
}

// startBatch runs one file operation batch off the loop. Only one batch
// may run at a time.
func (r *StateReducer) startBatch(state *AppState, op string, total int, run func(context.Context, *fileops.Executor) fileops.Report) {
	if state.Ops.Running {
		state.Notice = "Another file operation is still running."
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	ex := *r.ops
	ex.UseTrash = state.UseTrash
	state.Ops = OpsStatus{Running: true, Op: op, Total: total, cancel: cancel}
	go func() {
		defer cancel()
		r.dispatch(FileOpDoneAction{Report: run(ctx, &ex)})
	}()
}

func (r *StateReducer) finishBatch(state *AppState, rep fileops.Report) error {
	state.Ops = OpsStatus{}
	if state.Prompt != nil {
		state.Prompt.Dismiss()
		state.Prompt = nil
	}

	// Moved and deleted sources are gone; their clipboard entries go too.
	// Copied entries stay for further pastes.
	cut := make(map[string]bool)
	for _, it := range state.Clipboard.Items() {
		if it.Op == clipboard.Cut {
			cut[it.ID] = true
		}
	}
	var gone []string
	for _, src := range rep.Succeeded() {
		id := ident.Encode(src)
		if rep.Op == "delete" || cut[id] {
			gone = append(gone, id)
		}
	}
	state.Clipboard.Remove(gone...)

	if rep.Op == "paste" {
		if ok := rep.Succeeded(); len(ok) > 0 {
			for _, res := range rep.Results {
				if res.Source == ok[0] {
					state.Session.RecordHighlight(state.CurrentPath, ident.Encode(filepath.Base(res.Dest)))
					break
				}
			}
			r.relist(state)
		} else {
			r.reload(state)
		}
	} else {
		r.reload(state)
	}

	failures := rep.Failures()
	switch {
	case len(failures) > 0:
		return fmt.Errorf("%s: %d of %d item(s) failed: %w", rep.Op, len(failures), len(rep.Results), failures[0].Err)
	case rep.Cancelled:
		state.Notice = fmt.Sprintf("%s cancelled.", capitalize(rep.Op))
	default:
		state.Notice = fmt.Sprintf("%s finished: %d item(s).", capitalize(rep.Op), len(rep.Succeeded()))
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

var conflictChoices = []PromptChoice{
	{Key: 'o', Label: "overwrite"},
	{Key: 'r', Label: "rename"},
	{Key: 's', Label: "skip"},
	{Key: 'c', Label: "cancel"},
	{Key: 'O', Label: "Overwrite all"},
	{Key: 'R', Label: "Rename all"},
	{Key: 'S', Label: "Skip all"},
}

// askConflict runs on the batch goroutine and blocks until the user
// answers on the loop.
func (r *StateReducer) askConflict(ctx context.Context, src, dst string) fileops.Resolution {
	p := NewPrompt(fmt.Sprintf("%s already exists in %s.", filepath.Base(dst), filepath.Dir(dst)), 'c', conflictChoices...)
	r.dispatch(PromptAction{Prompt: p})
	key, ok := p.Wait(ctx)
	if !ok {
		return fileops.Resolution{Decision: fileops.Cancel}
	}
	res := fileops.Resolution{ApplyToAll: unicode.IsUpper(key)}
	switch unicode.ToLower(key) {
	case 'o':
		res.Decision = fileops.Overwrite
	case 'r':
		res.Decision = fileops.Rename
	case 's':
		res.Decision = fileops.Skip
	default:
		res = fileops.Resolution{Decision: fileops.Cancel}
	}
	return res
}

var fallbackChoices = []PromptChoice{
	{Key: 'y', Label: "yes"},
	{Key: 'n', Label: "no"},
	{Key: 'Y', Label: "Yes to all"},
	{Key: 'N', Label: "No to all"},
}

func (r *StateReducer) askTrashFallback(ctx context.Context, path string, trashErr error) (permanent, applyToAll bool) {
	msg := fmt.Sprintf("Could not move %s to the trash (%v). Delete permanently?", filepath.Base(path), trashErr)
	p := NewPrompt(msg, 'n', fallbackChoices...)
	r.dispatch(PromptAction{Prompt: p})
	key, ok := p.Wait(ctx)
	if !ok {
		return false, false
	}
	return unicode.ToLower(key) == 'y', unicode.IsUpper(key)
}

func (r *StateReducer) togglePin(state *AppState) error {
	if r.pins == nil {
		state.Notice = "Pins are unavailable."
		return nil
	}
	p, added, err := r.pins.Toggle(filepath.Base(state.CurrentPath), state.CurrentPath)
	if err != nil {
		return err
	}
	state.Pins = p
	state.SidebarIndex = clampIndex(state.SidebarIndex, len(state.SidebarItems()))
	if added {
		state.Notice = "Pinned " + state.CurrentPath
	} else {
		state.Notice = "Unpinned " + state.CurrentPath
	}
	return nil
}
