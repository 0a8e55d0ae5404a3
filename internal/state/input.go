package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/carto/internal/fileops"
	"github.com/kk-code-lab/carto/internal/ident"
	"github.com/kk-code-lab/carto/internal/jumper"
)

func (r *StateReducer) startInput(state *AppState, mode InputMode) error {
	switch mode {
	case InputFilter:
		state.InputText = state.FilterQuery
	case InputRename:
		entries := state.SelectedEntries()
		if len(entries) != 1 {
			state.Notice = "Select exactly one item to rename."
			return nil
		}
		state.InputText = entries[0].Name
	case InputCreate:
		state.InputText = ""
	case InputJumper:
		if r.jumper == nil {
			return jumper.ErrNotInstalled
		}
		state.InputText = ""
		state.Jumper = JumperState{gen: r.jumper.Search("")}
	default:
		return nil
	}
	state.Input = mode
	return nil
}

func (r *StateReducer) inputChanged(state *AppState) {
	switch state.Input {
	case InputFilter:
		r.applyFilter(state, state.InputText)
	case InputJumper:
		if r.jumper != nil {
			state.Jumper.gen = r.jumper.Search(state.InputText)
		}
	}
}

func (r *StateReducer) cancelInput(state *AppState) {
	switch state.Input {
	case InputFilter:
		state.Input = InputNone
		r.applyFilter(state, "")
	case InputJumper:
		if r.jumper != nil {
			r.jumper.Cancel()
		}
		state.Jumper = JumperState{}
	}
	state.Input = InputNone
	state.InputText = ""
}

func (r *StateReducer) submitInput(state *AppState) error {
	mode, text := state.Input, state.InputText
	state.Input = InputNone
	state.InputText = ""

	switch mode {
	case InputFilter:
		return nil
	case InputRename:
		return r.rename(state, text)
	case InputCreate:
		return r.create(state, text)
	case InputJumper:
		if r.jumper != nil {
			r.jumper.Cancel()
		}
		js := state.Jumper
		state.Jumper = JumperState{}
		if len(js.Results) == 0 {
			return js.Err
		}
		target := js.Results[clampIndex(js.Index, len(js.Results))].Path
		if err := r.navigate(state, target, navPush); err != nil {
			return err
		}
		r.jumperAdd(target)
	}
	return nil
}

func (r *StateReducer) rename(state *AppState, name string) error {
	entries := state.SelectedEntries()
	if len(entries) != 1 {
		return nil
	}
	name = strings.TrimSpace(name)
	if name == entries[0].Name {
		return nil
	}
	newPath, err := fileops.RenameItem(entries[0].FullPath, name)
	if err != nil {
		return err
	}
	// The ledger refers to the old path, which no longer exists.
	state.Clipboard.Remove(ident.Encode(entries[0].FullPath))
	state.Session.RecordHighlight(state.CurrentPath, ident.Encode(filepath.Base(newPath)))
	r.relist(state)
	state.Notice = fmt.Sprintf("Renamed to %s.", filepath.Base(newPath))
	return nil
}

func (r *StateReducer) create(state *AppState, spec string) error {
	if strings.TrimSpace(spec) == "" {
		return nil
	}
	created, err := fileops.Create(state.CurrentPath, spec)
	if err != nil {
		if errors.Is(err, fileops.ErrExists) {
			return fmt.Errorf("%s already exists", strings.TrimRight(spec, `/\`))
		}
		return err
	}
	rel, err := filepath.Rel(state.CurrentPath, created)
	if err == nil {
		top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
		state.Session.RecordHighlight(state.CurrentPath, ident.Encode(top))
	}
	r.relist(state)
	state.Notice = fmt.Sprintf("Created %s.", filepath.Base(created))
	return nil
}
