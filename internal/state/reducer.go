package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/kk-code-lab/carto/internal/clipboard"
	"github.com/kk-code-lab/carto/internal/config"
	"github.com/kk-code-lab/carto/internal/fileops"
	fsutil "github.com/kk-code-lab/carto/internal/fs"
	"github.com/kk-code-lab/carto/internal/jumper"
	"github.com/kk-code-lab/carto/internal/metadata"
	"github.com/kk-code-lab/carto/internal/pins"
	"github.com/kk-code-lab/carto/internal/preview"
	"github.com/kk-code-lab/carto/internal/task"
)

// Options configure a StateReducer.
type Options struct {
	Config config.Config
	// Pins may be nil; pin toggling is then unavailable.
	Pins *pins.Store
}

// StateReducer is the only mutator of AppState. Background jobs it starts
// report back through dispatch, which must post onto the event loop.
type StateReducer struct {
	dispatch func(Action)
	cfg      config.Config

	previews *preview.Scheduler
	meta     *task.Slot
	sizes    *metadata.Aggregator
	jumper   *jumper.Jumper
	ops      *fileops.Executor
	pins     *pins.Store

	list     func(dir string, opts fsutil.ListOptions) []FileEntry
	describe func(path string, fields []string, layout string) metadata.Info
	yank     func(paths []string) error
	drives   func() []string
}

// NewStateReducer wires the background services to dispatch.
func NewStateReducer(opts Options, dispatch func(Action)) *StateReducer {
	r := &StateReducer{
		dispatch: dispatch,
		pins:     opts.Pins,
		list:     fsutil.List,
		describe: metadata.Describe,
		yank:     clipboard.YankPaths,
		drives:   pins.Drives,
	}
	r.previews = preview.NewScheduler(opts.Config.PreviewDelay(), opts.Config.PreviewOptions(), func(res preview.Result) {
		dispatch(PreviewResultAction{Result: res})
	})
	r.meta = task.NewSlot(opts.Config.PreviewDelay())
	r.sizes = metadata.NewAggregator(func(rep metadata.SizeReport) {
		dispatch(SizeReportAction{Report: rep})
	})
	r.ops = &fileops.Executor{
		Resolve:  r.askConflict,
		Fallback: r.askTrashFallback,
		Progress: func(p fileops.Progress) { dispatch(FileOpProgressAction{Progress: p}) },
	}
	r.setConfig(opts.Config)
	return r
}

func (r *StateReducer) setConfig(cfg config.Config) {
	r.cfg = cfg
	r.previews.SetOptions(cfg.PreviewOptions())
	r.previews.SetDelay(cfg.PreviewDelay())
	r.meta.SetDelay(cfg.PreviewDelay())

	if r.jumper != nil {
		r.jumper.Cancel()
		r.jumper = nil
	}
	z := cfg.Plugins.Zoxide
	if !z.Enabled {
		return
	}
	j, err := jumper.New(z.Command, z.ShowScores, cfg.PreviewDelay(), func(res jumper.Result) {
		r.dispatch(JumperResultAction{Result: res})
	})
	if err != nil {
		slog.Warn("jumper disabled", slog.Any("err", err))
		return
	}
	r.jumper = j
}

// Init loads the sidebar and the starting directory.
func (r *StateReducer) Init(state *AppState) error {
	if r.pins != nil {
		p, err := r.pins.Load()
		if err != nil {
			slog.Warn("pins unreadable, using defaults", slog.Any("err", err))
		}
		state.Pins = p
	}
	state.Drives = r.drives()
	r.resize(state, state.ScreenWidth, state.ScreenHeight)
	return r.navigate(state, state.CurrentPath, navPush)
}

// Shutdown cancels every background job.
func (r *StateReducer) Shutdown(state *AppState) {
	r.previews.Cancel()
	r.meta.Cancel()
	r.sizes.Cancel()
	if r.jumper != nil {
		r.jumper.Cancel()
	}
	if state.Ops.cancel != nil {
		state.Ops.cancel()
	}
}

// Reduce applies action to state. Errors are also the caller's to surface;
// the loop stores them in LastError.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== NAVIGATION =====

	case NavigateUpAction:
		r.motion(state, -1, func() { state.Selection.SelectUp() })
	case NavigateDownAction:
		r.motion(state, 1, func() { state.Selection.SelectDown() })
	case PageUpAction:
		page := state.listRows()
		r.motion(state, -page, func() { state.Selection.SelectPageUp(page) })
	case PageDownAction:
		page := state.listRows()
		r.motion(state, page, func() { state.Selection.SelectPageDown(page) })
	case HomeAction:
		r.motion(state, -1<<30, func() { state.Selection.SelectHome() })
	case EndAction:
		r.motion(state, 1<<30, func() { state.Selection.SelectEnd() })

	case EnterAction:
		return state, r.enter(state)
	case GoUpAction:
		return state, r.goUp(state)
	case GoBackAction:
		if !state.Session.CanGoBack() {
			return state, nil
		}
		rec := state.Session.GoBack()
		if err := r.navigate(state, rec.Path, navHistory); err != nil {
			state.Session.GoForward()
			return state, err
		}
	case GoForwardAction:
		if !state.Session.CanGoForward() {
			return state, nil
		}
		rec := state.Session.GoForward()
		if err := r.navigate(state, rec.Path, navHistory); err != nil {
			state.Session.GoBack()
			return state, err
		}
	case GoToPathAction:
		return state, r.navigate(state, a.Path, navPush)
	case ReloadAction:
		r.reload(state)
	case MouseSelectAction:
		if a.Index < 0 || a.Index >= len(state.DisplayFiles()) {
			return state, nil
		}
		if state.Focus != PaneList {
			r.focus(state, PaneList)
		}
		r.motion(state, a.Index-state.Selection.Cursor(), func() { state.Selection.SetCursor(a.Index) })

	// ===== SELECTION =====

	case ToggleVisualAction:
		state.Selection.ToggleMode()
	case ToggleSelectAction:
		if state.Focus == PaneClipboard {
			state.Clipboard.ToggleCurrent()
			break
		}
		state.Selection.ToggleCurrent()
	case ToggleAllAction:
		if state.Focus == PaneClipboard {
			state.Clipboard.ToggleAll()
			break
		}
		state.Selection.ToggleAll()

	// ===== CLIPBOARD / FILE OPERATIONS =====

	case CopyAction:
		r.addToClipboard(state, clipboard.Copy)
	case CutAction:
		r.addToClipboard(state, clipboard.Cut)
	case ClipboardRemoveSelectedAction:
		if err := state.Clipboard.RemoveSelected(); err != nil {
			return state, err
		}
	case PasteAction:
		r.paste(state)
	case RenameAction:
		return state, r.rename(state, a.NewName)
	case CreateAction:
		return state, r.create(state, a.Spec)
	case DeleteAction:
		r.delete(state, a.Permanent)
	case FileOpProgressAction:
		state.Ops.Path = a.Progress.Path
		state.Ops.Done = a.Progress.Done
		state.Ops.Total = a.Progress.Total
	case FileOpDoneAction:
		return state, r.finishBatch(state, a.Report)
	case CancelOperationAction:
		if state.Ops.Running && state.Ops.cancel != nil {
			state.Ops.cancel()
		}
	case PromptAction:
		state.Prompt = a.Prompt
	case PromptAnswerAction:
		if state.Prompt != nil && state.Prompt.Answer(a.Key) {
			state.Prompt = nil
		}
	case PromptDismissAction:
		if state.Prompt != nil {
			state.Prompt.Dismiss()
			state.Prompt = nil
		}

	// ===== INPUT LINE =====

	case InputStartAction:
		return state, r.startInput(state, a.Mode)
	case InputCharAction:
		state.InputText += string(a.Char)
		r.inputChanged(state)
	case InputBackspaceAction:
		if runes := []rune(state.InputText); len(runes) > 0 {
			state.InputText = string(runes[:len(runes)-1])
			r.inputChanged(state)
		}
	case InputSubmitAction:
		return state, r.submitInput(state)
	case InputCancelAction:
		r.cancelInput(state)
	case FilterClearAction:
		if state.FilterActive() {
			r.applyFilter(state, "")
		}

	case JumperResultAction:
		if a.Result.Generation != state.Jumper.gen {
			return state, nil
		}
		state.Jumper.Results = a.Result.Candidates
		state.Jumper.Err = a.Result.Err
		state.Jumper.Index = 0
	case JumperMoveAction:
		state.Jumper.Index = clampIndex(state.Jumper.Index+a.Delta, len(state.Jumper.Results))
	case JumperSelectAction:
		return state, r.submitInput(state)

	// ===== PREVIEW / METADATA =====

	case PreviewResultAction:
		state.Preview.Apply(a.Result.Generation, a.Result.Content)
	case TogglePreviewFullAction:
		state.Preview.SetFull(!state.Preview.Full())
	case MetadataResultAction:
		if a.Generation != state.metadataGen {
			return state, nil
		}
		state.Metadata = a.Info
	case SizeReportAction:
		state.Size.Apply(a.Report)

	// ===== VIEW =====

	case FocusAction:
		r.focus(state, a.Pane)
	case ResizeAction:
		r.resize(state, a.Width, a.Height)
	case ToggleHiddenFilesAction:
		state.ListOptions.ShowHidden = !state.ListOptions.ShowHidden
		opts := r.cfg.PreviewOptions()
		opts.ShowHidden = state.ListOptions.ShowHidden
		r.previews.SetOptions(opts)
		r.reload(state)
	case ToggleSortByAction:
		if state.ListOptions.SortBy == fsutil.SortByName {
			state.ListOptions.SortBy = fsutil.SortBySize
		} else {
			state.ListOptions.SortBy = fsutil.SortByName
		}
		r.reload(state)
	case ToggleSortOrderAction:
		if state.ListOptions.Order == fsutil.Ascending {
			state.ListOptions.Order = fsutil.Descending
		} else {
			state.ListOptions.Order = fsutil.Ascending
		}
		r.reload(state)
	case YankPathAction:
		return state, r.yankPaths(state)

	// ===== PINS / CONFIG =====

	case TogglePinAction:
		return state, r.togglePin(state)
	case PinsLoadedAction:
		state.Pins = a.Pins
		state.SidebarIndex = clampIndex(state.SidebarIndex, len(state.SidebarItems()))
		if a.Err != nil {
			return state, a.Err
		}
	case ConfigReloadedAction:
		if a.Err != nil {
			return state, a.Err
		}
		r.setConfig(a.Config)
		state.applyConfig(a.Config)
		r.reload(state)
		state.Notice = "Configuration reloaded."
	}

	return state, nil
}

func (r *StateReducer) motion(state *AppState, delta int, listMove func()) {
	switch state.Focus {
	case PaneSidebar:
		state.SidebarIndex = clampIndex(state.SidebarIndex+delta, len(state.SidebarItems()))
	case PaneClipboard:
		state.Clipboard.MoveCursor(delta)
	case PaneList:
		listMove()
		state.ensureCursorVisible()
		r.highlightChanged(state, false)
	}
}

func (r *StateReducer) focus(state *AppState, pane Pane) {
	prev := state.Focus
	state.Focus = pane
	if prev == PaneMetadata && pane != PaneMetadata {
		r.sizes.Cancel()
		state.Size.Reset()
	}
	if pane == PaneMetadata && prev != PaneMetadata {
		r.startSize(state)
	}
}

func (r *StateReducer) resize(state *AppState, w, h int) {
	state.ScreenWidth, state.ScreenHeight = w, h
	l := ComputeLayout(w, h)
	state.Preview.Resize(l.PreviewRows(), l.PreviewWidth)
	state.ensureCursorVisible()
}

func (r *StateReducer) yankPaths(state *AppState) error {
	paths := state.SelectedPaths()
	if len(paths) == 0 {
		paths = []string{state.CurrentPath}
	}
	if err := r.yank(paths); err != nil {
		return err
	}
	state.LastYankTime = time.Now()
	if len(paths) == 1 {
		state.Notice = "Copied path to clipboard."
	} else {
		state.Notice = "Copied paths to clipboard."
	}
	return nil
}

func (r *StateReducer) jumperAdd(path string) {
	j := r.jumper
	if j == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := j.Add(ctx, path); err != nil {
			slog.Warn("jumper add failed", slog.String("path", path), slog.Any("err", err))
		}
	}()
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
