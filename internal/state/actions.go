package state

import (
	"github.com/kk-code-lab/carto/internal/config"
	"github.com/kk-code-lab/carto/internal/fileops"
	"github.com/kk-code-lab/carto/internal/jumper"
	"github.com/kk-code-lab/carto/internal/metadata"
	"github.com/kk-code-lab/carto/internal/pins"
	"github.com/kk-code-lab/carto/internal/preview"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

// Cursor motions. In visual mode they extend the selection.
type NavigateUpAction struct{}
type NavigateDownAction struct{}
type PageUpAction struct{}
type PageDownAction struct{}
type HomeAction struct{}
type EndAction struct{}

type EnterAction struct{}
type GoUpAction struct{}
type GoBackAction struct{}
type GoForwardAction struct{}
type GoToPathAction struct {
	Path string
}
type ReloadAction struct{}

// MouseSelectAction puts the list cursor on a clicked row.
type MouseSelectAction struct {
	Index int
}

// ===== SELECTION ACTIONS =====

// ToggleSelectAction and ToggleAllAction act on the clipboard panel when it
// has focus.
type ToggleVisualAction struct{}
type ToggleSelectAction struct{}
type ToggleAllAction struct{}

// ===== CLIPBOARD ACTIONS =====

type CopyAction struct{}
type CutAction struct{}
type PasteAction struct{}
type DeleteAction struct {
	Permanent bool
}
type ClipboardRemoveSelectedAction struct{}

// ===== FILE OPERATION ACTIONS =====

type RenameAction struct {
	NewName string
}
type CreateAction struct {
	Spec string
}
type FileOpProgressAction struct {
	Progress fileops.Progress
}
type FileOpDoneAction struct {
	Report fileops.Report
}

// PromptAction asks the user a question on behalf of a background job.
type PromptAction struct {
	Prompt *Prompt
}
type PromptAnswerAction struct {
	Key rune
}
type PromptDismissAction struct{}
type CancelOperationAction struct{}

// ===== INPUT LINE ACTIONS =====

// InputStartAction opens the one-line editor for rename, create or filter.
type InputStartAction struct {
	Mode InputMode
}
type InputCharAction struct {
	Char rune
}
type InputBackspaceAction struct{}
type InputSubmitAction struct{}
type InputCancelAction struct{}

// FilterClearAction drops a filter kept after its input line was submitted.
type FilterClearAction struct{}

// ===== PREVIEW / METADATA ACTIONS =====

type PreviewResultAction struct {
	Result preview.Result
}
type TogglePreviewFullAction struct{}
type MetadataResultAction struct {
	Generation uint64
	Info       metadata.Info
}
type SizeReportAction struct {
	Report metadata.SizeReport
}

// ===== VIEW ACTIONS =====

// FocusAction moves input focus to a pane. Focusing the metadata pane on a
// folder starts its size walk; leaving it cancels the walk.
type FocusAction struct {
	Pane Pane
}

type ResizeAction struct {
	Width  int
	Height int
}
type ToggleHiddenFilesAction struct{}
type ToggleSortByAction struct{}
type ToggleSortOrderAction struct{}
type YankPathAction struct{}
type OpenEditorAction struct{}

// ===== JUMPER ACTIONS =====

type JumperResultAction struct {
	Result jumper.Result
}
type JumperMoveAction struct {
	Delta int
}
type JumperSelectAction struct{}

// ===== PINS / CONFIG ACTIONS =====

type TogglePinAction struct{}
type PinsLoadedAction struct {
	Pins pins.Pins
	Err  error
}
type ConfigReloadedAction struct {
	Config config.Config
	Err    error
}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}          // q - return to original directory
type QuitAndChangeAction struct{} // Q - change to current directory
type SuspendAction struct{}       // ctrl-z
