package input

import (
	"os"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/carto/internal/selection"
	statepkg "github.com/kk-code-lab/carto/internal/state"
)

// focusOrder is the Tab cycle between panes.
var focusOrder = []statepkg.Pane{
	statepkg.PaneList,
	statepkg.PaneMetadata,
	statepkg.PaneClipboard,
	statepkg.PaneSidebar,
}

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false
// once the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) emit(a statepkg.Action) bool {
	ih.actionChan <- a
	return true
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}
	if ev.Key() == tcell.KeyCtrlZ {
		ih.emit(statepkg.SuspendAction{})
		return true
	}
	if ih.state != nil && ih.state.Prompt != nil {
		return ih.processPromptKey(ev)
	}
	if ih.state != nil && ih.state.Input != statepkg.InputNone {
		return ih.processInputKey(ev)
	}
	return ih.processNormalKey(ev)
}

// processPromptKey routes keys to a pending question. Escape answers with
// the prompt's default.
func (ih *InputHandler) processPromptKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.PromptDismissAction{})
	case tcell.KeyEnter:
		return ih.emit(statepkg.PromptAnswerAction{Key: ih.state.Prompt.Default})
	case tcell.KeyRune:
		return ih.emit(statepkg.PromptAnswerAction{Key: ev.Rune()})
	}
	return true
}

func (ih *InputHandler) processInputKey(ev *tcell.EventKey) bool {
	jumping := ih.state.Input == statepkg.InputJumper
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.InputCancelAction{})
	case tcell.KeyEnter:
		return ih.emit(statepkg.InputSubmitAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ih.emit(statepkg.InputBackspaceAction{})
	case tcell.KeyUp:
		if jumping {
			return ih.emit(statepkg.JumperMoveAction{Delta: -1})
		}
		return ih.emit(statepkg.NavigateUpAction{})
	case tcell.KeyDown:
		if jumping {
			return ih.emit(statepkg.JumperMoveAction{Delta: 1})
		}
		return ih.emit(statepkg.NavigateDownAction{})
	case tcell.KeyRune:
		return ih.emit(statepkg.InputCharAction{Char: ev.Rune()})
	}
	return true
}

func (ih *InputHandler) processNormalKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.escape()
	case tcell.KeyUp:
		return ih.emit(statepkg.NavigateUpAction{})
	case tcell.KeyDown:
		return ih.emit(statepkg.NavigateDownAction{})
	case tcell.KeyPgUp:
		return ih.emit(statepkg.PageUpAction{})
	case tcell.KeyPgDn:
		return ih.emit(statepkg.PageDownAction{})
	case tcell.KeyHome:
		return ih.emit(statepkg.HomeAction{})
	case tcell.KeyEnd:
		return ih.emit(statepkg.EndAction{})
	case tcell.KeyEnter:
		return ih.emit(statepkg.EnterAction{})
	case tcell.KeyRight:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return ih.emit(statepkg.GoForwardAction{})
		}
		return ih.emit(statepkg.EnterAction{})
	case tcell.KeyLeft:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return ih.emit(statepkg.GoBackAction{})
		}
		return ih.emit(statepkg.GoUpAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ih.emit(statepkg.GoUpAction{})
	case tcell.KeyTab:
		return ih.emit(statepkg.FocusAction{Pane: ih.nextFocus(1)})
	case tcell.KeyBacktab:
		return ih.emit(statepkg.FocusAction{Pane: ih.nextFocus(-1)})
	case tcell.KeyDelete:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return ih.emit(statepkg.DeleteAction{Permanent: true})
		}
		return ih.emit(statepkg.DeleteAction{})
	case tcell.KeyF5:
		return ih.emit(statepkg.ReloadAction{})
	case tcell.KeyRune:
		return ih.processRune(ev)
	}
	return true
}

// escape backs out of the innermost state: a running batch, a kept
// filter, visual mode, then a non-list focus.
func (ih *InputHandler) escape() bool {
	s := ih.state
	switch {
	case s == nil:
	case s.Ops.Running:
		return ih.emit(statepkg.CancelOperationAction{})
	case s.FilterActive():
		return ih.emit(statepkg.FilterClearAction{})
	case s.Selection.Mode() == selection.Visual:
		return ih.emit(statepkg.ToggleVisualAction{})
	case s.Focus != statepkg.PaneList:
		return ih.emit(statepkg.FocusAction{Pane: statepkg.PaneList})
	}
	return true
}

func (ih *InputHandler) nextFocus(step int) statepkg.Pane {
	cur := statepkg.PaneList
	if ih.state != nil {
		cur = ih.state.Focus
	}
	for i, p := range focusOrder {
		if p == cur {
			n := (i + step + len(focusOrder)) % len(focusOrder)
			return focusOrder[n]
		}
	}
	return statepkg.PaneList
}

func (ih *InputHandler) processRune(ev *tcell.EventKey) bool {
	r := ev.Rune()
	if ev.Modifiers()&tcell.ModShift != 0 {
		// Normalize shifted alphabetic runes to reflect user intent (Shift+A => 'A')
		r = unicode.ToUpper(r)
	}
	switch r {
	case 'q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case 'Q':
		ih.actionChan <- statepkg.QuitAndChangeAction{}
		return false

	case 'k':
		return ih.emit(statepkg.NavigateUpAction{})
	case 'j':
		return ih.emit(statepkg.NavigateDownAction{})
	case 'g':
		return ih.emit(statepkg.HomeAction{})
	case 'G':
		return ih.emit(statepkg.EndAction{})
	case 'l':
		return ih.emit(statepkg.EnterAction{})
	case 'h':
		return ih.emit(statepkg.GoUpAction{})
	case '[', 'H':
		return ih.emit(statepkg.GoBackAction{})
	case ']', 'L':
		return ih.emit(statepkg.GoForwardAction{})
	case '~':
		if home, err := os.UserHomeDir(); err == nil {
			return ih.emit(statepkg.GoToPathAction{Path: home})
		}
		return true
	case 'R':
		return ih.emit(statepkg.ReloadAction{})

	case 'v':
		return ih.emit(statepkg.ToggleVisualAction{})
	case ' ':
		return ih.emit(statepkg.ToggleSelectAction{})
	case 'a':
		return ih.emit(statepkg.ToggleAllAction{})

	case 'c':
		return ih.emit(statepkg.CopyAction{})
	case 'x':
		return ih.emit(statepkg.CutAction{})
	case 'p':
		return ih.emit(statepkg.PasteAction{})
	case 'd':
		return ih.emit(statepkg.DeleteAction{})
	case 'D':
		return ih.emit(statepkg.DeleteAction{Permanent: true})
	case 'X':
		return ih.emit(statepkg.ClipboardRemoveSelectedAction{})
	case 'r':
		return ih.emit(statepkg.InputStartAction{Mode: statepkg.InputRename})
	case 'n':
		return ih.emit(statepkg.InputStartAction{Mode: statepkg.InputCreate})

	case '/':
		return ih.emit(statepkg.InputStartAction{Mode: statepkg.InputFilter})
	case 'z':
		return ih.emit(statepkg.InputStartAction{Mode: statepkg.InputJumper})
	case 'b':
		return ih.emit(statepkg.TogglePinAction{})
	case 'i':
		if ih.state != nil && ih.state.Focus == statepkg.PaneMetadata {
			return ih.emit(statepkg.FocusAction{Pane: statepkg.PaneList})
		}
		return ih.emit(statepkg.FocusAction{Pane: statepkg.PaneMetadata})

	case '.':
		return ih.emit(statepkg.ToggleHiddenFilesAction{})
	case 's':
		return ih.emit(statepkg.ToggleSortByAction{})
	case 'S':
		return ih.emit(statepkg.ToggleSortOrderAction{})
	case 'w':
		return ih.emit(statepkg.TogglePreviewFullAction{})
	case 'y':
		return ih.emit(statepkg.YankPathAction{})
	case 'e':
		return ih.emit(statepkg.OpenEditorAction{})
	}
	return true
}
