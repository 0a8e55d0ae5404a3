package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/carto/internal/selection"
	statepkg "github.com/kk-code-lab/carto/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}
	segments := contextualHelpSegments(state)
	return append(segments, persistentHelpSegments(state)...)
}

func contextualHelpSegments(state *statepkg.AppState) []string {
	switch {
	case state.Ops.Running:
		return []string{"Esc: cancel operation"}
	case state.Selection.Mode() == selection.Visual:
		return []string{
			"↑↓/Pg: extend",
			"space: toggle",
			"a: all",
			"c/x: copy/cut",
			"d: delete",
			"Esc: leave select",
		}
	case state.Focus == statepkg.PaneClipboard:
		return []string{
			"↑↓: move",
			"space: toggle",
			"X: remove",
			"p: paste",
			"Tab: next pane",
		}
	case state.Focus == statepkg.PaneSidebar:
		return []string{
			"↑↓: move",
			"↵: open",
			"Tab: next pane",
		}
	case state.Focus == statepkg.PaneMetadata:
		return []string{
			"i/Esc: back to files",
		}
	default:
		return []string{
			"↑↓/↵/←: navigate",
			"[]: history",
			"v: select",
			"c/x/p: copy/cut/paste",
			"/: filter",
			"z: jump",
			"i: info",
		}
	}
}

func persistentHelpSegments(state *statepkg.AppState) []string {
	if state.Ops.Running {
		return nil
	}
	hiddenStatus := "show"
	if state.ListOptions.ShowHidden {
		hiddenStatus = "hide"
	}
	segments := []string{fmt.Sprintf(".: %s hidden", hiddenStatus)}
	if state.ClipboardAvailable {
		segments = append(segments, "y: yank path")
	}
	if state.EditorCommand != "" {
		segments = append(segments, "e: edit")
	}
	return append(segments, "q/Q: quit/cd")
}
