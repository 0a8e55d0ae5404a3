package state

import (
	"github.com/sahilm/fuzzy"
)

// entrySource adapts the non-sentinel entries of a listing to fuzzy.Source.
type entrySource struct {
	files []FileEntry
	index []int
}

func (s entrySource) String(i int) string { return s.files[s.index[i]].Name }
func (s entrySource) Len() int            { return len(s.index) }

// applyFilter narrows the list to entries fuzzy-matching query, best match
// first. An empty query shows the whole listing again.
func (r *StateReducer) applyFilter(state *AppState, query string) {
	prev, hadPrev := state.Selection.Current()
	state.FilterQuery = query

	if query == "" {
		state.filtered = nil
		state.filterMatches = nil
	} else {
		src := entrySource{files: state.Files}
		for i, f := range state.Files {
			if !f.IsSentinel() {
				src.index = append(src.index, i)
			}
		}
		matches := fuzzy.FindFrom(query, src)
		state.filtered = make([]int, 0, len(matches))
		state.filterMatches = make(map[int][]int, len(matches))
		for _, m := range matches {
			idx := src.index[m.Index]
			state.filtered = append(state.filtered, idx)
			state.filterMatches[idx] = m.MatchedIndexes
		}
	}

	state.syncSelectionItems()
	if !hadPrev || !state.Selection.SetCursorTo(prev) {
		state.Selection.SetCursor(0)
	}
	state.ensureCursorVisible()
	r.highlightChanged(state, false)
}
