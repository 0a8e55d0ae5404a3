// Package selection implements the cursor and multi-select model of the
// file list.
package selection

// Mode is the interaction mode of the list.
type Mode int

const (
	// Normal has a single cursor and no persistent selection.
	Normal Mode = iota
	// Visual keeps a set of selected items next to the cursor.
	Visual
)

func (m Mode) String() string {
	if m == Visual {
		return "SELECT"
	}
	return "NORMAL"
}

// Model is the selection state over an ordered list of item identifiers.
// Empty identifiers mark placeholder rows that can never be selected.
type Model struct {
	mode     Mode
	cursor   int
	items    []string
	selected map[string]bool
}

// New returns a Normal-mode model over items.
func New(items []string) *Model {
	m := &Model{selected: make(map[string]bool)}
	m.SetItems(items)
	return m
}

// SetItems replaces the item list, dropping selections that no longer exist
// and clamping the cursor.
func (m *Model) SetItems(items []string) {
	m.items = append(m.items[:0:0], items...)
	present := make(map[string]bool, len(items))
	for _, id := range items {
		present[id] = true
	}
	for id := range m.selected {
		if !present[id] {
			delete(m.selected, id)
		}
	}
	m.SetCursor(m.cursor)
}

// Items returns the identifiers in list order.
func (m *Model) Items() []string { return m.items }

// Mode returns the current mode.
func (m *Model) Mode() Mode { return m.mode }

// Cursor returns the cursor row.
func (m *Model) Cursor() int { return m.cursor }

// Current returns the identifier under the cursor.
func (m *Model) Current() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) || m.items[m.cursor] == "" {
		return "", false
	}
	return m.items[m.cursor], true
}

// SetCursor moves the cursor to i, clamped to the list.
func (m *Model) SetCursor(i int) {
	m.cursor = m.clamp(i)
}

// SetCursorTo moves the cursor onto id. It reports false, leaving the cursor
// alone, when id is not in the list.
func (m *Model) SetCursorTo(id string) bool {
	for i, item := range m.items {
		if item == id && id != "" {
			m.cursor = i
			return true
		}
	}
	return false
}

// ToggleMode flips between Normal and Visual. Leaving Visual clears the
// selected set.
func (m *Model) ToggleMode() {
	if m.mode == Visual {
		m.mode = Normal
		clear(m.selected)
		return
	}
	m.mode = Visual
}

// SelectUp moves the cursor up one row. In Visual mode both the old and the
// new row end up selected.
func (m *Model) SelectUp() { m.step(-1) }

// SelectDown moves the cursor down one row, selecting like SelectUp.
func (m *Model) SelectDown() { m.step(1) }

// SelectPageUp moves the cursor up by page rows. In Visual mode every row
// passed over is selected.
func (m *Model) SelectPageUp(page int) { m.jump(m.cursor - max(page, 1)) }

// SelectPageDown moves the cursor down by page rows, selecting like
// SelectPageUp.
func (m *Model) SelectPageDown(page int) { m.jump(m.cursor + max(page, 1)) }

// SelectHome moves the cursor to the first row.
func (m *Model) SelectHome() { m.jump(0) }

// SelectEnd moves the cursor to the last row.
func (m *Model) SelectEnd() { m.jump(len(m.items) - 1) }

func (m *Model) step(delta int) {
	old := m.cursor
	m.cursor = m.clamp(old + delta)
	if m.mode == Visual {
		m.add(old)
		m.add(m.cursor)
	}
}

func (m *Model) jump(target int) {
	old := m.cursor
	m.cursor = m.clamp(target)
	if m.mode != Visual {
		return
	}
	lo, hi := min(old, m.cursor), max(old, m.cursor)
	for i := lo; i <= hi; i++ {
		m.add(i)
	}
}

// ToggleCurrent flips the selection of the row under the cursor, entering
// Visual mode first if needed.
func (m *Model) ToggleCurrent() {
	m.mode = Visual
	id, ok := m.Current()
	if !ok {
		return
	}
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
}

// ToggleAll enters Visual mode if needed, then clears the selection when
// every item is selected and selects everything otherwise.
func (m *Model) ToggleAll() {
	m.mode = Visual
	if len(m.selected) == m.selectable() {
		clear(m.selected)
		return
	}
	for i := range m.items {
		m.add(i)
	}
}

// Select replaces the selected set with ids and enters Visual mode.
func (m *Model) Select(ids []string) {
	m.mode = Visual
	clear(m.selected)
	for _, id := range ids {
		if id != "" {
			m.selected[id] = true
		}
	}
}

// IsSelected reports whether id is in the selected set. It is false for
// every item in Normal mode.
func (m *Model) IsSelected(id string) bool {
	return m.mode == Visual && m.selected[id]
}

// Count returns the number of selected items in Visual mode.
func (m *Model) Count() int {
	if m.mode != Visual {
		return 0
	}
	return len(m.selected)
}

// SelectedIDs returns the identifiers the next command applies to: the
// cursor item in Normal mode, the selected set in Visual mode. Callers must
// rely on membership only, not order.
func (m *Model) SelectedIDs() []string {
	if m.mode == Normal {
		if id, ok := m.Current(); ok {
			return []string{id}
		}
		return nil
	}
	out := make([]string, 0, len(m.selected))
	for _, id := range m.items {
		if m.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

func (m *Model) add(i int) {
	if i >= 0 && i < len(m.items) && m.items[i] != "" {
		m.selected[m.items[i]] = true
	}
}

func (m *Model) selectable() int {
	n := 0
	for _, id := range m.items {
		if id != "" {
			n++
		}
	}
	return n
}

func (m *Model) clamp(i int) int {
	if len(m.items) == 0 || i < 0 {
		return 0
	}
	if i >= len(m.items) {
		return len(m.items) - 1
	}
	return i
}
