package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/carto/internal/clipboard"
	"github.com/kk-code-lab/carto/internal/preview"
	"github.com/kk-code-lab/carto/internal/selection"
	statepkg "github.com/kk-code-lab/carto/internal/state"
	"github.com/kk-code-lab/carto/internal/textutil"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()
	l := statepkg.ComputeLayout(w, h)

	r.drawHeader(state, w)
	if l.SidebarWidth > 0 {
		r.drawSidebar(state, l)
		r.drawSeparator(l.SidebarWidth, l)
	}
	if state.Input == statepkg.InputJumper {
		r.drawJumper(state, l)
	} else {
		r.drawList(state, l)
	}
	if l.ShowPreview {
		r.drawSeparator(l.PreviewStart-1, l)
		r.drawPreview(state, l)
		r.drawMetadata(state, l)
	}
	r.drawStatusLine(state, w, h)
	r.screen.Show()
}

func (r *Renderer) drawSeparator(x int, l statepkg.Layout) {
	style := tcell.StyleDefault.Foreground(r.theme.SeparatorFg)
	for y := l.BodyTop; y < l.BodyTop+l.BodyHeight; y++ {
		r.screen.SetContent(x, y, '│', nil, style)
	}
}

// drawHeader renders the top bar with title, breadcrumb and mode.
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	mode := state.Selection.Mode().String()
	if n := state.Selection.Count(); state.Selection.Mode() == selection.Visual {
		mode = fmt.Sprintf("%s %d", mode, n)
	}
	right := " " + mode + " "
	rightWidth := textutil.DisplayWidth(right)

	x := r.drawTextLine(0, 0, w, "carto ", style.Bold(true))
	available := w - x - rightWidth
	crumb := textutil.Sanitize(strings.Join(FormatBreadcrumbSegments(state.CurrentPath), " › "))
	if textutil.DisplayWidth(crumb) > available {
		crumb = fitLeft(crumb, available)
	}
	x = r.drawTextLine(x, 0, x+max(available, 0), crumb, style)
	r.fill(x, 0, w, style)
	if w-rightWidth > x {
		modeStyle := style.Reverse(state.Selection.Mode() == selection.Visual)
		r.drawTextLine(w-rightWidth, 0, w, right, modeStyle)
	}
}

// fitLeft keeps the end of text, which is the most useful part of a path.
func fitLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	used := textutil.DisplayWidth(ellipsis)
	start := len(runes)
	for start > 0 {
		rw := textutil.DisplayWidth(string(runes[start-1]))
		if used+rw > width {
			break
		}
		used += rw
		start--
	}
	return ellipsis + string(runes[start:])
}

// FormatBreadcrumbSegments splits path into its displayed components.
func FormatBreadcrumbSegments(path string) []string {
	if path == "" {
		return []string{"/"}
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == "/" {
		return []string{"/"}
	}
	var segments []string
	if strings.HasPrefix(clean, "/") {
		segments = append(segments, "/")
	}
	for _, part := range strings.Split(strings.TrimPrefix(clean, "/"), "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// cursorStyle picks the highlight of a row under a pane's cursor.
func (r *Renderer) cursorStyle(focused bool) tcell.Style {
	if focused {
		return tcell.StyleDefault.Background(r.theme.ActiveBg).Foreground(r.theme.ActiveFg)
	}
	return tcell.StyleDefault.Background(r.theme.InactiveBg)
}

// drawSidebar renders pins above the clipboard panel.
func (r *Renderer) drawSidebar(state *statepkg.AppState, l statepkg.Layout) {
	width := l.SidebarWidth
	pinRows := l.BodyHeight - l.ClipboardHeight
	base := tcell.StyleDefault.Foreground(r.theme.SidebarFg)
	section := tcell.StyleDefault.Foreground(r.theme.SectionFg).Bold(true)

	items := state.SidebarItems()
	y := l.BodyTop
	last := statepkg.Section(-1)
	offset := scrollFor(state.SidebarIndex, len(items)+3, pinRows)
	row := 0
	for i, it := range items {
		if it.Section != last {
			last = it.Section
			if row >= offset && y < l.BodyTop+pinRows {
				r.drawRow(0, y, width, " "+it.Section.Title(), section)
				y++
			}
			row++
		}
		if row >= offset && y < l.BodyTop+pinRows {
			style := base
			if i == state.SidebarIndex && state.Focus == statepkg.PaneSidebar {
				style = r.cursorStyle(true)
			} else if samePath(it.Path, state.CurrentPath) {
				style = base.Bold(true)
			}
			r.drawRow(0, y, width, "  "+truncateTextToWidth(textutil.Sanitize(it.Name), width-2), style)
			y++
		}
		row++
	}
	if l.ClipboardHeight > 0 {
		r.drawClipboard(state, 0, l.BodyTop+pinRows, width, l.ClipboardHeight)
	}
}

func samePath(a, b string) bool {
	return filepath.ToSlash(filepath.Clean(a)) == filepath.ToSlash(filepath.Clean(b))
}

// drawClipboard renders the ledger, newest first. Cut entries are tinted.
func (r *Renderer) drawClipboard(state *statepkg.AppState, x, y, width, height int) {
	title := tcell.StyleDefault.Foreground(r.theme.SectionFg).Bold(true)
	items := state.Clipboard.Items()
	r.drawRow(x, y, width, fmt.Sprintf(" Clipboard (%d)", len(items)), title)
	rows := height - 1
	focused := state.Focus == statepkg.PaneClipboard
	cursor := state.Clipboard.Cursor()
	offset := scrollFor(cursor, len(items), rows)
	for i := 0; i < rows; i++ {
		idx := offset + i
		if idx >= len(items) {
			break
		}
		it := items[idx]
		style := tcell.StyleDefault
		if it.Op == clipboard.Cut {
			style = style.Foreground(r.theme.CutFg)
		}
		mark := "  "
		if state.Clipboard.IsSelected(it.ID) {
			mark = "* "
			style = style.Bold(true)
		}
		if idx == cursor && focused {
			style = r.cursorStyle(true)
		}
		label := mark + it.Op.String() + " " + textutil.Sanitize(it.Label)
		r.drawRow(x, y+1+i, width, truncateTextToWidth(label, width), style)
	}
}

// scrollFor returns the first visible row keeping cursor on screen.
func scrollFor(cursor, total, rows int) int {
	if rows <= 0 || total <= rows || cursor < rows {
		return 0
	}
	off := cursor - rows + 1
	if off > total-rows {
		off = total - rows
	}
	return off
}

// drawList renders the file list.
func (r *Renderer) drawList(state *statepkg.AppState, l statepkg.Layout) {
	files := state.DisplayFiles()
	start, width := l.ListStart, l.ListWidth
	focused := state.Focus == statepkg.PaneList
	cursor := state.Selection.Cursor()
	matchStyle := tcell.StyleDefault.Foreground(r.theme.MatchFg).Bold(true)

	if len(files) == 0 && state.FilterActive() {
		r.drawRow(start, l.BodyTop, width, " no matches for "+textutil.Sanitize(state.FilterQuery), tcell.StyleDefault.Foreground(r.theme.SentinelFg))
		return
	}

	for row := 0; row < l.BodyHeight; row++ {
		idx := state.ScrollOffset + row
		if idx >= len(files) {
			break
		}
		e := files[idx]
		y := l.BodyTop + row
		style := r.entryStyle(e)
		selected := !e.IsSentinel() && state.Selection.IsSelected(e.ID())
		if selected {
			style = style.Foreground(r.theme.SelectedFg).Bold(true)
		}
		rowMatch := matchStyle
		if idx == cursor {
			style = r.cursorStyle(focused)
			rowMatch = style.Underline(true)
		}

		mark := "  "
		if selected {
			mark = "▌ "
		}
		x := r.drawTextLine(start, y, start+width, mark, style)

		sizeText := ""
		if !e.IsSentinel() && !e.IsDir() {
			sizeText = " " + formatSize(e.Size) + " "
		}
		nameMax := start + width - textutil.DisplayWidth(sizeText)
		name := textutil.Sanitize(e.Name)
		if e.IsDir() && !e.IsSentinel() {
			name += "/"
		}
		if textutil.DisplayWidth(name) > nameMax-x {
			name = truncateTextToWidth(name, nameMax-x)
		}
		x = r.drawMatched(x, y, nameMax, name, state.MatchedIndexes(idx), style, rowMatch)
		r.fill(x, y, nameMax, style)
		r.drawTextLine(nameMax, y, start+width, sizeText, style)
	}
}

func formatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func (r *Renderer) entryStyle(e statepkg.FileEntry) tcell.Style {
	style := tcell.StyleDefault
	switch {
	case e.IsSentinel():
		return style.Foreground(r.theme.SentinelFg).Italic(true)
	case e.IsSymlink:
		style = style.Foreground(r.theme.SymlinkFg)
	case e.IsDir():
		style = style.Foreground(r.theme.DirectoryFg)
	}
	if e.IsHidden() {
		style = style.Foreground(r.theme.HiddenFg)
	}
	return style
}

// drawJumper lists jumper candidates in place of the file list.
func (r *Renderer) drawJumper(state *statepkg.AppState, l statepkg.Layout) {
	start, width := l.ListStart, l.ListWidth
	js := state.Jumper
	if js.Err != nil {
		r.drawRow(start, l.BodyTop, width, " "+js.Err.Error(), tcell.StyleDefault.Foreground(r.theme.ErrorFg))
		return
	}
	if len(js.Results) == 0 {
		r.drawRow(start, l.BodyTop, width, " no matching directories", tcell.StyleDefault.Foreground(r.theme.SentinelFg))
		return
	}
	offset := scrollFor(js.Index, len(js.Results), l.BodyHeight)
	for row := 0; row < l.BodyHeight; row++ {
		idx := offset + row
		if idx >= len(js.Results) {
			break
		}
		c := js.Results[idx]
		style := tcell.StyleDefault.Foreground(r.theme.DirectoryFg)
		if idx == js.Index {
			style = r.cursorStyle(true)
		}
		text := " " + textutil.Sanitize(c.Path)
		if c.Score != "" {
			text = fmt.Sprintf(" %6s  %s", c.Score, textutil.Sanitize(c.Path))
		}
		r.drawRow(start, l.BodyTop+row, width, truncateTextToWidth(text, width), style)
	}
}

// drawPreview renders the preview pane above the metadata panel.
func (r *Renderer) drawPreview(state *statepkg.AppState, l statepkg.Layout) {
	content := state.Preview.Content()
	lines := state.Preview.Lines()
	rows := l.PreviewRows()
	x0, maxX := l.PreviewStart, l.PreviewStart+l.PreviewWidth
	gutter := content.Kind == preview.KindText
	gutterStyle := tcell.StyleDefault.Foreground(r.theme.GutterFg)

	for i := 0; i < rows && i < len(lines); i++ {
		y := l.BodyTop + i
		x := x0
		if gutter {
			x = r.drawTextLine(x, y, maxX, fmt.Sprintf("%4d ", i+1), gutterStyle)
		}
		for _, span := range lines[i] {
			if x >= maxX {
				break
			}
			x = r.drawTextLine(x, y, maxX, span.Text, spanStyle(span))
		}
	}
	if content.Truncated && len(lines) < rows {
		r.drawTextLine(x0, l.BodyTop+len(lines), maxX, "…", gutterStyle)
	}
}

func spanStyle(s preview.Span) tcell.Style {
	style := tcell.StyleDefault
	if s.HasColor {
		style = style.Foreground(tcell.NewHexColor(int32(s.Color)))
	}
	return style.Bold(s.Bold).Italic(s.Italic)
}

// drawMetadata renders the metadata panel at the bottom of the preview
// column.
func (r *Renderer) drawMetadata(state *statepkg.AppState, l statepkg.Layout) {
	if l.MetadataHeight <= 0 {
		return
	}
	x0, width := l.PreviewStart, l.PreviewWidth
	y := l.BodyTop + l.PreviewRows()
	title := tcell.StyleDefault.Foreground(r.theme.SectionFg).Bold(true)
	if state.Focus == statepkg.PaneMetadata {
		title = r.cursorStyle(true)
	}
	r.drawRow(x0, y, width, " Info", title)

	rows := state.MetadataRows()
	if state.Metadata.Missing {
		r.drawRow(x0, y+1, width, " Item not found or inaccessible.", tcell.StyleDefault.Foreground(r.theme.SentinelFg))
		return
	}
	labelWidth := 0
	for _, f := range rows {
		labelWidth = max(labelWidth, textutil.DisplayWidth(f.Label))
	}
	labelStyle := tcell.StyleDefault.Foreground(r.theme.MetadataLabelFg)
	for i, f := range rows {
		if i+1 >= l.MetadataHeight {
			break
		}
		ry := y + 1 + i
		x := r.drawTextLine(x0, ry, x0+width, fmt.Sprintf(" %-*s ", labelWidth, f.Label), labelStyle)
		r.drawTextLine(x, ry, x0+width, textutil.Sanitize(f.Value), tcell.StyleDefault)
	}
}

// drawStatusLine renders the bottom row: a prompt, the input line, an
// error, operation progress or the hints, in that order of precedence.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	y := h - 1
	if y < 1 {
		return
	}
	normal := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	if !state.LastYankTime.IsZero() && time.Since(state.LastYankTime) < 100*time.Millisecond {
		normal = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	}

	switch {
	case state.Prompt != nil:
		style := tcell.StyleDefault.Background(r.theme.PromptBg).Foreground(r.theme.PromptFg)
		text := " " + textutil.Sanitize(state.Prompt.Message) + " " + state.Prompt.Hint()
		r.drawRow(0, y, w, truncateTextToWidth(text, w), style)
	case state.Input != statepkg.InputNone:
		x := r.drawTextLine(0, y, w, state.Input.Prompt(), normal.Bold(true))
		x = r.drawTextLine(x, y, w, textutil.Sanitize(state.InputText), normal)
		if x < w {
			r.screen.SetContent(x, y, '█', nil, normal)
			x++
		}
		r.fill(x, y, w, normal)
	case state.LastError != nil:
		r.drawRow(0, y, w, " "+textutil.Sanitize(state.LastError.Error()), normal.Foreground(r.theme.ErrorFg))
	case state.Ops.Running:
		text := fmt.Sprintf(" %s %d/%d %s", state.Ops.Op, state.Ops.Done, state.Ops.Total, filepath.Base(state.Ops.Path))
		r.drawRow(0, y, w, truncateTextToWidth(text, w), normal)
	case state.Notice != "":
		r.drawRow(0, y, w, " "+textutil.Sanitize(state.Notice), normal)
	default:
		r.drawRow(0, y, w, truncateTextToWidth(buildFooterHelpText(state), w), normal)
	}
}
