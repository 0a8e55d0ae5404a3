package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/carto/internal/textutil"
)

const ellipsis = "…"

// truncateTextToWidth fits text into maxWidth columns, marking a cut with an
// ellipsis.
func truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if textutil.DisplayWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= runewidth.StringWidth(ellipsis) {
		return ellipsis
	}
	return textutil.Fit(text, maxWidth, ellipsis)
}

// drawTextLine draws text from startX, stopping before maxX, and returns the
// column after the last drawn rune.
func (r *Renderer) drawTextLine(startX, y, maxX int, text string, style tcell.Style) int {
	return r.drawMatched(startX, y, maxX, text, nil, style, style)
}

// drawMatched is drawTextLine with the runes starting at the given byte
// offsets drawn in matchStyle. Zero-width runes are dropped.
func (r *Renderer) drawMatched(startX, y, maxX int, text string, offsets []int, style, matchStyle tcell.Style) int {
	matched := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		matched[o] = true
	}
	x := startX
	for i, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		st := style
		if matched[i] {
			st = matchStyle
		}
		r.screen.SetContent(x, y, ru, nil, st)
		for pad := 1; pad < w; pad++ {
			r.screen.SetContent(x+pad, y, ' ', nil, st)
		}
		x += w
	}
	return x
}

// fill paints the cells from startX up to maxX with style.
func (r *Renderer) fill(startX, y, maxX int, style tcell.Style) {
	for x := startX; x < maxX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawRow draws text and pads the rest of the row.
func (r *Renderer) drawRow(startX, y, width int, text string, style tcell.Style) {
	end := r.drawTextLine(startX, y, startX+width, text, style)
	r.fill(end, y, startX+width, style)
}
