// Package textutil holds terminal-width helpers shared by the preview and the
// renderer.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const DefaultTabWidth = 4

// ExpandTabs replaces tabs with spaces up to the next tab stop, counting wide
// runes as two columns.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}
	var b strings.Builder
	col := 0
	for _, r := range text {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += max(runewidth.RuneWidth(r), 1)
	}
	return b.String()
}

// DisplayWidth returns the number of terminal columns text occupies.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Clip cuts text to at most cols terminal columns. A wide rune that would
// straddle the edge is dropped.
func Clip(text string, cols int) string {
	if cols <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= cols {
		return text
	}
	return runewidth.Truncate(text, cols, "")
}

// Fit clips text to cols columns and marks the cut with tail.
func Fit(text string, cols int, tail string) string {
	if cols <= 0 {
		return ""
	}
	return runewidth.Truncate(text, cols, tail)
}

// Sanitize replaces control characters so file names and file contents
// cannot drive the terminal. Tabs are kept for ExpandTabs.
func Sanitize(text string) string {
	clean := true
	for _, r := range text {
		if isControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case isControl(r):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControl(r rune) bool {
	if r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) || r == 0x202e || r == 0x2066 || r == 0x2067
}
