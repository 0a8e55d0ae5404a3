package preview

import (
	"github.com/kk-code-lab/carto/internal/textutil"
)

// GutterWidth is the number of columns reserved for line numbers in front
// of text previews.
const GutterWidth = 5

// Window returns the rows of c visible in a rows x cols pane. With full set
// every line is returned unclipped and the renderer scrolls.
func (c Content) Window(rows, cols int, full bool) []Line {
	lines := c.lines()
	if full {
		return lines
	}
	if rows <= 0 || cols <= 0 {
		return nil
	}
	width := cols
	if c.Kind == KindText {
		width = cols - GutterWidth
		if width <= 0 {
			return nil
		}
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = clipLine(l, width)
	}
	return out
}

func (c Content) lines() []Line {
	switch c.Kind {
	case KindText:
		return c.Lines
	case KindImage:
		if len(c.Lines) > 0 {
			return c.Lines
		}
		return []Line{{{Text: c.Message}}}
	case KindMessage:
		return []Line{{{Text: c.Message}}}
	case KindDirectory:
		out := make([]Line, len(c.Entries))
		for i, e := range c.Entries {
			name := textutil.Sanitize(e.Name)
			if e.IsDir() {
				name += "/"
			}
			out[i] = Line{{Text: name, Bold: e.IsDir()}}
		}
		return out
	}
	return nil
}

func clipLine(l Line, cols int) Line {
	out := make(Line, 0, len(l))
	used := 0
	for _, s := range l {
		if used >= cols {
			break
		}
		w := textutil.DisplayWidth(s.Text)
		if used+w > cols {
			s.Text = textutil.Clip(s.Text, cols-used)
			w = textutil.DisplayWidth(s.Text)
		}
		out = append(out, s)
		used += w
	}
	return out
}

// View holds the latest accepted preview and its windowed rows.
type View struct {
	expected uint64
	content  Content
	rows     int
	cols     int
	full     bool
	lines    []Line
}

// Expect records gen as the only generation Apply will accept.
func (v *View) Expect(gen uint64) {
	v.expected = gen
}

// Expected returns the generation Apply is waiting for.
func (v *View) Expected() uint64 {
	return v.expected
}

// Apply installs c if gen is the expected generation and reports whether it
// did. Results from superseded generations are dropped.
func (v *View) Apply(gen uint64, c Content) bool {
	if gen != v.expected {
		return false
	}
	v.Set(c)
	return true
}

// Set installs c unconditionally.
func (v *View) Set(c Content) {
	v.content = c
	v.rewindow()
}

// Resize re-windows the cached content for a new pane size.
func (v *View) Resize(rows, cols int) {
	if rows == v.rows && cols == v.cols {
		return
	}
	v.rows, v.cols = rows, cols
	v.rewindow()
}

// SetFull toggles unclipped previews.
func (v *View) SetFull(full bool) {
	if full == v.full {
		return
	}
	v.full = full
	v.rewindow()
}

// Full reports whether previews are unclipped.
func (v *View) Full() bool { return v.full }

// Content returns the cached content.
func (v *View) Content() Content { return v.content }

// Lines returns the windowed rows.
func (v *View) Lines() []Line { return v.lines }

func (v *View) rewindow() {
	v.lines = v.content.Window(v.rows, v.cols, v.full)
}
