package preview

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/kk-code-lab/carto/internal/textutil"
)

// Span is a run of text drawn with one style. Color is 0xRRGGBB and only
// meaningful when HasColor is set.
type Span struct {
	Text     string
	Color    uint32
	HasColor bool
	Bold     bool
	Italic   bool
}

// Line is one preview row.
type Line []Span

// String returns the plain text of the line.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

const styleName = "monokai"

// PlainLanguage is reported when no lexer matches.
const PlainLanguage = "plaintext"

func lexerFor(path, text string) chroma.Lexer {
	if l := lexers.Match(filepath.Base(path)); l != nil {
		return l
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return nil
}

// Language returns the syntax name used for path, judged by file name first
// and by content second.
func Language(path, text string) string {
	if l := lexerFor(path, text); l != nil {
		return l.Config().Name
	}
	return PlainLanguage
}

// Highlight splits text into styled lines and reports the detected language.
// Tabs are expanded and control characters neutralised.
func Highlight(path, text string) ([]Line, string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lexer := lexerFor(path, text)
	if lexer == nil {
		return plainLines(text), PlainLanguage
	}
	lang := lexer.Config().Name

	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return plainLines(text), lang
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	var lines []Line
	var cur Line
	for tok := it(); tok != chroma.EOF; tok = it() {
		entry := style.Get(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, expandLine(cur))
				cur = nil
			}
			if part == "" {
				continue
			}
			span := Span{
				Text:   textutil.Sanitize(part),
				Bold:   entry.Bold == chroma.Yes,
				Italic: entry.Italic == chroma.Yes,
			}
			if entry.Colour.IsSet() {
				span.HasColor = true
				span.Color = uint32(entry.Colour.Red())<<16 | uint32(entry.Colour.Green())<<8 | uint32(entry.Colour.Blue())
			}
			cur = append(cur, span)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, expandLine(cur))
	}
	return lines, lang
}

func plainLines(text string) []Line {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, r := range raw {
		lines[i] = expandLine(Line{{Text: textutil.Sanitize(r)}})
	}
	return lines
}

// expandLine expands tabs across span boundaries so tab stops line up with
// the whole row, not with each span.
func expandLine(l Line) Line {
	col := 0
	out := make(Line, 0, len(l))
	for _, s := range l {
		if strings.ContainsRune(s.Text, '\t') {
			var b strings.Builder
			for _, r := range s.Text {
				if r == '\t' {
					n := textutil.DefaultTabWidth - col%textutil.DefaultTabWidth
					b.WriteString(strings.Repeat(" ", n))
					col += n
					continue
				}
				b.WriteRune(r)
				col += textutil.DisplayWidth(string(r))
			}
			s.Text = b.String()
		} else {
			col += textutil.DisplayWidth(s.Text)
		}
		out = append(out, s)
	}
	return out
}
