// Package preview builds and windows the preview pane for the highlighted
// entry.
package preview

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/carto/internal/fs"
)

// Kind says how a Content should be drawn.
type Kind int

const (
	KindNone Kind = iota
	KindDirectory
	KindText
	// KindMessage is a fixed placeholder such as the binary or error text.
	KindMessage
	KindImage
)

// DefaultMaxBytes caps how much of a file is read for a text preview.
const DefaultMaxBytes = 1 << 20

// ImageRenderer turns an image file into terminal rows. It is supplied by
// the front end; without one, images show Options.ImageMessage.
type ImageRenderer interface {
	Render(ctx context.Context, path string, cols, rows int) ([]string, error)
}

// Options configure Build.
type Options struct {
	ShowHidden      bool
	ImageExtensions []string
	MaxBytes        int64
	StartMessage    string
	BinaryMessage   string
	ErrorMessage    string
	ImageMessage    string
	Images          ImageRenderer
}

// DefaultOptions mirrors the stock configuration.
func DefaultOptions() Options {
	return Options{
		ImageExtensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tiff", ".ico"},
		MaxBytes:        DefaultMaxBytes,
		StartMessage:    "Highlight a file to preview it.",
		BinaryMessage:   "Binary file...",
		ErrorMessage:    "Error reading file...",
		ImageMessage:    "Image preview unavailable.",
	}
}

func (o Options) isImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range o.ImageExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Content is a built preview. It owns the decoded text so the pane can be
// re-windowed on resize without touching the file again.
type Content struct {
	Kind      Kind
	Path      string
	Entries   []fs.Entry
	Lines     []Line
	Language  string
	Message   string
	Truncated bool
}

// Build reads path and produces its preview. It never fails: unreadable or
// undecodable files resolve to a placeholder message.
func Build(ctx context.Context, path string, opts Options) Content {
	info, err := os.Stat(path)
	if err != nil {
		return Content{Kind: KindMessage, Path: path, Message: opts.ErrorMessage}
	}
	if info.IsDir() {
		entries := fs.List(path, fs.ListOptions{ShowHidden: opts.ShowHidden})
		return Content{Kind: KindDirectory, Path: path, Entries: entries}
	}
	if opts.isImage(path) {
		return buildImage(ctx, path, opts)
	}

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	raw, err := fs.ReadHead(path, limit)
	if err != nil {
		return Content{Kind: KindMessage, Path: path, Message: opts.ErrorMessage}
	}
	if ctx.Err() != nil {
		return Content{Path: path}
	}
	if !fs.IsTextFile(path, raw) {
		return Content{Kind: KindMessage, Path: path, Message: opts.BinaryMessage}
	}
	text, ok := fs.DecodeText(raw)
	if !ok {
		return Content{Kind: KindMessage, Path: path, Message: opts.BinaryMessage}
	}

	lines, lang := Highlight(path, text)
	return Content{
		Kind:      KindText,
		Path:      path,
		Lines:     lines,
		Language:  lang,
		Truncated: info.Size() > limit,
	}
}

func buildImage(ctx context.Context, path string, opts Options) Content {
	c := Content{Kind: KindImage, Path: path, Message: opts.ImageMessage}
	if opts.Images == nil {
		return c
	}
	// Rendered at a generous size; the window clips it to the pane.
	rows, err := opts.Images.Render(ctx, path, 200, 100)
	if err != nil {
		c.Message = opts.ErrorMessage
		return c
	}
	c.Lines = make([]Line, len(rows))
	for i, r := range rows {
		c.Lines[i] = Line{{Text: r}}
	}
	return c
}
