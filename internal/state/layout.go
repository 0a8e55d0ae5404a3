package state

// Layout splits the screen into panes. The header takes the first row and
// the status line the last; everything in between is the body.
type Layout struct {
	SidebarWidth    int
	ClipboardHeight int // Rows of the sidebar given to the clipboard
	ListStart       int
	ListWidth       int
	ShowPreview     bool
	PreviewStart    int
	PreviewWidth    int
	MetadataHeight  int // Rows at the bottom of the preview column
	BodyTop         int
	BodyHeight      int
}

const (
	minListWidth         = 24
	minPreviewWidth      = 28
	minPreviewTermWidth  = 80
	previewWidthRatio    = 0.45
	metadataPanelMaxRows = 8
)

// PreviewRows is the height left for preview text above the metadata panel.
func (l Layout) PreviewRows() int {
	rows := l.BodyHeight - l.MetadataHeight
	if rows < 0 {
		return 0
	}
	return rows
}

// ComputeLayout lays out a w x h screen.
func ComputeLayout(w, h int) Layout {
	if w < 0 {
		w = 0
	}
	l := Layout{BodyTop: 1, BodyHeight: h - 2}
	if l.BodyHeight < 0 {
		l.BodyHeight = 0
	}

	l.SidebarWidth = sidebarWidthForWidth(w)
	if l.SidebarWidth > 0 {
		l.ClipboardHeight = l.BodyHeight / 3
	}
	l.ListStart = l.SidebarWidth
	if l.SidebarWidth > 0 {
		l.ListStart++ // separator
	}
	content := w - l.ListStart
	if content < 0 {
		content = 0
	}
	l.ListWidth = content
	l.PreviewStart = w

	if w >= minPreviewTermWidth && content >= minListWidth+minPreviewWidth+1 {
		pw := int(float64(content)*previewWidthRatio + 0.5)
		if pw < minPreviewWidth {
			pw = minPreviewWidth
		}
		if content-pw-1 < minListWidth {
			pw = content - 1 - minListWidth
		}
		l.ShowPreview = true
		l.PreviewWidth = pw
		l.ListWidth = content - pw - 1
		l.PreviewStart = l.ListStart + l.ListWidth + 1
		l.MetadataHeight = metadataPanelMaxRows
		if l.MetadataHeight > l.BodyHeight/2 {
			l.MetadataHeight = l.BodyHeight / 2
		}
	}
	return l
}

func sidebarWidthForWidth(w int) int {
	switch {
	case w >= 150:
		return 28
	case w >= 120:
		return 24
	case w >= 100:
		return 20
	case w >= 80:
		return 16
	default:
		return 0
	}
}
