package state

import (
	"context"
	"time"

	"github.com/kk-code-lab/carto/internal/clipboard"
	"github.com/kk-code-lab/carto/internal/config"
	fsutil "github.com/kk-code-lab/carto/internal/fs"
	"github.com/kk-code-lab/carto/internal/jumper"
	"github.com/kk-code-lab/carto/internal/metadata"
	"github.com/kk-code-lab/carto/internal/pins"
	"github.com/kk-code-lab/carto/internal/preview"
	"github.com/kk-code-lab/carto/internal/selection"
	"github.com/kk-code-lab/carto/internal/session"
)

// FileEntry mirrors fs.Entry so UI/state code can rely on a stable type.
type FileEntry = fsutil.Entry

// Pane is the part of the screen that receives motion keys.
type Pane int

const (
	PaneList Pane = iota
	PaneSidebar
	PaneClipboard
	PaneMetadata
)

func (p Pane) String() string {
	switch p {
	case PaneSidebar:
		return "pins"
	case PaneClipboard:
		return "clipboard"
	case PaneMetadata:
		return "metadata"
	}
	return "files"
}

// InputMode says what the one-line editor is collecting.
type InputMode int

const (
	InputNone InputMode = iota
	InputFilter
	InputRename
	InputCreate
	InputJumper
)

// Prompt returns the label shown before the input line.
func (m InputMode) Prompt() string {
	switch m {
	case InputFilter:
		return "filter: "
	case InputRename:
		return "rename: "
	case InputCreate:
		return "new (end with / for a folder): "
	case InputJumper:
		return "jump: "
	}
	return ""
}

// OpsStatus tracks the running file operation batch.
type OpsStatus struct {
	Running bool
	Op      string
	Path    string
	Done    int
	Total   int
	cancel  context.CancelFunc
}

// JumperState is the jumper popup.
type JumperState struct {
	Results []jumper.Candidate
	Index   int
	Err     error
	gen     uint64
}

// AppState is the single source of truth
type AppState struct {
	// Navigation & filesystem
	CurrentPath  string
	Session      *session.State
	Files        []FileEntry // Current listing, sorted by the lister
	ListOptions  fsutil.ListOptions
	Selection    *selection.Model // Items are the ids of DisplayFiles
	ScrollOffset int

	// Filtering
	FilterQuery   string
	filtered      []int         // Indices into Files, nil without a filter
	filterMatches map[int][]int // File index -> matched byte offsets

	// Input line
	Input     InputMode
	InputText string

	Focus Pane

	// Preview
	Preview     *preview.View
	highlighted string

	// Metadata panel
	Metadata       metadata.Info
	MetadataFields []string
	DateFormat     string
	Size           metadata.SizeField
	metadataGen    uint64

	// Clipboard
	Clipboard          *clipboard.Ledger
	ClipboardAvailable bool
	LastYankTime       time.Time

	// Sidebar
	Pins         pins.Pins
	Drives       []string
	SidebarIndex int

	Jumper JumperState
	Ops    OpsStatus
	Prompt *Prompt

	UseTrash      bool
	EditorCommand string

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Status line
	Notice    string
	LastError error
}

// NewAppState builds the state for a session starting in cwd.
func NewAppState(cwd string, cfg config.Config) *AppState {
	s := &AppState{
		CurrentPath: cwd,
		Session:     session.New(),
		Selection:   selection.New(nil),
		Preview:     &preview.View{},
		Clipboard:   clipboard.New(),
		ScreenWidth: 80, ScreenHeight: 24,
	}
	s.applyConfig(cfg)
	return s
}

func (s *AppState) applyConfig(cfg config.Config) {
	s.ListOptions = cfg.ListOptions()
	s.MetadataFields = append([]string(nil), cfg.Metadata.Fields...)
	s.DateFormat = cfg.Metadata.DatetimeFormat
	s.UseTrash = cfg.Settings.UseRecycleBin
	s.EditorCommand = cfg.EditorCommand()
	s.Preview.SetFull(cfg.Settings.PreviewFull)
}

// DisplayFiles returns the rows of the file list, after filtering.
func (s *AppState) DisplayFiles() []FileEntry {
	if s.filtered == nil {
		return s.Files
	}
	out := make([]FileEntry, 0, len(s.filtered))
	for _, idx := range s.filtered {
		out = append(out, s.Files[idx])
	}
	return out
}

// FilterActive reports whether a filter narrows the list.
func (s *AppState) FilterActive() bool {
	return s.filtered != nil
}

// MatchedIndexes returns the byte offsets in the name of display row i
// matched by the filter.
func (s *AppState) MatchedIndexes(i int) []int {
	if s.filtered == nil || i < 0 || i >= len(s.filtered) {
		return nil
	}
	return s.filterMatches[s.filtered[i]]
}

// CurrentEntry returns the entry under the cursor.
func (s *AppState) CurrentEntry() (FileEntry, bool) {
	files := s.DisplayFiles()
	i := s.Selection.Cursor()
	if i < 0 || i >= len(files) {
		return FileEntry{}, false
	}
	return files[i], true
}

// SelectedEntries resolves the selection to listing entries, in list order.
// Sentinels are never returned.
func (s *AppState) SelectedEntries() []FileEntry {
	ids := s.Selection.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []FileEntry
	for _, e := range s.DisplayFiles() {
		if !e.IsSentinel() && want[e.ID()] {
			out = append(out, e)
		}
	}
	return out
}

// SelectedPaths returns the full paths of SelectedEntries.
func (s *AppState) SelectedPaths() []string {
	entries := s.SelectedEntries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.FullPath)
	}
	return out
}

// SidebarItems flattens the pin sections into sidebar rows.
func (s *AppState) SidebarItems() []SidebarItem {
	var out []SidebarItem
	for _, p := range s.Pins.Default {
		out = append(out, SidebarItem{Name: p.Name, Path: p.Path, Section: SectionDefault})
	}
	for _, p := range s.Pins.Pins {
		out = append(out, SidebarItem{Name: p.Name, Path: p.Path, Section: SectionPinned})
	}
	for _, d := range s.Drives {
		out = append(out, SidebarItem{Name: d, Path: d, Section: SectionDrives})
	}
	return out
}

// MetadataRows returns the metadata fields with the live folder size.
func (s *AppState) MetadataRows() []metadata.Field {
	info := s.Metadata
	if info.Missing {
		return nil
	}
	rows := append([]metadata.Field(nil), info.Fields...)
	if info.IsDir() {
		value := metadata.SizeIdle.Placeholder()
		if s.Size.Path() == info.Path {
			value = s.Size.Display()
		}
		for i := range rows {
			if rows[i].Key == metadata.FieldSize {
				rows[i].Value = value
			}
		}
	}
	return rows
}

func (s *AppState) syncSelectionItems() {
	files := s.DisplayFiles()
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID()
	}
	s.Selection.SetItems(ids)
}

func (s *AppState) listRows() int {
	return ComputeLayout(s.ScreenWidth, s.ScreenHeight).BodyHeight
}

func (s *AppState) ensureCursorVisible() {
	rows := s.listRows()
	if rows <= 0 {
		s.ScrollOffset = 0
		return
	}
	cursor := s.Selection.Cursor()
	if cursor < s.ScrollOffset {
		s.ScrollOffset = cursor
	}
	if cursor >= s.ScrollOffset+rows {
		s.ScrollOffset = cursor - rows + 1
	}
	maxOffset := len(s.DisplayFiles()) - rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.ScrollOffset > maxOffset {
		s.ScrollOffset = maxOffset
	}
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
}
