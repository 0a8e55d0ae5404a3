package fs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kk-code-lab/carto/internal/ident"
)

// Kind classifies a listing row.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	// KindPermissionError stands in for a directory that could not be read.
	KindPermissionError
	// KindEmpty stands in for a directory with nothing to show.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindPermissionError:
		return "permission-error"
	case KindEmpty:
		return "empty"
	default:
		return "file"
	}
}

const (
	PermissionErrorLabel = "Permission Error: Unable to access this directory."
	EmptyLabel           = "--no-files--"
)

// Entry is one row of a directory listing. Listings are rebuilt on every
// load, entries are never mutated afterwards.
type Entry struct {
	Name      string
	FullPath  string
	Kind      Kind
	IsSymlink bool
	Size      int64
	SizeKnown bool
	Modified  time.Time
	Mode      os.FileMode
}

// IsDir reports whether the entry is a (possibly symlinked) directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// IsSentinel reports whether the entry is a synthetic placeholder row.
func (e Entry) IsSentinel() bool {
	return e.Kind == KindPermissionError || e.Kind == KindEmpty
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	if e.IsSentinel() {
		return false
	}
	return IsHidden(e.FullPath, e.Name)
}

// ID returns the stable identifier for the entry, derived from the on-disk
// name rather than the normalized display Name. Sentinels have none.
func (e Entry) ID() string {
	if e.IsSentinel() {
		return ""
	}
	return ident.Encode(filepath.Base(e.FullPath))
}

func permissionErrorEntry(dir string) Entry {
	return Entry{Name: PermissionErrorLabel, FullPath: dir, Kind: KindPermissionError}
}

func emptyEntry(dir string) Entry {
	return Entry{Name: EmptyLabel, FullPath: dir, Kind: KindEmpty}
}
