package fs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SortBy selects the key a listing is ordered by.
type SortBy int

const (
	SortByName SortBy = iota
	SortBySize
)

func (s SortBy) String() string {
	if s == SortBySize {
		return "size"
	}
	return "name"
}

// ParseSortBy maps a config value to a SortBy. Unknown values sort by name.
func ParseSortBy(v string) SortBy {
	if strings.EqualFold(strings.TrimSpace(v), "size") {
		return SortBySize
	}
	return SortByName
}

// SortOrder is the direction of a listing.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseSortOrder maps a config value to a SortOrder.
func ParseSortOrder(v string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "descending", "desc":
		return Descending
	}
	return Ascending
}

// ListOptions controls a single List call.
type ListOptions struct {
	SortBy     SortBy
	Order      SortOrder
	ShowHidden bool
}

// List reads dir once and returns its entries with folders and files sorted
// independently. Ascending listings put folders first; descending listings
// put files first, each partition keeping its own reversed order.
//
// Read failures never surface as errors: an unreadable directory yields a
// single KindPermissionError entry and an empty one a single KindEmpty entry.
// Sorting by size walks every subdirectory synchronously.
func List(dir string, opts ListOptions) []Entry {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		slog.Debug("list directory", "path", dir, "err", err)
		return []Entry{permissionErrorEntry(dir)}
	}

	var folders, files []Entry
	for _, de := range dirents {
		raw := de.Name()
		full := filepath.Join(dir, raw)
		if ShouldHideFromListing(full, raw) {
			continue
		}
		if !opts.ShowHidden && IsHidden(full, raw) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}

		entry := Entry{
			Name:      norm.NFC.String(raw),
			FullPath:  full,
			Kind:      KindFile,
			IsSymlink: info.Mode()&os.ModeSymlink != 0,
			Size:      info.Size(),
			SizeKnown: !info.IsDir(),
			Modified:  info.ModTime(),
			Mode:      info.Mode(),
		}
		isDir := de.IsDir()
		if entry.IsSymlink {
			if target, err := os.Stat(full); err == nil {
				isDir = target.IsDir()
				if !isDir {
					entry.Size = target.Size()
				}
			}
		}
		if isDir {
			entry.Kind = KindDirectory
			entry.SizeKnown = false
			folders = append(folders, entry)
		} else {
			files = append(files, entry)
		}
	}

	if len(folders) == 0 && len(files) == 0 {
		return []Entry{emptyEntry(dir)}
	}

	if opts.SortBy == SortBySize {
		for i := range folders {
			size, _ := SumTree(context.Background(), folders[i].FullPath)
			folders[i].Size = size
			folders[i].SizeKnown = true
		}
	}

	less := lessFunc(opts.SortBy)
	sortPartition(folders, less, opts.Order)
	sortPartition(files, less, opts.Order)

	out := make([]Entry, 0, len(folders)+len(files))
	if opts.Order == Descending {
		out = append(out, files...)
		return append(out, folders...)
	}
	out = append(out, folders...)
	return append(out, files...)
}

func lessFunc(by SortBy) func(a, b Entry) bool {
	if by == SortBySize {
		return func(a, b Entry) bool { return a.Size < b.Size }
	}
	return func(a, b Entry) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
}

func sortPartition(entries []Entry, less func(a, b Entry) bool, order SortOrder) {
	sort.SliceStable(entries, func(i, j int) bool {
		if order == Descending {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}
