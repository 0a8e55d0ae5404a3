package state

import (
	"github.com/kk-code-lab/carto/internal/ident"
)

// Sidebar sections, in display order.
type Section int

const (
	SectionDefault Section = iota
	SectionPinned
	SectionDrives
)

// Suffix returns the element id suffix for the section.
func (s Section) Suffix() string {
	switch s {
	case SectionPinned:
		return ident.SuffixPinned
	case SectionDrives:
		return ident.SuffixDrives
	}
	return ident.SuffixDefault
}

// Title is the heading drawn above the section.
func (s Section) Title() string {
	switch s {
	case SectionPinned:
		return "Pinned"
	case SectionDrives:
		return "Drives"
	}
	return "Places"
}

// SidebarItem is one row of the sidebar.
type SidebarItem struct {
	Name    string
	Path    string
	Section Section
}

// ID is the element id of the row; the same path may appear in several
// sections with distinct ids.
func (i SidebarItem) ID() string {
	return ident.WithSuffix(i.Path, i.Section.Suffix())
}
