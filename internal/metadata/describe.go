// Package metadata describes the highlighted entry and computes directory
// sizes in the background.
package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Field names accepted in the configured field list.
const (
	FieldType        = "type"
	FieldPermissions = "permissions"
	FieldSize        = "size"
	FieldModified    = "modified"
	FieldAccessed    = "accessed"
	FieldCreated     = "created"
)

// DefaultFields is the stock field order.
var DefaultFields = []string{FieldType, FieldPermissions, FieldSize, FieldModified, FieldAccessed, FieldCreated}

// DefaultDateFormat is a strftime-style layout.
const DefaultDateFormat = "%Y-%m-%d %H:%M"

// NotFoundMessage replaces all fields when the entry cannot be stat'ed.
const NotFoundMessage = "Item not found or inaccessible."

// Entry types.
const (
	TypeFile      = "File"
	TypeDirectory = "Directory"
	TypeSymlink   = "Symlink"
	TypeJunction  = "Junction"
	TypeUnknown   = "Unknown"
)

var fieldLabels = map[string]string{
	FieldType:        "Type",
	FieldPermissions: "Permissions",
	FieldSize:        "Size",
	FieldModified:    "Modified",
	FieldAccessed:    "Accessed",
	FieldCreated:     "Created",
}

// IsField reports whether key names a known metadata field.
func IsField(key string) bool {
	_, ok := fieldLabels[key]
	return ok
}

// Field is one labelled row of the metadata panel.
type Field struct {
	Key   string
	Label string
	Value string
}

// Info is the description of one path.
type Info struct {
	Path    string
	Type    string
	Fields  []Field
	Missing bool
}

// IsDir reports whether the described entry is a real directory, the only
// kind the size aggregator runs for.
func (i Info) IsDir() bool {
	return i.Type == TypeDirectory
}

// SetSize replaces the value of the size field, if present.
func (i *Info) SetSize(value string) {
	for n := range i.Fields {
		if i.Fields[n].Key == FieldSize {
			i.Fields[n].Value = value
		}
	}
}

// Describe stats path and renders the requested fields in order. Unknown
// field names are ignored. Directory sizes start as SizeIdle's placeholder.
func Describe(path string, fields []string, dateFormat string) Info {
	info, err := os.Lstat(path)
	if err != nil {
		return Info{Path: path, Missing: true}
	}
	junction := isJunction(info)
	typ := typeOf(info, junction)

	// Times and size come from the link target when there is one.
	target := info
	if real, err := filepath.EvalSymlinks(path); err == nil {
		if st, err := os.Lstat(real); err == nil {
			target = st
		}
	}
	if len(fields) == 0 {
		fields = DefaultFields
	}
	layout := goLayout(dateFormat)
	atime, ctime := statTimes(path)

	out := Info{Path: path, Type: typ}
	for _, key := range fields {
		key = strings.ToLower(strings.TrimSpace(key))
		label, ok := fieldLabels[key]
		if !ok {
			continue
		}
		var value string
		switch key {
		case FieldType:
			value = typ
		case FieldPermissions:
			value = permString(info, junction)
		case FieldSize:
			if typ == TypeFile {
				value = humanize.Bytes(uint64(target.Size()))
			} else {
				value = SizeIdle.Placeholder()
			}
		case FieldModified:
			value = formatTime(target.ModTime(), layout)
		case FieldAccessed:
			value = formatTime(atime, layout)
		case FieldCreated:
			value = formatTime(ctime, layout)
		}
		out.Fields = append(out.Fields, Field{Key: key, Label: label, Value: value})
	}
	return out
}

func typeOf(info os.FileInfo, junction bool) string {
	mode := info.Mode()
	switch {
	case junction:
		return TypeJunction
	case mode&os.ModeSymlink != 0:
		return TypeSymlink
	case mode.IsDir():
		return TypeDirectory
	case mode.IsRegular():
		return TypeFile
	}
	return TypeUnknown
}

// permString renders an ls-style mode string: a type letter followed by the
// nine rwx bits.
func permString(info os.FileInfo, junction bool) string {
	mode := info.Mode()
	var b strings.Builder
	switch {
	case mode&os.ModeSymlink != 0:
		b.WriteByte('l')
	case junction:
		b.WriteByte('j')
	case mode.IsDir():
		b.WriteByte('d')
	default:
		b.WriteByte('-')
	}
	const rwx = "rwxrwxrwx"
	perm := mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			b.WriteByte(rwx[i])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "--"
	}
	return t.Local().Format(layout)
}
