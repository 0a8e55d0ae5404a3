//go:build windows

package fs

// IsHidden reports entries carrying the hidden attribute. Dot-files count
// as hidden when the attributes cannot be read.
func IsHidden(fullPath string, name string) bool {
	attrs, err := getFileAttributes(fullPath, name)
	if err != nil {
		return len(name) > 0 && name[0] == '.'
	}
	return attrs&fileAttributeHidden != 0
}
