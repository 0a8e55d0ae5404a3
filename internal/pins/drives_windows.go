//go:build windows

package pins

import "golang.org/x/sys/windows"

// Drives lists the logical drive roots, with forward slashes.
func Drives() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil || mask == 0 {
		return homeOnly()
	}
	var out []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, string(rune('A'+i))+":/")
		}
	}
	return out
}
