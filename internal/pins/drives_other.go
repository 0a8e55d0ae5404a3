//go:build !linux && !windows

package pins

import (
	"os"
	"path/filepath"
)

// Drives lists the root and the volumes mounted under /Volumes.
func Drives() []string {
	out := []string{"/"}
	entries, err := os.ReadDir("/Volumes")
	if err != nil {
		return out
	}
	for _, e := range entries {
		p := filepath.Join("/Volumes", e.Name())
		if target, err := filepath.EvalSymlinks(p); err == nil && target == "/" {
			continue
		}
		out = append(out, p)
	}
	return out
}
