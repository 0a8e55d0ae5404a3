//go:build !linux && !darwin && !windows

package metadata

import (
	"os"
	"time"
)

func statTimes(path string) (atime, ctime time.Time) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	return info.ModTime(), info.ModTime()
}

func isJunction(os.FileInfo) bool {
	return false
}
