//go:build windows

package metadata

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

func statTimes(path string) (atime, ctime time.Time) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, time.Time{}
	}
	return time.Unix(0, data.LastAccessTime.Nanoseconds()), time.Unix(0, data.CreationTime.Nanoseconds())
}

func isJunction(info os.FileInfo) bool {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	return data.FileAttributes&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0 && info.Mode()&os.ModeSymlink == 0
}
