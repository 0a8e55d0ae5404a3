package fileops

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// ErrTrashUnsupported is returned where no trash location is known.
var ErrTrashUnsupported = errors.New("trash is not supported on this platform")

// MoveToTrash moves path into the user's trash: the freedesktop.org trash
// directory on linux and BSDs, ~/.Trash on macOS.
func MoveToTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	switch runtime.GOOS {
	case "windows", "plan9", "js", "wasip1":
		return ErrTrashUnsupported
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(home, ".Trash")
		return os.Rename(abs, freeName(dir, filepath.Base(abs)))
	}
	return xdgTrash(abs, trashHome())
}

func trashHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "Trash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "Trash")
}

// xdgTrash writes the .trashinfo record first so a crash never leaves an
// untracked file in the trash.
func xdgTrash(abs, trashDir string) error {
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return fmt.Errorf("prepare trash: %w", err)
		}
	}

	name := filepath.Base(freeName(filesDir, filepath.Base(abs)))
	infoPath := filepath.Join(infoDir, name+".trashinfo")
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapeTrashPath(abs), time.Now().Format("2006-01-02T15:04:05"))
	f, err := os.OpenFile(infoPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("write trash info: %w", err)
	}
	if _, err := f.WriteString(info); err != nil {
		_ = f.Close()
		_ = os.Remove(infoPath)
		return fmt.Errorf("write trash info: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("write trash info: %w", err)
	}

	if err := os.Rename(abs, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("move to trash: %w", err)
	}
	return nil
}

func escapeTrashPath(p string) string {
	parts := strings.Split(filepath.ToSlash(p), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// freeName returns a path in dir for base that does not exist yet.
func freeName(dir, base string) string {
	candidate := filepath.Join(dir, base)
	if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
		return candidate
	}
	return uniqueName(candidate)
}
