package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SumTree returns the total size of the regular files below root. Symlinks
// are never followed or counted. Files that vanish or cannot be stat'ed are
// skipped; a directory that cannot be enumerated fails the whole walk.
//
// The walk is breadth-first and checks ctx after every directory, yielding
// the processor between directories. On cancellation it returns the partial
// sum together with ctx.Err().
func SumTree(ctx context.Context, root string) (int64, error) {
	var total int64
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		dirents, err := os.ReadDir(dir)
		if err != nil {
			return total, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, de := range dirents {
			t := de.Type()
			switch {
			case t&os.ModeSymlink != 0:
				continue
			case de.IsDir():
				queue = append(queue, filepath.Join(dir, de.Name()))
			case t.IsRegular():
				info, err := de.Info()
				if err != nil {
					continue
				}
				total += info.Size()
			}
		}

		if err := ctx.Err(); err != nil {
			return total, err
		}
		runtime.Gosched()
	}
	return total, nil
}
