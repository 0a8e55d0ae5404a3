package clipboard

import (
	"fmt"
	"strings"

	sysclip "github.com/atotto/clipboard"
)

// writeAll is swapped in tests.
var writeAll = sysclip.WriteAll

// YankPaths puts paths on the system clipboard, one per line.
func YankPaths(paths []string) error {
	if len(paths) == 0 {
		return ErrNothingSelected
	}
	if sysclip.Unsupported {
		return fmt.Errorf("yank paths: no system clipboard available")
	}
	if err := writeAll(strings.Join(paths, "\n")); err != nil {
		return fmt.Errorf("yank paths: %w", err)
	}
	return nil
}
