//go:build !windows

package app

import (
	"os"
	"syscall"
)

// contSignals are the signals that mean the shell resumed a stopped carto.
func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}
