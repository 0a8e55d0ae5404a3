//go:build !windows

package app

import (
	"log/slog"
	"syscall"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/carto/internal/state"
)

func (app *Application) suspendToShell() {
	// Return terminal control to the shell before stopping the process.
	_ = app.screen.Suspend()
	// Signal only this process. The process group may hold the shell
	// function that started carto, and stopping it breaks `fg`.
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTSTP); err != nil {
		slog.Warn("suspend failed", slog.Any("err", err))
	}
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	// Mouse reporting is reset by the shell.
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		if _, err := app.reducer.Reduce(app.state, statepkg.ResizeAction{Width: w, Height: h}); err != nil {
			app.state.LastError = err
		}
	}
	return true
}
