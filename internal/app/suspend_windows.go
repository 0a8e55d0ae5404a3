//go:build windows

package app

// Windows has no job control, so Ctrl+Z leaves the session running.
func (app *Application) suspendToShell() {
	app.state.Notice = "Suspend is not supported on this platform."
}

func (app *Application) resumeAfterStop() bool {
	return false
}
