package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/kballard/go-shellquote"

	statepkg "github.com/kk-code-lab/carto/internal/state"
)

var errNoEditor = errors.New("no editor configured; set editor.command or $EDITOR")

func (app *Application) handleEditorOpen() bool {
	entry, ok := app.state.CurrentEntry()
	if !ok || entry.IsSentinel() || entry.IsDir() {
		return false
	}
	if err := app.openFileInEditor(entry.FullPath); err != nil {
		app.reportError(statepkg.OpenEditorAction{}, err)
	}
	// The file may have been changed or removed by the editor.
	return app.handleAction(statepkg.ReloadAction{})
}

// editorArgs splits the configured command and appends filePath.
func editorArgs(command, filePath string) ([]string, error) {
	if command == "" {
		return nil, errNoEditor
	}
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("editor command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, errNoEditor
	}
	return append(args, filePath), nil
}

// openFileInEditor hands the terminal to the editor and takes it back when
// the editor exits.
func (app *Application) openFileInEditor(filePath string) error {
	args, err := editorArgs(app.state.EditorCommand, filePath)
	if err != nil {
		return err
	}
	slog.Debug("opening editor", slog.Any("args", args))

	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(args)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := exec.Command(args[0], args[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("editor %s: %w", args[0], runErr)
	}
	return nil
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
