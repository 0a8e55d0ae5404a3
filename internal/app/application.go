package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sysclip "github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/carto/internal/config"
	"github.com/kk-code-lab/carto/internal/pins"
	statepkg "github.com/kk-code-lab/carto/internal/state"
	inputui "github.com/kk-code-lab/carto/internal/ui/input"
	renderui "github.com/kk-code-lab/carto/internal/ui/render"
)

// Options configure a new Application.
type Options struct {
	// Cwd is the starting directory; empty means the process working directory.
	Cwd string
	// ConfigPath is the config.toml in use. Changes to it and to the pins
	// file next to it are picked up while running.
	ConfigPath string
	Config     config.Config
	// ConfigErr is a load error to show once the UI is up.
	ConfigErr error
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	state    *statepkg.AppState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan statepkg.Action

	loader  *config.Loader
	pins    *pins.Store
	watcher *config.Watcher

	shouldQuit  bool
	currentPath string

	lastClickKey  string
	lastClickTime time.Time
}

// NewApplication opens the terminal and loads the starting directory.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	app, err := newApplication(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	app.watchConfig()
	return app, nil
}

// newApplication wires an already initialised screen.
func newApplication(screen tcell.Screen, opts Options) (*Application, error) {
	cwd := opts.Cwd
	if cwd == "" {
		var err error
		if cwd, err = GetCwd(); err != nil {
			return nil, err
		}
	}
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, err
	}

	state := statepkg.NewAppState(cwd, opts.Config)
	state.ClipboardAvailable = !sysclip.Unsupported
	state.ScreenWidth, state.ScreenHeight = screen.Size()

	actionCh := make(chan statepkg.Action, 64)
	dispatch := func(action statepkg.Action) {
		select {
		case actionCh <- action:
		default:
			go func() { actionCh <- action }()
		}
	}

	app := &Application{
		screen:   screen,
		state:    state,
		renderer: renderui.NewRenderer(screen),
		input:    inputui.NewInputHandler(actionCh),
		actionCh: actionCh,
	}
	if opts.ConfigPath != "" {
		app.loader = config.NewLoader(opts.ConfigPath)
		store, err := pins.NewStore(filepath.Dir(opts.ConfigPath), pins.UserVars(filepath.Dir(opts.ConfigPath)))
		if err != nil {
			slog.Warn("pins unavailable", slog.Any("err", err))
		} else {
			app.pins = store
		}
	}

	app.reducer = statepkg.NewStateReducer(statepkg.Options{Config: opts.Config, Pins: app.pins}, dispatch)
	if err := app.reducer.Init(state); err != nil {
		app.reducer.Shutdown(state)
		return nil, fmt.Errorf("open %s: %w", cwd, err)
	}
	app.input.SetState(state)
	if opts.ConfigErr != nil {
		state.LastError = opts.ConfigErr
	}
	slog.Info("session started", slog.String("cwd", cwd), slog.Bool("clipboard", state.ClipboardAvailable))
	return app, nil
}

// watchConfig follows edits to config.toml and pins.json. Failing to watch
// only costs live reload.
func (app *Application) watchConfig() {
	if app.loader == nil {
		return
	}
	names := []string{filepath.Base(app.loader.Path())}
	if app.pins != nil {
		names = append(names, filepath.Base(app.pins.Path()))
	}
	w, err := config.Watch(filepath.Dir(app.loader.Path()), config.DefaultReloadDelay, names...)
	if err != nil {
		slog.Warn("config watch disabled", slog.Any("err", err))
		return
	}
	app.watcher = w
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.reducer.Shutdown(app.state)
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	app.screen.Fini()
	return err
}

// GetCurrentPath returns the directory to hand to the shell on exit, or ""
// when the user quit without asking to change directory.
func (app *Application) GetCurrentPath() string {
	return app.currentPath
}

// GetCwd returns current working directory.
func GetCwd() (string, error) {
	return os.Getwd()
}
