package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/carto/internal/config"
	statepkg "github.com/kk-code-lab/carto/internal/state"
	renderui "github.com/kk-code-lab/carto/internal/ui/render"
)

const (
	doubleClickThreshold = 300 * time.Millisecond
	yankFlash            = 100 * time.Millisecond
	breadcrumbSeparator  = " › "
	headerTitle          = "carto "
)

// Run drives the event loop until the user quits.
func (app *Application) Run() {
	defer app.screen.Fini()

	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var configCh <-chan config.Event
	if app.watcher != nil {
		configCh = app.watcher.Events()
	}

	const animationInterval = 50 * time.Millisecond
	var animationTimer *time.Timer
	var animationCh <-chan time.Time

	startAnimation := func() {
		if animationTimer == nil {
			animationTimer = time.NewTimer(animationInterval)
		} else {
			if !animationTimer.Stop() {
				select {
				case <-animationTimer.C:
				default:
				}
			}
			animationTimer.Reset(animationInterval)
		}
		animationCh = animationTimer.C
	}

	stopAnimation := func() {
		if animationTimer == nil {
			return
		}
		if !animationTimer.Stop() {
			select {
			case <-animationTimer.C:
			default:
			}
		}
		animationCh = nil
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if app.shouldAnimate() {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-animationCh:
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case ev, ok := <-configCh:
			if !ok {
				configCh = nil
				continue
			}
			if app.reloadFile(ev) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	stopAnimation()
}

// reloadFile turns a watcher event into the matching reload action.
func (app *Application) reloadFile(ev config.Event) bool {
	switch {
	case app.pins != nil && ev.Name == filepath.Base(app.pins.Path()):
		p, err := app.pins.Load()
		return app.handleAction(statepkg.PinsLoadedAction{Pins: p, Err: err})
	case app.loader != nil && ev.Name == filepath.Base(app.loader.Path()):
		cfg, err := app.loader.Load()
		if err != nil {
			err = fmt.Errorf("reload %s: %w", ev.Path, err)
		}
		return app.handleAction(statepkg.ConfigReloadedAction{Config: cfg, Err: err})
	}
	return false
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		app.state.Notice = ""
		app.state.LastError = nil
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		app.screen.Sync()
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		app.handleMouse(ev)
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps wheel motion to cursor moves and primary clicks to
// selection and navigation.
func (app *Application) handleMouse(ev *tcell.EventMouse) {
	if app.state.Prompt != nil || app.state.Input != statepkg.InputNone {
		return
	}
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.actionCh <- statepkg.NavigateUpAction{}
		return
	case buttons&tcell.WheelDown != 0:
		app.actionCh <- statepkg.NavigateDownAction{}
		return
	case buttons&tcell.Button1 == 0:
		return
	}

	x, y := ev.Position()
	if y == 0 {
		app.handleBreadcrumbClick(x)
		return
	}

	l := statepkg.ComputeLayout(app.state.ScreenWidth, app.state.ScreenHeight)
	if x < l.ListStart || x >= l.ListStart+l.ListWidth {
		return
	}
	row := y - l.BodyTop
	if row < 0 || row >= l.BodyHeight {
		return
	}
	idx := app.state.ScrollOffset + row
	if idx >= len(app.state.DisplayFiles()) {
		return
	}

	clickKey := fmt.Sprintf("list-%d", idx)
	doubleClick := app.lastClickKey == clickKey && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickKey = clickKey
	app.lastClickTime = time.Now()

	app.actionCh <- statepkg.MouseSelectAction{Index: idx}
	if doubleClick {
		app.actionCh <- statepkg.EnterAction{}
	}
}

// handleBreadcrumbClick jumps to the ancestor under x. Clicks are ignored
// while the breadcrumb is shortened, since columns no longer map to segments.
func (app *Application) handleBreadcrumbClick(x int) {
	pos := runewidth.StringWidth(headerTitle)
	if x < pos {
		return
	}
	segments := renderui.FormatBreadcrumbSegments(app.state.CurrentPath)
	if runewidth.StringWidth(strings.Join(segments, breadcrumbSeparator)) > app.state.ScreenWidth-pos {
		return
	}

	sepW := runewidth.StringWidth(breadcrumbSeparator)
	for i, s := range segments {
		if i > 0 {
			if x < pos+sepW {
				app.jumpToBreadcrumb(segments, i-1)
				return
			}
			pos += sepW
		}
		w := runewidth.StringWidth(s)
		if x < pos+w {
			app.jumpToBreadcrumb(segments, i)
			return
		}
		pos += w
	}
}

func (app *Application) jumpToBreadcrumb(segments []string, idx int) {
	target := breadcrumbPath(segments, idx)
	if target == "" || target == app.state.CurrentPath {
		return
	}
	app.actionCh <- statepkg.GoToPathAction{Path: target}
}

// breadcrumbPath rebuilds the path made of segments[0..idx].
func breadcrumbPath(segments []string, idx int) string {
	if idx < 0 || idx >= len(segments) {
		return ""
	}
	var b strings.Builder
	for i := 0; i <= idx; i++ {
		s := segments[i]
		switch {
		case s == "/":
			b.WriteString("/")
		case i == 0 && strings.HasSuffix(s, ":"):
			b.WriteString(s + "/") // volume name
		default:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "/") {
				b.WriteString("/")
			}
			b.WriteString(s)
		}
	}
	return filepath.FromSlash(b.String())
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) shouldAnimate() bool {
	if app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < yankFlash
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.QuitAndChangeAction:
		app.currentPath = app.state.CurrentPath
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case statepkg.OpenEditorAction:
		return app.handleEditorOpen()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.reportError(action, err)
	}
	return true
}

// reportError surfaces err on the status line and in the log.
func (app *Application) reportError(action statepkg.Action, err error) {
	app.state.LastError = err
	slog.Warn("action failed", slog.String("action", fmt.Sprintf("%T", action)), slog.Any("err", err))
}
