package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"reflect"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kk-code-lab/pathnav/internal/config"
	statepkg "github.com/kk-code-lab/pathnav/internal/state"
	inputui "github.com/kk-code-lab/pathnav/internal/ui/input"
	renderui "github.com/kk-code-lab/pathnav/internal/ui/render"
)

const spinnerInterval = 80 * time.Millisecond

// configReloadedAction carries a freshly loaded configuration into the loop.
type configReloadedAction struct {
	cfg *config.Config
}

// Run shows the navigator and processes events until it is hidden or ctx
// is cancelled. The configuration watcher runs alongside the loop.
func (app *Application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	if app.configPath != "" {
		g.Go(func() error {
			err := config.Watch(loopCtx, app.configPath, app.logger, func(cfg *config.Config) {
				app.dispatch(configReloadedAction{cfg: cfg})
			})
			if err != nil {
				// Reload is optional; the picker keeps running without it.
				app.logger.Warn("app: config watcher unavailable", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		defer stopLoop()
		return app.loop(loopCtx)
	})

	return g.Wait()
}

func (app *Application) loop(ctx context.Context) error {
	app.handleAction(statepkg.ShowAction{})
	app.processActions()
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var animationTicker *time.Ticker
	var animationCh <-chan time.Time
	startAnimation := func() {
		if animationTicker == nil {
			animationTicker = time.NewTicker(spinnerInterval)
			animationCh = animationTicker.C
		}
	}
	stopAnimation := func() {
		if animationTicker == nil {
			return
		}
		animationTicker.Stop()
		animationTicker = nil
		animationCh = nil
	}
	defer stopAnimation()

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		if app.picker.Busy() {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-animationCh:
			app.tick++
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
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
	return app.fatalErr
}

func (app *Application) render() {
	app.renderer.Render(renderui.Frame{Picker: app.picker, Err: app.lastErr, Tick: app.tick})
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		app.lastErr = nil
		app.input.ProcessEvent(ev)
		return true
	case *tcell.EventResize:
		app.screen.Sync()
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

func (app *Application) processActions() bool {
	changed := false
	for !app.shouldQuit {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
	return changed
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}
	if app.picker.Apply(action) {
		return true
	}

	switch a := action.(type) {
	case inputui.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case configReloadedAction:
		action = app.applyConfig(a.cfg)
	case statepkg.SetValueAction:
		app.picker.SetValue(a.Value)
	}

	if err := app.navigator.Reduce(action); err != nil {
		app.recordError(err)
	}
	return true
}

func (app *Application) recordError(err error) {
	if errors.Is(err, statepkg.ErrNoSelection) {
		return
	}
	app.logger.Warn("app: action failed", zap.Error(err))
	app.lastErr = err
	if app.shouldQuit {
		// The picker is gone; report the failure on exit instead.
		app.fatalErr = err
	}
}

// applyConfig updates the host and returns the navigator's view of cfg.
// Roots are only replaced when the configured list changed, so folders
// added during the session survive unrelated edits.
func (app *Application) applyConfig(cfg *config.Config) statepkg.Action {
	if app.logLevel != nil {
		app.logLevel.SetLevel(cfg.Log.ZapLevel())
	}
	if err := app.host.configure(cfg.Host); err != nil {
		app.lastErr = err
	}

	changed := statepkg.ConfigChangedAction{Settings: cfg.NavigatorSettings()}
	if roots := cfg.Roots(); !reflect.DeepEqual(roots, app.roots) {
		app.roots = roots
		changed.Roots = app.workspaceRoots(roots)
	}
	return changed
}
