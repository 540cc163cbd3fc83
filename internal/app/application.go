package app

import (
	"path/filepath"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kk-code-lab/pathnav/internal/config"
	fsutil "github.com/kk-code-lab/pathnav/internal/fs"
	"github.com/kk-code-lab/pathnav/internal/pathref"
	statepkg "github.com/kk-code-lab/pathnav/internal/state"
	inputui "github.com/kk-code-lab/pathnav/internal/ui/input"
	"github.com/kk-code-lab/pathnav/internal/ui/picker"
	renderui "github.com/kk-code-lab/pathnav/internal/ui/render"
)

// Options configures a new Application.
type Options struct {
	Config *config.Config
	// ConfigPath is watched for changes when non-empty.
	ConfigPath string
	// Roots are added to the configured workspace roots.
	Roots []string
	// Document is the file whose directory the navigator starts in.
	Document string
	Logger   *zap.Logger
	// LogLevel is adjusted when the configuration is reloaded.
	LogLevel *zap.AtomicLevel
}

// Application represents the running app.
type Application struct {
	screen    tcell.Screen
	navigator *statepkg.Navigator
	picker    *picker.Model
	renderer  *renderui.Renderer
	input     *inputui.InputHandler
	host      *terminalHost
	actionCh  chan statepkg.Action
	logger    *zap.Logger
	logLevel  *zap.AtomicLevel

	configPath string
	cliRoots   []pathref.Root
	roots      []pathref.Root // last configured roots, without cliRoots

	// overflow holds dispatched actions, in order, while actionCh is full.
	overflowMu sync.Mutex
	overflow   []statepkg.Action
	draining   bool

	lastErr    error
	fatalErr   error
	tick       int
	shouldQuit bool
	resultDir  string
}

// NewApplication opens the terminal and builds the navigator.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	app, err := newApplication(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(screen tcell.Screen, opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := &Application{
		screen:     screen,
		picker:     picker.New(),
		renderer:   renderui.NewRenderer(screen),
		actionCh:   make(chan statepkg.Action, 64),
		logger:     logger,
		logLevel:   opts.LogLevel,
		configPath: opts.ConfigPath,
		roots:      cfg.Roots(),
	}
	for _, root := range opts.Roots {
		app.cliRoots = append(app.cliRoots, pathref.Root{Path: root})
	}

	workspace := pathref.NewWorkspace(app.workspaceRoots(app.roots)...)
	space := pathref.NewSpace(fsutil.OS{}, workspace,
		pathref.WithEnvironment(newTerminalEnvironment(opts.Document)),
	)

	app.host = newTerminalHost(app, workspace, cfg.Host)
	app.navigator = statepkg.New(space, app.picker, app.host,
		statepkg.WithSettings(cfg.NavigatorSettings()),
		statepkg.WithLogger(logger),
	)
	app.navigator.SetDispatch(app.dispatch)

	app.input = inputui.NewInputHandler(app.actionCh)
	app.input.SetModel(app.picker)
	return app, nil
}

func (app *Application) workspaceRoots(configured []pathref.Root) []pathref.Root {
	roots := make([]pathref.Root, 0, len(configured)+len(app.cliRoots))
	roots = append(roots, configured...)
	return append(roots, app.cliRoots...)
}

// dispatch is the navigator's hook for background work. It never blocks
// the caller, and actions reach the loop in dispatch order.
func (app *Application) dispatch(action statepkg.Action) {
	app.overflowMu.Lock()
	defer app.overflowMu.Unlock()
	if !app.draining {
		select {
		case app.actionCh <- action:
			return
		default:
		}
		app.draining = true
		go app.drainOverflow()
	}
	app.overflow = append(app.overflow, action)
}

// drainOverflow feeds queued actions to the loop one at a time.
func (app *Application) drainOverflow() {
	app.overflowMu.Lock()
	for len(app.overflow) > 0 {
		next := app.overflow[0]
		app.overflowMu.Unlock()
		app.actionCh <- next
		app.overflowMu.Lock()
		app.overflow[0] = nil
		app.overflow = app.overflow[1:]
	}
	app.overflow = nil
	app.draining = false
	app.overflowMu.Unlock()
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.navigator.Cache().Wait()
	app.screen.Fini()
	return app.logger.Sync()
}

// ResultDir returns the folder chosen with "Open folder", or "".
func (app *Application) ResultDir() string {
	if app.resultDir == "" {
		return ""
	}
	return filepath.Clean(app.resultDir)
}
