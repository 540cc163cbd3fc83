package state

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kk-code-lab/pathnav/internal/dircache"
	"github.com/kk-code-lab/pathnav/internal/pathref"
	"github.com/kk-code-lab/pathnav/internal/search"
)

// ErrNoSelection is returned when accepting with nothing highlighted.
var ErrNoSelection = errors.New("nothing selected")

// Option customizes a Navigator.
type Option func(*Navigator)

// WithSettings sets the initial settings.
func WithSettings(s Settings) Option {
	return func(n *Navigator) { n.settings = s.normalized() }
}

// WithLogger sets the logger for the navigator and its cache.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithCacheOptions passes extra options to the directory cache.
func WithCacheOptions(opts ...dircache.Option) Option {
	return func(n *Navigator) { n.cacheOpts = append(n.cacheOpts, opts...) }
}

// Navigator is the mode machine behind the picker. It is a single actor:
// every method must be called from the goroutine that reduces actions.
// Background work reports back through the dispatch hook.
type Navigator struct {
	space  *pathref.Space
	cache  *dircache.Cache
	widget Widget
	host   Host

	settings  Settings
	fuzzy     *search.FuzzyFilter
	logger    *zap.Logger
	cacheOpts []dircache.Option

	mode     Mode
	handlers map[Mode]modeHandler
	value    pathref.Path
	visible  bool

	dispatchAction func(Action)
}

// New creates a navigator over space, rendering into widget and delegating
// side effects to host.
func New(space *pathref.Space, widget Widget, host Host, opts ...Option) *Navigator {
	n := &Navigator{
		space:    space,
		widget:   widget,
		host:     host,
		settings: DefaultSettings(),
		logger:   zap.NewNop(),
		mode:     ModeBrowse,
		handlers: map[Mode]modeHandler{
			ModeBrowse: browseMode{},
			ModeAction: actionMode{},
		},
	}
	for _, opt := range opts {
		opt(n)
	}

	n.fuzzy = search.NewFuzzyFilter(n.settings.MatchThreshold)
	cacheOpts := append([]dircache.Option{
		dircache.WithSettings(n.settings.cacheSettings()),
		dircache.WithLogger(n.logger),
		dircache.OnChange(func(dir pathref.Path) {
			n.emit(DirectoryChangedAction{Dir: dir})
		}),
		dircache.OnBusy(func(busy bool) {
			n.emit(ScanStateAction{Busy: busy})
		}),
	}, n.cacheOpts...)
	n.cache = dircache.New(space, cacheOpts...)
	return n
}

// SetDispatch installs the hook background scans use to report back. It
// must be set before the first Show.
func (n *Navigator) SetDispatch(fn func(Action)) {
	n.dispatchAction = fn
}

func (n *Navigator) emit(action Action) {
	if fn := n.dispatchAction; fn != nil {
		fn(action)
	}
}

// Cache exposes the directory cache.
func (n *Navigator) Cache() *dircache.Cache { return n.cache }

// Space exposes the path space.
func (n *Navigator) Space() *pathref.Space { return n.space }

// Mode returns the current mode.
func (n *Navigator) Mode() Mode { return n.mode }

// Value returns the parsed input.
func (n *Navigator) Value() pathref.Path { return n.value }

// Visible reports whether the navigator is shown.
func (n *Navigator) Visible() bool { return n.visible }

// Settings returns the active settings.
func (n *Navigator) Settings() Settings { return n.settings }

// Reduce applies one action.
func (n *Navigator) Reduce(action Action) error {
	switch a := action.(type) {
	case ShowAction:
		n.Show()
	case HideAction:
		n.Hide()
	case SetValueAction:
		n.SetValue(a.Value)
	case AcceptAction:
		return n.Accept()
	case ToggleModeAction:
		n.ToggleMode()
	case GoUpAction:
		n.GoUpOneLevel()
	case SetValueFromSelectedAction:
		n.SetValueFromSelectedItem()
	case DirectoryChangedAction:
		n.directoryChanged(a.Dir)
	case ScanStateAction:
		n.scanStateChanged(a.Busy)
	case ConfigChangedAction:
		if a.Roots != nil {
			n.space.Workspace().Set(a.Roots)
		}
		n.ApplySettings(a.Settings)
	default:
		return fmt.Errorf("unknown action %T", action)
	}
	return nil
}

// Show opens the navigator at the default start location.
func (n *Navigator) Show() {
	n.value = pathref.Path{}
	n.widget.SetValue("")
	n.visible = true
	n.host.SetVisible(true)
	n.widget.Show()
	n.setInput(n.space.DefaultStart())
}

// Hide closes the navigator. Hiding twice is a no-op.
func (n *Navigator) Hide() {
	if !n.visible {
		return
	}
	n.visible = false
	n.widget.Hide()
	n.host.SetVisible(false)
}

// SetValue handles a change of the typed text. Any change returns to
// Browse mode.
func (n *Navigator) SetValue(text string) {
	n.value = n.space.Parse(text)
	n.enter(ModeBrowse)
}

// Accept runs the highlighted item in the current mode.
func (n *Navigator) Accept() error {
	return n.handlers[n.mode].accept(n)
}

// ToggleMode swaps Browse and Action regardless of the input.
func (n *Navigator) ToggleMode() {
	if n.mode == ModeBrowse {
		n.enter(ModeAction)
		return
	}
	n.enter(ModeBrowse)
}

// GoUpOneLevel clears the filter, or moves to the parent directory when
// there is none.
func (n *Navigator) GoUpOneLevel() {
	n.setInput(n.space.UpOneLevel(n.value))
}

// SetValueFromSelectedItem copies the highlighted entry into the input
// without accepting it.
func (n *Navigator) SetValueFromSelectedItem() {
	item, ok := n.widget.ActiveItem()
	if !ok || item.Kind != ItemEntry {
		return
	}
	n.setInput(item.Entry.Path.WithoutTrailingSeparator())
}

// ApplySettings swaps the configuration snapshot and refreshes the view.
func (n *Navigator) ApplySettings(s Settings) {
	n.settings = s.normalized()
	n.fuzzy = search.NewFuzzyFilter(n.settings.MatchThreshold)
	n.cache.Configure(n.settings.cacheSettings())
	n.logger.Debug("navigator: settings applied",
		zap.Int("search_depth", n.settings.SearchDepth),
		zap.Float64("threshold", n.settings.MatchThreshold),
		zap.Duration("debounce", n.settings.ScanDebounce))
	if n.visible {
		n.handlers[n.mode].update(n)
	}
}

// setInput replaces the value and mirrors it into the widget.
func (n *Navigator) setInput(p pathref.Path) {
	n.value = p
	n.widget.SetValue(n.space.DisplayString(p))
	n.enter(ModeBrowse)
}

func (n *Navigator) enter(mode Mode) {
	if n.mode != mode {
		n.logger.Debug("navigator: mode change", zap.Stringer("from", n.mode), zap.Stringer("to", mode))
	}
	n.mode = mode
	n.widget.SetMode(mode)
	n.handlers[mode].update(n)
}

func (n *Navigator) directoryChanged(dir pathref.Path) {
	if n.mode != ModeBrowse || n.value.IsZero() {
		return
	}
	if !n.space.IsSubpathOf(dir, n.value.CurrentDirectory()) {
		return
	}
	n.handlers[ModeBrowse].render(n)
}

func (n *Navigator) scanStateChanged(busy bool) {
	n.widget.SetBusy(busy)
	if !busy && n.mode == ModeBrowse && !n.value.IsZero() {
		n.handlers[ModeBrowse].render(n)
	}
}

// realTarget resolves p for a host call.
func (n *Navigator) realTarget(p pathref.Path) (string, error) {
	real, err := n.space.RealPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(real), nil
}
