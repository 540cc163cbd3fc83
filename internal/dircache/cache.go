// Package dircache keeps change-deduplicated listings of the directories the
// navigator looks at and refreshes them with debounced, depth-limited
// background scans.
package dircache

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/kk-code-lab/pathnav/internal/ignore"
	"github.com/kk-code-lab/pathnav/internal/pathref"
)

// DefaultDebounce is the minimum time between two real listings of the same
// directory.
const DefaultDebounce = time.Second

// Settings is the immutable configuration a scan runs with.
type Settings struct {
	Debounce time.Duration
	Ignore   *ignore.Rules
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{Debounce: DefaultDebounce, Ignore: ignore.Default()}
}

// Option customizes a Cache.
type Option func(*Cache)

// OnChange registers the callback fired after a snapshot was replaced. It
// runs on a scan goroutine.
func OnChange(fn func(dir pathref.Path)) Option {
	return func(c *Cache) { c.onChange = fn }
}

// OnBusy registers the callback fired when the first scan starts (true) and
// when the last one finishes (false). It must not call back into the cache.
func OnBusy(fn func(busy bool)) Option {
	return func(c *Cache) { c.onBusy = fn }
}

// WithLogger sets the logger for scan diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSettings sets the initial settings.
func WithSettings(s Settings) Option {
	return func(c *Cache) { c.settings = s }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Cache maps directories to their last committed Snapshot. All writes go
// through set, which compares entry identities before replacing anything.
type Cache struct {
	space *pathref.Space

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	scannedAt map[string]time.Time
	settings  Settings

	flights singleflight.Group

	busyMu sync.Mutex
	busy   int
	wg     sync.WaitGroup

	onChange func(pathref.Path)
	onBusy   func(bool)
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an empty cache listing directories through space.
func New(space *pathref.Space, opts ...Option) *Cache {
	c := &Cache{
		space:     space,
		snapshots: make(map[string]*Snapshot),
		scannedAt: make(map[string]time.Time),
		settings:  DefaultSettings(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure swaps the settings used by scans started afterwards.
func (c *Cache) Configure(s Settings) {
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
}

// Settings returns the current settings.
func (c *Cache) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Has reports whether dir has a snapshot.
func (c *Cache) Has(dir pathref.Path) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.snapshots[cacheKey(dir)]
	return ok
}

// Get returns the snapshot for dir.
func (c *Cache) Get(dir pathref.Path) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[cacheKey(dir)]
	if !ok {
		return Snapshot{}, false
	}
	return *snap, true
}

// Busy reports whether any scan is in flight.
func (c *Cache) Busy() bool {
	c.busyMu.Lock()
	defer c.busyMu.Unlock()
	return c.busy > 0
}

// Wait blocks until every scan started so far has finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Update rescans dir in the background, descending depth levels. Later
// requests supplement earlier ones: nothing is cancelled, and the debounce
// window keeps overlapping requests from listing the same directory twice.
func (c *Cache) Update(dir pathref.Path, depth int) {
	if depth < 1 {
		depth = 1
	}
	dir = dir.WithTrailingSeparator()
	settings := c.Settings()

	c.begin()
	go func() {
		defer c.end()
		c.scan(dir, depth, settings)
	}()
}

func (c *Cache) scan(dir pathref.Path, depth int, settings Settings) {
	key := cacheKey(dir)
	_, _, _ = c.flights.Do(key, func() (any, error) {
		if c.recentlyScanned(key, settings.Debounce) {
			return nil, nil
		}
		c.list(dir)
		return nil, nil
	})

	if depth <= 1 {
		return
	}
	snap, ok := c.Get(dir)
	if !ok {
		return
	}
	for _, e := range snap.Entries {
		if !e.IsDir() || settings.Ignore.Match(e.Label, true) {
			continue
		}
		child := e.Path.WithTrailingSeparator()
		c.begin()
		go func() {
			defer c.end()
			c.scan(child, depth-1, settings)
		}()
	}
}

// list reads dir and commits the result. Failures commit an empty listing
// for dir alone.
func (c *Cache) list(dir pathref.Path) {
	started := c.now()
	c.mu.Lock()
	c.scannedAt[cacheKey(dir)] = started
	c.mu.Unlock()

	children, err := c.space.ListDirectory(dir)
	if err != nil {
		c.logger.Debug("dircache: scan failed", zap.String("dir", dir.String()), zap.Error(err))
		children = nil
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		label, err := c.space.RelativeTo(child, dir)
		if err != nil {
			label = child.Base()
		}
		entries = append(entries, Entry{Path: child, Label: norm.NFC.String(label)})
	}
	c.set(dir, entries, started)
}

// set commits entries for dir and fires OnChange only when the identity set
// differs from the committed one.
func (c *Cache) set(dir pathref.Path, entries []Entry, at time.Time) bool {
	ids := make(map[uint64]struct{}, len(entries))
	for _, e := range entries {
		ids[e.identity()] = struct{}{}
	}
	key := cacheKey(dir)

	c.mu.Lock()
	if prev, ok := c.snapshots[key]; ok && prev.sameContent(ids) {
		c.mu.Unlock()
		return false
	}
	c.snapshots[key] = &Snapshot{Dir: dir, Entries: entries, ScannedAt: at, ids: ids}
	c.mu.Unlock()

	c.logger.Debug("dircache: snapshot replaced", zap.String("dir", dir.String()), zap.Int("entries", len(entries)))
	if c.onChange != nil {
		c.onChange(dir)
	}
	return true
}

func (c *Cache) recentlyScanned(key string, window time.Duration) bool {
	if window <= 0 {
		return false
	}
	c.mu.RLock()
	last, ok := c.scannedAt[key]
	c.mu.RUnlock()
	return ok && c.now().Sub(last) < window
}

// FileList flattens cached snapshots below dir without touching the
// filesystem. Labels are relative to dir; subdirectories matched by the
// ignore rules are listed but not expanded.
func (c *Cache) FileList(dir pathref.Path, depth int) []Entry {
	dir = dir.WithTrailingSeparator()
	ignoreRules := c.Settings().Ignore

	var out []Entry
	c.flatten(dir, dir, depth, ignoreRules, &out)
	return out
}

func (c *Cache) flatten(base, dir pathref.Path, depth int, rules *ignore.Rules, out *[]Entry) {
	if depth < 1 {
		return
	}
	snap, ok := c.Get(dir)
	if !ok {
		return
	}
	for _, e := range snap.Entries {
		local := e.Label
		if !dir.Equal(base) {
			if label, err := c.space.RelativeTo(e.Path, base); err == nil {
				e.Label = norm.NFC.String(label)
			}
		}
		*out = append(*out, e)
		if depth > 1 && e.IsDir() && !rules.Match(local, true) {
			c.flatten(base, e.Path.WithTrailingSeparator(), depth-1, rules, out)
		}
	}
}

func (c *Cache) begin() {
	c.busyMu.Lock()
	defer c.busyMu.Unlock()
	c.wg.Add(1)
	c.busy++
	if c.busy == 1 && c.onBusy != nil {
		c.onBusy(true)
	}
}

func (c *Cache) end() {
	c.busyMu.Lock()
	defer c.busyMu.Unlock()
	c.busy--
	if c.busy == 0 && c.onBusy != nil {
		c.onBusy(false)
	}
	c.wg.Done()
}

func cacheKey(dir pathref.Path) string {
	return dir.WithTrailingSeparator().Key()
}
