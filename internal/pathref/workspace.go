package pathref

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrUnknownRoot is returned when a root-relative path names a workspace
	// root that is not registered.
	ErrUnknownRoot = errors.New("unknown workspace root")
	// ErrUnsupported is returned for operations undefined on the virtual root.
	ErrUnsupported = errors.New("unsupported on virtual root")
)

// Root is a named workspace folder.
type Root struct {
	Name string
	Path string
}

// Workspace is the registry of workspace roots. It is read by background
// scans and mutated by host actions, so access is synchronized.
type Workspace struct {
	mu    sync.RWMutex
	roots []Root
}

// NewWorkspace creates a registry seeded with roots.
func NewWorkspace(roots ...Root) *Workspace {
	w := &Workspace{}
	w.Set(roots)
	return w
}

// Roots returns a copy of the registered roots in registration order.
func (w *Workspace) Roots() []Root {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Root, len(w.roots))
	copy(out, w.roots)
	return out
}

// Len returns the number of registered roots.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.roots)
}

// Set replaces all roots.
func (w *Workspace) Set(roots []Root) {
	normalized := make([]Root, 0, len(roots))
	seen := make(map[string]struct{}, len(roots))
	for _, r := range roots {
		root, ok := normalizeRoot(r)
		if !ok {
			continue
		}
		if _, dup := seen[root.Path]; dup {
			continue
		}
		seen[root.Path] = struct{}{}
		normalized = append(normalized, root)
	}

	w.mu.Lock()
	w.roots = normalized
	w.mu.Unlock()
}

// Add appends a folder unless it is already registered.
func (w *Workspace) Add(path string) (Root, bool) {
	root, ok := normalizeRoot(Root{Path: path})
	if !ok {
		return Root{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.roots {
		if existing.Path == root.Path {
			return existing, false
		}
	}
	w.roots = append(w.roots, root)
	return root, true
}

// Replace makes path the only registered root.
func (w *Workspace) Replace(path string) {
	w.Set([]Root{{Path: path}})
}

// Lookup finds a root by display name. The first registered root wins when
// names collide.
func (w *Workspace) Lookup(name string) (Root, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, r := range w.roots {
		if r.Name == name {
			return r, true
		}
	}
	return Root{}, false
}

// Containing returns the most specific root that contains real, together
// with real's path relative to that root ("." for the root itself).
func (w *Workspace) Containing(real string) (Root, string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	cleaned := filepath.Clean(real)
	var best Root
	bestRel := ""
	found := false
	for _, r := range w.roots {
		rel, ok := relativeInside(r.Path, cleaned)
		if !ok {
			continue
		}
		if !found || len(r.Path) > len(best.Path) {
			best, bestRel, found = r, rel, true
		}
	}
	return best, bestRel, found
}

// Resolve translates a root-relative display string ("name/rel") into a real
// path. A trailing separator is preserved.
func (w *Workspace) Resolve(display string) (string, error) {
	name, rest := splitFirstSegment(display)
	root, ok := w.Lookup(name)
	if !ok {
		return "", fmt.Errorf("resolve %q: %w", display, ErrUnknownRoot)
	}

	real := root.Path
	if rest != "" {
		real = filepath.Join(root.Path, filepath.FromSlash(rest))
	}
	if endsWithSeparator(display) {
		real = ensureTrailingSeparator(real)
	}
	return real, nil
}

func normalizeRoot(r Root) (Root, bool) {
	if strings.TrimSpace(r.Path) == "" {
		return Root{}, false
	}
	path := filepath.Clean(r.Path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = filepath.Base(path)
	}
	return Root{Name: name, Path: path}, true
}

func splitFirstSegment(s string) (string, string) {
	idx := strings.IndexFunc(s, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimLeft(s[idx+1:], "/"+separator)
}

// relativeInside reports whether child lies inside (or equals) parent and
// returns the relative path when it does.
func relativeInside(parent, child string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil || filepath.IsAbs(rel) {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+separator) {
		return "", false
	}
	return rel, true
}
