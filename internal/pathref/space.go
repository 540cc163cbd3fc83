package pathref

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fsutil "github.com/kk-code-lab/pathnav/internal/fs"
)

// Environment answers where the user currently "is" outside the navigator.
type Environment interface {
	ActiveDocumentDirectory() (string, bool)
	ActiveTerminalDirectory() (string, bool)
}

// Space binds paths to a filesystem, the workspace roots and the host
// environment. Operations that need any of them live here rather than on
// Path.
type Space struct {
	fs        fsutil.FileSystem
	workspace *Workspace
	env       Environment
	getwd     func() (string, error)
	home      func() (string, error)
}

// SpaceOption customizes a Space.
type SpaceOption func(*Space)

// WithEnvironment sets the host environment used by DefaultStart.
func WithEnvironment(env Environment) SpaceOption {
	return func(s *Space) { s.env = env }
}

// WithWorkingDirectory overrides the process working directory lookup.
func WithWorkingDirectory(getwd func() (string, error)) SpaceOption {
	return func(s *Space) { s.getwd = getwd }
}

// WithHomeDirectory overrides the lookup used to expand "~".
func WithHomeDirectory(home func() (string, error)) SpaceOption {
	return func(s *Space) { s.home = home }
}

// NewSpace creates a Space. A nil workspace is treated as empty.
func NewSpace(fs fsutil.FileSystem, workspace *Workspace, opts ...SpaceOption) *Space {
	if fs == nil {
		fs = fsutil.OS{}
	}
	if workspace == nil {
		workspace = NewWorkspace()
	}
	s := &Space{
		fs:        fs,
		workspace: workspace,
		getwd:     os.Getwd,
		home:      os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Workspace returns the root registry.
func (s *Space) Workspace() *Workspace {
	return s.workspace
}

// Parse interprets user-typed text. Root-relative input ("name/rel") resolves
// through the workspace; an unknown root name falls back to a literal path
// relative to the working directory.
func (s *Space) Parse(text string) Path {
	if text == "" {
		return Path{}
	}

	if strings.HasPrefix(text, VirtualRootPrefix) {
		rest := strings.TrimPrefix(text, VirtualRootPrefix)
		if !strings.ContainsAny(rest, "/"+separator) {
			return virtualWithFilter(rest)
		}
		if real, err := s.workspace.Resolve(rest); err == nil {
			return Real(real)
		}
		return virtualWithFilter(rest)
	}

	text = s.expandHome(text)
	if filepath.IsAbs(text) {
		return Real(text)
	}
	if real, err := s.workspace.Resolve(text); err == nil {
		return Real(real)
	}

	base := s.workingDirectory()
	joined := filepath.Join(base, text)
	if endsWithSeparator(text) {
		joined = ensureTrailingSeparator(joined)
	}
	return Real(joined)
}

// ToRealPath translates a display string strictly. Unlike Parse it fails with
// ErrUnknownRoot when a relative string does not start with a registered
// root name.
func (s *Space) ToRealPath(text string) (string, error) {
	text = strings.TrimPrefix(text, VirtualRootPrefix)
	text = s.expandHome(text)
	if filepath.IsAbs(text) {
		return Real(text).String(), nil
	}
	return s.workspace.Resolve(text)
}

// RealPath returns the filesystem path for p. The virtual namespace has no
// real counterpart.
func (s *Space) RealPath(p Path) (string, error) {
	if p.IsZero() {
		return "", errors.New("empty path")
	}
	if p.IsVirtual() {
		return "", fmt.Errorf("real path of %s: %w", p, ErrUnsupported)
	}
	return p.raw, nil
}

// DisplayString renders p for the input line: real paths inside a
// registered root become "name/rel", everything else is shown as is.
func (s *Space) DisplayString(p Path) string {
	if p.IsZero() || p.IsVirtual() {
		return p.raw
	}
	root, rel, ok := s.workspace.Containing(p.raw)
	if !ok {
		return p.raw
	}
	out := root.Name
	if rel != "." {
		out += separator + rel
	}
	if p.HasTrailingSeparator() {
		out += separator
	}
	return out
}

// Parent returns the directory above p, always in directory form. The
// virtual root's parent is the default start location.
func (s *Space) Parent(p Path) Path {
	switch {
	case p.IsVirtualRoot():
		return s.DefaultStart()
	case p.IsVirtual():
		return VirtualRoot()
	case p.IsZero():
		return p
	}
	parent := filepath.Dir(p.clean())
	return Path{raw: ensureTrailingSeparator(parent), typ: fsutil.TypeDirectory}
}

// UpOneLevel clears the filter, or moves to the parent when there is none.
func (s *Space) UpOneLevel(p Path) Path {
	if p.CurrentFilter() == "" {
		return s.Parent(p)
	}
	return p.CurrentDirectory()
}

// Resolve returns p with its file type attached, stat-ing at most once.
func (s *Space) Resolve(p Path) (Path, error) {
	if p.IsVirtualRoot() || p.Type().Known() {
		return p, nil
	}
	if p.IsVirtual() {
		return p, fmt.Errorf("stat %s: %w", p, os.ErrNotExist)
	}
	if p.IsZero() {
		return p, fmt.Errorf("stat empty path: %w", os.ErrNotExist)
	}
	typ, err := s.fs.Stat(p.clean())
	if err != nil {
		return p, err
	}
	return p.WithType(typ), nil
}

// Exists reports whether p names something on disk or the virtual root.
func (s *Space) Exists(p Path) bool {
	_, err := s.Resolve(p)
	return err == nil
}

// IsDirectory reports whether p is a directory. The virtual root always is.
func (s *Space) IsDirectory(p Path) bool {
	resolved, err := s.Resolve(p)
	if err != nil {
		return false
	}
	return resolved.IsVirtualRoot() || resolved.Type().IsDir()
}

// ListDirectory returns the typed children of dir. For the virtual root the
// children are the registered workspace roots.
func (s *Space) ListDirectory(dir Path) ([]Path, error) {
	if dir.IsVirtualRoot() {
		roots := s.workspace.Roots()
		out := make([]Path, 0, len(roots))
		for _, r := range roots {
			out = append(out, Path{raw: ensureTrailingSeparator(r.Path), typ: fsutil.TypeDirectory})
		}
		return out, nil
	}
	if dir.IsVirtual() {
		return nil, fmt.Errorf("list %s: %w", dir, fsutil.ErrNotADirectory)
	}

	base := dir.clean()
	entries, err := s.fs.ReadDir(base)
	if err != nil {
		return nil, err
	}
	out := make([]Path, 0, len(entries))
	for _, e := range entries {
		out = append(out, Path{raw: filepath.Join(base, e.Name), typ: e.Type})
	}
	return out, nil
}

// RelativeTo returns p relative to base. Relative to the virtual root the
// result is the "name/rel" display form.
func (s *Space) RelativeTo(p, base Path) (string, error) {
	if p.IsVirtual() {
		return "", fmt.Errorf("relative path of %s: %w", p, ErrUnsupported)
	}
	if base.IsVirtualRoot() {
		return s.DisplayString(p.WithoutTrailingSeparator()), nil
	}
	if base.IsVirtual() {
		return "", fmt.Errorf("relative to %s: %w", base, ErrUnsupported)
	}
	return filepath.Rel(base.clean(), p.clean())
}

// IsSubpathOf reports whether p lies inside base or equals it.
func (s *Space) IsSubpathOf(p, base Path) bool {
	if p.Equal(base) {
		return true
	}
	if base.IsVirtualRoot() {
		if p.IsVirtual() {
			return true
		}
		_, _, ok := s.workspace.Containing(p.raw)
		return ok
	}
	if p.IsVirtual() || base.IsVirtual() || p.IsZero() || base.IsZero() {
		return false
	}
	_, ok := relativeInside(base.clean(), p.clean())
	return ok
}

// DefaultStart picks the location the navigator opens at: the active
// document's directory, the active terminal's directory, the only workspace
// root, the virtual root when several roots exist, or the working directory.
func (s *Space) DefaultStart() Path {
	if s.env != nil {
		if dir, ok := s.env.ActiveDocumentDirectory(); ok && dir != "" {
			return s.directory(dir)
		}
		if dir, ok := s.env.ActiveTerminalDirectory(); ok && dir != "" {
			return s.directory(dir)
		}
	}

	roots := s.workspace.Roots()
	switch {
	case len(roots) == 1:
		return s.directory(roots[0].Path)
	case len(roots) > 1:
		return VirtualRoot()
	}
	return s.directory(s.workingDirectory())
}

func (s *Space) directory(p string) Path {
	return Path{raw: ensureTrailingSeparator(filepath.Clean(p)), typ: fsutil.TypeDirectory}
}

func (s *Space) workingDirectory() string {
	if s.getwd != nil {
		if wd, err := s.getwd(); err == nil && wd != "" {
			return wd
		}
	}
	return separator
}

func (s *Space) expandHome(text string) string {
	if text != "~" && !strings.HasPrefix(text, "~/") && !strings.HasPrefix(text, "~"+separator) {
		return text
	}
	if s.home == nil {
		return text
	}
	home, err := s.home()
	if err != nil || home == "" {
		return text
	}
	if text == "~" {
		return ensureTrailingSeparator(home)
	}
	return home + separator + text[2:]
}
