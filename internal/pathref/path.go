// Package pathref interprets typed input as a directory plus filter and
// translates between real filesystem paths and the virtual workspace
// namespace.
package pathref

import (
	"os"
	"path/filepath"
	"strings"

	fsutil "github.com/kk-code-lab/pathnav/internal/fs"
)

// VirtualRootPrefix marks the synthetic directory that holds every
// registered workspace root. No real path can start with it.
const VirtualRootPrefix = "workspace:/"

const separator = string(filepath.Separator)

// Path is an immutable location: either a real absolute path or the virtual
// workspace root (optionally followed by a filter). A trailing separator
// means "this directory, no filter"; otherwise the last segment is a filter
// applied to the parent directory.
//
// Path values compare by their normalized string only. Use Key or Equal;
// the cached file type never takes part in identity.
type Path struct {
	raw string
	typ fsutil.FileType
}

// Real builds a normalized real path, keeping a trailing separator when the
// input had one.
func Real(p string) Path {
	if p == "" {
		return Path{}
	}
	trailing := endsWithSeparator(p)
	cleaned := filepath.Clean(p)
	if trailing {
		cleaned = ensureTrailingSeparator(cleaned)
	}
	return Path{raw: cleaned}
}

// VirtualRoot returns the virtual directory listing every workspace root.
func VirtualRoot() Path {
	return Path{raw: VirtualRootPrefix, typ: fsutil.TypeDirectory}
}

func virtualWithFilter(filter string) Path {
	if filter == "" {
		return VirtualRoot()
	}
	return Path{raw: VirtualRootPrefix + filter}
}

// String returns the normalized representation.
func (p Path) String() string {
	return p.raw
}

// Key is the map key for the location.
func (p Path) Key() string {
	return p.raw
}

// Equal reports whether both paths name the same location.
func (p Path) Equal(other Path) bool {
	return p.raw == other.raw
}

// IsZero reports whether the path was never set.
func (p Path) IsZero() bool {
	return p.raw == ""
}

// IsVirtual reports whether the path lives in the virtual namespace.
func (p Path) IsVirtual() bool {
	return strings.HasPrefix(p.raw, VirtualRootPrefix)
}

// IsVirtualRoot reports whether the path is the bare virtual root.
func (p Path) IsVirtualRoot() bool {
	return p.raw == VirtualRootPrefix
}

// Type returns the cached file type, TypeUnknown when unresolved.
func (p Path) Type() fsutil.FileType {
	return p.typ
}

// WithType returns a copy carrying a resolved file type.
func (p Path) WithType(t fsutil.FileType) Path {
	p.typ = t
	return p
}

// HasTrailingSeparator reports whether the path denotes a directory with no
// filter.
func (p Path) HasTrailingSeparator() bool {
	if p.IsVirtual() {
		return p.IsVirtualRoot()
	}
	return endsWithSeparator(p.raw)
}

// WithTrailingSeparator returns the directory form of p.
func (p Path) WithTrailingSeparator() Path {
	if p.IsZero() || p.HasTrailingSeparator() {
		return p
	}
	if p.IsVirtual() {
		return p
	}
	return Path{raw: ensureTrailingSeparator(p.raw), typ: p.typ}
}

// WithoutTrailingSeparator strips the separator so the last segment becomes
// a filter. Filesystem roots are returned unchanged.
func (p Path) WithoutTrailingSeparator() Path {
	if p.IsVirtual() || !p.HasTrailingSeparator() {
		return p
	}
	cleaned := filepath.Clean(p.raw)
	if endsWithSeparator(cleaned) {
		return p
	}
	return Path{raw: cleaned, typ: p.typ}
}

// Join appends a child name and returns a path without trailing separator.
func (p Path) Join(name string) Path {
	if p.IsVirtual() {
		return p
	}
	return Path{raw: filepath.Join(p.raw, name)}
}

// Base returns the last path segment, ignoring a trailing separator.
func (p Path) Base() string {
	if p.IsVirtual() {
		return strings.TrimPrefix(p.raw, VirtualRootPrefix)
	}
	return filepath.Base(filepath.Clean(p.raw))
}

// CurrentDirectory returns the directory the path lists: itself when it has
// a trailing separator, otherwise its parent.
func (p Path) CurrentDirectory() Path {
	if p.IsVirtual() {
		return VirtualRoot()
	}
	if p.IsZero() || p.HasTrailingSeparator() {
		return p
	}
	return Path{raw: ensureTrailingSeparator(filepath.Dir(p.raw))}
}

// CurrentFilter returns the lowercased filter segment, "" for directory
// forms.
func (p Path) CurrentFilter() string {
	if p.IsZero() || p.HasTrailingSeparator() {
		return ""
	}
	if p.IsVirtual() {
		return strings.ToLower(strings.TrimPrefix(p.raw, VirtualRootPrefix))
	}
	return strings.ToLower(filepath.Base(p.raw))
}

// clean returns the OS form without the trailing separator, as used for
// relative path computations.
func (p Path) clean() string {
	return filepath.Clean(p.raw)
}

func endsWithSeparator(p string) bool {
	if p == "" {
		return false
	}
	last := p[len(p)-1]
	return last == '/' || os.IsPathSeparator(last)
}

func ensureTrailingSeparator(p string) string {
	if endsWithSeparator(p) {
		return p
	}
	return p + separator
}
