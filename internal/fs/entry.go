package fs

import "strings"

// FileType describes what a path points to. Values combine as bit flags so a
// symlink to a directory is TypeSymlink|TypeDirectory.
type FileType uint8

const (
	TypeUnknown   FileType = 0
	TypeFile      FileType = 1 << 0
	TypeDirectory FileType = 1 << 1
	TypeSymlink   FileType = 1 << 6
)

// IsDir reports whether the type has the directory bit (symlinked or not).
func (t FileType) IsDir() bool {
	return t&TypeDirectory != 0
}

// IsSymlink reports whether the path itself is a symbolic link.
func (t FileType) IsSymlink() bool {
	return t&TypeSymlink != 0
}

// Known reports whether the type has been resolved.
func (t FileType) Known() bool {
	return t != TypeUnknown
}

func (t FileType) String() string {
	if t == TypeUnknown {
		return "unknown"
	}
	var parts []string
	if t.IsSymlink() {
		parts = append(parts, "symlink")
	}
	switch {
	case t.IsDir():
		parts = append(parts, "dir")
	case t&TypeFile != 0:
		parts = append(parts, "file")
	}
	return strings.Join(parts, "+")
}

// DirEntry is a single child returned by FileSystem.ReadDir. Name is the
// on-disk name, unnormalized, so joining it to the directory gives a path
// that exists.
type DirEntry struct {
	Name string
	Type FileType
}

// IsHidden reports whether the entry should be treated as hidden.
func (e DirEntry) IsHidden(dir string) bool {
	return IsHidden(joinName(dir, e.Name), e.Name)
}
