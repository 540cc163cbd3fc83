//go:build !windows

package fs

// IsHidden reports whether a name is a dotfile. The full path is unused on
// Unix-like systems.
func IsHidden(_ string, name string) bool {
	return len(name) > 0 && name[0] == '.'
}
