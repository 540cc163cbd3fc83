//go:build windows

package fs

import (
	"strings"

	"golang.org/x/sys/windows"
)

const protectedAttrs = windows.FILE_ATTRIBUTE_SYSTEM | windows.FILE_ATTRIBUTE_REPARSE_POINT

func attributes(path string) (uint32, bool) {
	if path == "" {
		return 0, false
	}
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, false
	}
	attrs, err := windows.GetFileAttributes(ptr)
	if err != nil {
		return 0, false
	}
	return attrs, true
}

// IsHidden reports whether the hidden attribute is set on the entry. Paths
// whose attributes cannot be read fall back to the dot-prefix convention.
func IsHidden(fullPath string, name string) bool {
	attrs, ok := attributes(fullPath)
	if !ok {
		return strings.HasPrefix(name, ".")
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}

// ShouldHideFromListing drops system junctions such as "Application Data"
// that cannot be listed anyway.
func ShouldHideFromListing(fullPath, _ string) bool {
	attrs, ok := attributes(fullPath)
	return ok && attrs&protectedAttrs == protectedAttrs
}
