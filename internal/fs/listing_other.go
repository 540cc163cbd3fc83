//go:build !windows

package fs

// ShouldHideFromListing never hides entries outside Windows.
func ShouldHideFromListing(_, _ string) bool {
	return false
}
