//go:build !windows

package shellsetup

import (
	"fmt"
	"os"
	"strings"
)

// DetectParentShellName reads the parent's command name from /proc where
// it exists.
func DetectParentShellName() string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", os.Getppid()))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(string(data)), "-")
}
