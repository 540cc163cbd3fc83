//go:build !windows

package app

func flushPendingInput() error {
	return nil
}
