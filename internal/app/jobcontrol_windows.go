//go:build windows

package app

import "os"

func contSignals() []os.Signal { return nil }

// Consoles have no job control; ^Z is ignored.
func (app *Application) suspendToShell() {}

func (app *Application) resumeAfterStop() bool { return false }
