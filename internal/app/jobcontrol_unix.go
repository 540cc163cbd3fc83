//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// contSignals lists the signals that mean "we were stopped and are back".
func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

// suspendToShell hands the terminal back and stops the process, like ^Z in
// any other full-screen program. Only this pid is signalled: the pathnav
// shell function shares our process group and has to stay resumable.
func (app *Application) suspendToShell() {
	_ = app.screen.Suspend()
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

// resumeAfterStop retakes the terminal after SIGCONT. It reports whether
// the screen needs a redraw.
func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
	return true
}
