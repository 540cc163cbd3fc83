package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"go.uber.org/zap"

	"github.com/kk-code-lab/pathnav/internal/config"
	"github.com/kk-code-lab/pathnav/internal/pathref"
	statepkg "github.com/kk-code-lab/pathnav/internal/state"
)

var (
	errNoEditor   = errors.New("no editor configured")
	errNoTerminal = errors.New("no terminal configured (set host.terminal or $TERMINAL)")
)

// commandBuilder is swapped in tests.
var commandBuilder = exec.Command

// terminalHost carries out navigator commands from a terminal session.
type terminalHost struct {
	app       *Application
	workspace *pathref.Workspace
	editorCmd []string
	termCmd   []string
}

var _ statepkg.Host = (*terminalHost)(nil)

func newTerminalHost(app *Application, workspace *pathref.Workspace, cfg config.HostConfig) *terminalHost {
	h := &terminalHost{app: app, workspace: workspace}
	if err := h.configure(cfg); err != nil {
		app.logger.Warn("host: configure", zap.Error(err))
	}
	return h
}

// configure resolves the editor and terminal commands. An editor that
// cannot be found falls back to the environment and is reported; having
// no editor at all is only an error once a file is opened.
func (h *terminalHost) configure(cfg config.HostConfig) error {
	editorCmd, _ := detectEditorCommand(cfg.Editor)
	h.editorCmd = editorCmd
	h.termCmd = detectTerminalCommand(cfg.Terminal, os.Getenv)

	if configured := parseCommandLine(cfg.Editor); len(configured) > 0 {
		if _, ok := lookupExecutable(configured[0], exec.LookPath); !ok {
			return fmt.Errorf("editor %q not found", configured[0])
		}
	}
	return nil
}

func (h *terminalHost) OpenFile(path string) error {
	return h.openInEditor(path)
}

// OpenNewFile hands the path to the editor, which creates the file on save.
func (h *terminalHost) OpenNewFile(path string) error {
	return h.openInEditor(path)
}

func (h *terminalHost) AddFolder(path string) error {
	root, added := h.workspace.Add(path)
	if !added {
		return nil
	}
	h.app.logger.Info("host: folder added", zap.String("name", root.Name), zap.String("path", root.Path))
	if h.app.configPath == "" {
		return nil
	}

	saved, err := config.AddRoot(h.app.configPath, config.RootConfig{Path: root.Path})
	if err != nil {
		return fmt.Errorf("save workspace root: %w", err)
	}
	if saved {
		// The reload triggered by this write then sees no change in roots.
		h.app.roots = append(h.app.roots, pathref.Root{Path: root.Path})
	}
	return nil
}

func (h *terminalHost) OpenFolder(path string) error {
	h.workspace.Replace(path)
	h.app.resultDir = path
	h.app.logger.Info("host: folder opened", zap.String("path", path))
	return nil
}

func (h *terminalHost) OpenInNewWindow(path string) error {
	if len(h.termCmd) == 0 {
		return errNoTerminal
	}
	cmd := commandBuilder(h.termCmd[0], h.termCmd[1:]...)
	cmd.Dir = path
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", h.termCmd[0], err)
	}
	go func() { _ = cmd.Wait() }()
	h.app.logger.Info("host: new window", zap.String("path", path), zap.Int("pid", cmd.Process.Pid))
	return nil
}

// SetVisible(false) ends the session once the current action returns.
func (h *terminalHost) SetVisible(visible bool) {
	if !visible {
		h.app.shouldQuit = true
	}
}

func (h *terminalHost) openInEditor(path string) error {
	if len(h.editorCmd) == 0 {
		return errNoEditor
	}
	args := editorArgsWithFile(h.editorCmd, path)

	useTTY := runtime.GOOS != "windows"
	if !useTTY {
		return h.app.runSuspended(args, os.Stdin, os.Stdout, os.Stderr)
	}

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return h.app.runSuspended(args, os.Stdin, os.Stdout, os.Stderr)
	}
	defer func() {
		_ = tty.Close()
	}()
	return h.app.runSuspended(args, tty, tty, tty)
}

// runSuspended gives the terminal to a child process and takes it back.
func (app *Application) runSuspended(args []string, stdin, stdout, stderr *os.File) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	_ = flushPendingInput()
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("%s: %w", args[0], runErr)
	}
	return nil
}

func editorArgsWithFile(editorCmd []string, filePath string) []string {
	args := make([]string, len(editorCmd)+1)
	copy(args, editorCmd)
	args[len(editorCmd)] = filePath
	return args
}
