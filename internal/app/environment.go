package app

import (
	"os"
	"path/filepath"

	"github.com/kk-code-lab/pathnav/internal/pathref"
)

// terminalEnvironment answers the navigator's questions about the calling
// session: the directory of --document and the shell's $PWD.
type terminalEnvironment struct {
	document string
	getenv   func(string) string
	stat     func(string) (os.FileInfo, error)
}

var _ pathref.Environment = terminalEnvironment{}

func newTerminalEnvironment(document string) terminalEnvironment {
	return terminalEnvironment{document: document, getenv: os.Getenv, stat: os.Stat}
}

func (e terminalEnvironment) ActiveDocumentDirectory() (string, bool) {
	if e.document == "" {
		return "", false
	}
	abs, err := filepath.Abs(e.document)
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(abs)
	if !e.isDir(dir) {
		return "", false
	}
	return dir, true
}

func (e terminalEnvironment) ActiveTerminalDirectory() (string, bool) {
	pwd := e.getenv("PWD")
	if pwd == "" || !filepath.IsAbs(pwd) || !e.isDir(pwd) {
		return "", false
	}
	return pwd, true
}

func (e terminalEnvironment) isDir(path string) bool {
	info, err := e.stat(path)
	return err == nil && info.IsDir()
}
