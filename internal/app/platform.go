package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// Editors tried after the configured command, $VISUAL and $EDITOR.
var (
	windowsEditors = [][]string{{"code", "--wait"}, {"notepad++.exe"}, {"notepad.exe"}}
	unixEditors    = [][]string{{"vim"}, {"nano"}, {"vi"}}
)

// detectEditorCommand resolves the editor: the configured command first,
// then $VISUAL, $EDITOR and platform defaults.
func detectEditorCommand(configured string) ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, configured, os.Getenv, exec.LookPath)
}

func detectEditorCommandInternal(goos, configured string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	var candidates [][]string
	for _, line := range []string{configured, getenv("VISUAL"), getenv("EDITOR")} {
		if args := parseCommandLine(line); len(args) > 0 {
			candidates = append(candidates, args)
		}
	}
	if strings.EqualFold(goos, "windows") {
		candidates = append(candidates, windowsEditors...)
	} else {
		candidates = append(candidates, unixEditors...)
	}

	for _, args := range candidates {
		if resolved, ok := lookupExecutable(args[0], lookPath); ok {
			return append([]string{resolved}, args[1:]...), true
		}
	}
	return nil, false
}

// parseCommandLine splits a command line on unquoted whitespace. Single and
// double quotes group words; a quote of the other kind inside them is
// literal.
func parseCommandLine(line string) []string {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inWord  bool
	)
	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote, inWord = r, true
		case quote == 0 && unicode.IsSpace(r):
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, current.String())
	}
	return args
}

// expandUserPath expands a leading "~" or "~/" (or "~\").
func expandUserPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != '\\') {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

func lookupExecutable(name string, lookPath func(string) (string, error)) (string, bool) {
	if name == "" {
		return "", false
	}
	path, err := lookPath(expandUserPath(name))
	if err != nil {
		return "", false
	}
	return path, true
}

// detectTerminalCommand returns the command started for "open in new
// window": the configured one, else $TERMINAL.
func detectTerminalCommand(configured string, getenv func(string) string) []string {
	args := parseCommandLine(configured)
	if len(args) == 0 {
		args = parseCommandLine(getenv("TERMINAL"))
	}
	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}
	return args
}
