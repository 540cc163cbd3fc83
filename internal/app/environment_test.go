package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTerminalEnvironmentDocumentDirectory(t *testing.T) {
	dir := t.TempDir()
	env := newTerminalEnvironment(filepath.Join(dir, "notes.md"))

	got, ok := env.ActiveDocumentDirectory()
	if !ok || got != dir {
		t.Fatalf("ActiveDocumentDirectory = (%q, %v), want (%q, true)", got, ok, dir)
	}

	if _, ok := newTerminalEnvironment("").ActiveDocumentDirectory(); ok {
		t.Fatalf("no document should report no directory")
	}
	missing := newTerminalEnvironment(filepath.Join(dir, "missing", "file.txt"))
	if _, ok := missing.ActiveDocumentDirectory(); ok {
		t.Fatalf("document in a missing directory should be ignored")
	}
}

func TestTerminalEnvironmentWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name string
		pwd  string
		ok   bool
	}{
		{"existing directory", dir, true},
		{"unset", "", false},
		{"relative", "some/dir", false},
		{"file", file, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := terminalEnvironment{
				getenv: fakeEnv(map[string]string{"PWD": tt.pwd}),
				stat:   os.Stat,
			}
			got, ok := env.ActiveTerminalDirectory()
			if ok != tt.ok || (ok && got != tt.pwd) {
				t.Fatalf("ActiveTerminalDirectory = (%q, %v)", got, ok)
			}
		})
	}
}
