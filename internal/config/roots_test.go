package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAddRootCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathnav", "config.yaml")

	changed, err := AddRoot(path, RootConfig{Path: "/srv/code"})
	if err != nil || !changed {
		t.Fatalf("AddRoot = %v, %v; want true, nil", changed, err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Workspace.Roots) != 1 || cfg.Workspace.Roots[0].Path != "/srv/code" {
		t.Fatalf("roots = %+v", cfg.Workspace.Roots)
	}
}

func TestAddRootSkipsListedPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
workspace:
  roots:
    - name: code
      path: /srv/code/
`)
	before, _ := os.ReadFile(path)

	changed, err := AddRoot(path, RootConfig{Path: "/srv/code"})
	if err != nil || changed {
		t.Fatalf("AddRoot = %v, %v; want false, nil", changed, err)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Fatalf("file rewritten:\n%s", after)
	}
}

func TestAddRootKeepsOtherSettings(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `# editor settings
host:
  editor: nano # preferred
navigator:
  search_depth: 2
workspace:
  roots:
    - name: code
      path: /srv/code
`)

	if _, err := AddRoot(path, RootConfig{Path: "/srv/docs"}); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"# editor settings", "# preferred"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("comment %q lost:\n%s", want, data)
		}
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host.Editor != "nano" || cfg.Navigator.SearchDepth != 2 {
		t.Fatalf("settings lost: %+v %+v", cfg.Host, cfg.Navigator)
	}
	var paths []string
	for _, r := range cfg.Workspace.Roots {
		paths = append(paths, r.Path)
	}
	if got := strings.Join(paths, ","); got != "/srv/code,/srv/docs" {
		t.Fatalf("roots = %s", got)
	}
}

func TestAddRootFillsNullWorkspace(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "workspace:\n")

	if _, err := AddRoot(path, RootConfig{Path: "/srv/code"}); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Workspace.Roots) != 1 {
		t.Fatalf("roots = %+v", cfg.Workspace.Roots)
	}
}

func TestAddRootRejectsUnexpectedShape(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "workspace:\n  roots: /srv/code\n")

	if _, err := AddRoot(path, RootConfig{Path: "/srv/docs"}); err == nil {
		t.Fatal("AddRoot accepted a scalar roots value")
	}
}
