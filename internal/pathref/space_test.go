package pathref

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	fsutil "github.com/kk-code-lab/pathnav/internal/fs"
)

type stubEnv struct {
	document string
	terminal string
}

func (e stubEnv) ActiveDocumentDirectory() (string, bool) {
	return e.document, e.document != ""
}

func (e stubEnv) ActiveTerminalDirectory() (string, bool) {
	return e.terminal, e.terminal != ""
}

func newTestSpace(t *testing.T, roots ...Root) (*Space, string) {
	t.Helper()
	cwd := t.TempDir()
	space := NewSpace(fsutil.OS{}, NewWorkspace(roots...),
		WithWorkingDirectory(func() (string, error) { return cwd, nil }),
		WithHomeDirectory(func() (string, error) { return cwd, nil }),
	)
	return space, cwd
}

func mkdirAll(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(parts...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

func TestUpOneLevel(t *testing.T) {
	space, _ := newTestSpace(t)

	withFilter := Real(filepath.FromSlash("/proj/src/mai"))
	if got := space.UpOneLevel(withFilter); !got.Equal(withFilter.CurrentDirectory()) {
		t.Fatalf("UpOneLevel(filter) = %q, want %q", got, withFilter.CurrentDirectory())
	}

	dir := Real(filepath.FromSlash("/proj/src/"))
	want := Real(filepath.FromSlash("/proj/"))
	if got := space.UpOneLevel(dir); !got.Equal(want) || !got.Equal(space.Parent(dir)) {
		t.Fatalf("UpOneLevel(dir) = %q, want %q", got, want)
	}

	root := Real(separator)
	if got := space.Parent(root); !got.Equal(root) {
		t.Fatalf("Parent(root) = %q, want %q", got, root)
	}
}

func TestParentOfVirtualRootIsDefaultStart(t *testing.T) {
	base := t.TempDir()
	a := mkdirAll(t, base, "a")
	b := mkdirAll(t, base, "b")
	space, _ := newTestSpace(t, Root{Path: a}, Root{Path: b})

	if got := space.Parent(virtualWithFilter("x")); !got.IsVirtualRoot() {
		t.Fatalf("Parent(virtual filter) = %q, want virtual root", got)
	}
	if got := space.Parent(VirtualRoot()); !got.Equal(space.DefaultStart()) {
		t.Fatalf("Parent(virtual root) = %q, want default start %q", got, space.DefaultStart())
	}
}

func TestIsSubpathOf(t *testing.T) {
	base := t.TempDir()
	proj := mkdirAll(t, base, "proj", "src")
	outside := mkdirAll(t, base, "other")
	space, _ := newTestSpace(t, Root{Path: filepath.Dir(proj)})

	projDir := Real(filepath.Dir(proj) + separator)
	srcDir := Real(proj + separator)

	tests := []struct {
		name string
		p    Path
		base Path
		want bool
	}{
		{"reflexive", srcDir, srcDir, true},
		{"child", srcDir, projDir, true},
		{"parent is not child", projDir, srcDir, false},
		{"inside root under virtual root", srcDir, VirtualRoot(), true},
		{"outside roots under virtual root", Real(outside + separator), VirtualRoot(), false},
		{"virtual root reflexive", VirtualRoot(), VirtualRoot(), true},
		{"sibling prefix", Real(filepath.Join(base, "proj-extra") + separator), projDir, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := space.IsSubpathOf(tt.p, tt.base); got != tt.want {
				t.Errorf("IsSubpathOf(%q, %q) = %v, want %v", tt.p, tt.base, got, tt.want)
			}
		})
	}
}

func TestDisplayStringRoundTrip(t *testing.T) {
	base := t.TempDir()
	projPath := mkdirAll(t, base, "proj")
	mkdirAll(t, projPath, "src")
	space, _ := newTestSpace(t, Root{Name: "proj", Path: projPath})

	real := Real(filepath.Join(projPath, "src") + separator)
	display := space.DisplayString(real)
	if want := "proj" + separator + "src" + separator; display != want {
		t.Fatalf("DisplayString = %q, want %q", display, want)
	}

	back, err := space.ToRealPath(display)
	if err != nil {
		t.Fatalf("ToRealPath: %v", err)
	}
	if back != real.String() {
		t.Fatalf("ToRealPath = %q, want %q", back, real)
	}
	if parsed := space.Parse(display); !parsed.Equal(real) {
		t.Fatalf("Parse(%q) = %q, want %q", display, parsed, real)
	}

	outside := Real(filepath.Join(base, "elsewhere"))
	if got := space.DisplayString(outside); got != outside.String() {
		t.Fatalf("paths outside roots should display as is, got %q", got)
	}
}

func TestUnknownRoot(t *testing.T) {
	space, cwd := newTestSpace(t, Root{Name: "proj", Path: t.TempDir()})

	if _, err := space.ToRealPath("nope/file.txt"); !errors.Is(err, ErrUnknownRoot) {
		t.Fatalf("expected ErrUnknownRoot, got %v", err)
	}

	got := space.Parse("nope/file.txt")
	want := Real(filepath.Join(cwd, "nope", "file.txt"))
	if !got.Equal(want) {
		t.Fatalf("Parse should fall back to a literal path, got %q want %q", got, want)
	}
}

func TestParseVirtualInput(t *testing.T) {
	projPath := t.TempDir()
	space, _ := newTestSpace(t, Root{Name: "proj", Path: projPath}, Root{Name: "docs", Path: t.TempDir()})

	if got := space.Parse(VirtualRootPrefix); !got.IsVirtualRoot() {
		t.Fatalf("Parse(prefix) = %q, want virtual root", got)
	}
	filtered := space.Parse(VirtualRootPrefix + "pr")
	if !filtered.IsVirtual() || filtered.CurrentFilter() != "pr" {
		t.Fatalf("Parse(virtual filter) = %q", filtered)
	}
	nested := space.Parse(VirtualRootPrefix + "proj/")
	if want := Real(projPath + separator); !nested.Equal(want) {
		t.Fatalf("Parse(virtual root-relative) = %q, want %q", nested, want)
	}
}

func TestParseExpandsHome(t *testing.T) {
	space, home := newTestSpace(t)
	got := space.Parse("~/notes")
	if want := Real(filepath.Join(home, "notes")); !got.Equal(want) {
		t.Fatalf("Parse(~/notes) = %q, want %q", got, want)
	}
}

func TestDefaultStartPriority(t *testing.T) {
	base := t.TempDir()
	doc := mkdirAll(t, base, "doc")
	term := mkdirAll(t, base, "term")
	one := mkdirAll(t, base, "one")
	two := mkdirAll(t, base, "two")
	cwd := mkdirAll(t, base, "cwd")
	getwd := WithWorkingDirectory(func() (string, error) { return cwd, nil })

	tests := []struct {
		name  string
		env   Environment
		roots []Root
		want  Path
	}{
		{"document wins", stubEnv{document: doc, terminal: term}, []Root{{Path: one}}, Real(doc + separator)},
		{"terminal next", stubEnv{terminal: term}, []Root{{Path: one}}, Real(term + separator)},
		{"single root", stubEnv{}, []Root{{Path: one}}, Real(one + separator)},
		{"several roots", stubEnv{}, []Root{{Path: one}, {Path: two}}, VirtualRoot()},
		{"working directory", nil, nil, Real(cwd + separator)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []SpaceOption{getwd}
			if tt.env != nil {
				opts = append(opts, WithEnvironment(tt.env))
			}
			space := NewSpace(fsutil.OS{}, NewWorkspace(tt.roots...), opts...)
			if got := space.DefaultStart(); !got.Equal(tt.want) {
				t.Fatalf("DefaultStart() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListDirectory(t *testing.T) {
	base := t.TempDir()
	mkdirAll(t, base, "sub")
	if err := os.WriteFile(filepath.Join(base, "file.txt"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	space, _ := newTestSpace(t, Root{Name: "a", Path: base})

	children, err := space.ListDirectory(Real(base + separator))
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	types := map[string]fsutil.FileType{}
	for _, c := range children {
		types[c.Base()] = c.Type()
	}
	if !types["sub"].IsDir() || types["file.txt"] != fsutil.TypeFile {
		t.Fatalf("unexpected types: %v", types)
	}

	if _, err := space.ListDirectory(Real(filepath.Join(base, "file.txt"))); !errors.Is(err, fsutil.ErrNotADirectory) {
		t.Fatalf("expected ErrNotADirectory, got %v", err)
	}

	roots, err := space.ListDirectory(VirtualRoot())
	if err != nil {
		t.Fatalf("ListDirectory(virtual): %v", err)
	}
	if len(roots) != 1 || !roots[0].Equal(Real(base+separator)) || !roots[0].Type().IsDir() {
		t.Fatalf("virtual listing = %v", roots)
	}
}

func TestListDirectoryKeepsDecomposedNames(t *testing.T) {
	base := t.TempDir()
	decomposed := "cafe\u0301.txt"
	if err := os.WriteFile(filepath.Join(base, decomposed), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	space, _ := newTestSpace(t, Root{Name: "a", Path: base})

	children, err := space.ListDirectory(Real(base + separator))
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("children = %v", children)
	}
	if _, err := os.Stat(children[0].String()); err != nil {
		t.Fatalf("listed path does not exist: %v", err)
	}
	if !space.Exists(children[0]) {
		t.Fatalf("Exists(%q) = false", children[0])
	}
}

func TestIsDirectory(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	space, _ := newTestSpace(t)

	if !space.IsDirectory(VirtualRoot()) {
		t.Fatalf("virtual root must be a directory")
	}
	if !space.IsDirectory(Real(base + separator)) {
		t.Fatalf("temp dir should be a directory")
	}
	if space.IsDirectory(Real(file)) {
		t.Fatalf("file reported as directory")
	}
	if space.IsDirectory(Real(filepath.Join(base, "missing"))) || space.Exists(Real(filepath.Join(base, "missing"))) {
		t.Fatalf("missing path reported as existing")
	}
}

func TestRelativeTo(t *testing.T) {
	base := t.TempDir()
	space, _ := newTestSpace(t, Root{Name: "proj", Path: base})

	child := Real(filepath.Join(base, "src", "main.go"))
	rel, err := space.RelativeTo(child, Real(base+separator))
	if err != nil || rel != filepath.Join("src", "main.go") {
		t.Fatalf("RelativeTo(real) = %q, %v", rel, err)
	}

	rootLabel, err := space.RelativeTo(Real(base+separator), VirtualRoot())
	if err != nil || rootLabel != "proj" {
		t.Fatalf("RelativeTo(virtual root) = %q, %v", rootLabel, err)
	}

	if _, err := space.RelativeTo(VirtualRoot(), Real(base)); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestWorkspaceRegistry(t *testing.T) {
	base := t.TempDir()
	outer := mkdirAll(t, base, "outer")
	inner := mkdirAll(t, outer, "inner")

	ws := NewWorkspace(Root{Path: outer})
	if _, added := ws.Add(inner); !added {
		t.Fatalf("expected inner to be added")
	}
	if _, added := ws.Add(inner + separator); added {
		t.Fatalf("duplicate root added")
	}
	if ws.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ws.Len())
	}

	root, rel, ok := ws.Containing(filepath.Join(inner, "x"))
	if !ok || root.Path != inner || rel != "x" {
		t.Fatalf("Containing picked %+v %q %v, want most specific root", root, rel, ok)
	}

	ws.Replace(outer)
	roots := ws.Roots()
	if len(roots) != 1 || roots[0].Name != "outer" {
		t.Fatalf("Replace left %+v", roots)
	}
}
