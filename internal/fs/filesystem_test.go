package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOSReadDirTypes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "linkdir")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := OS{}.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	got := make(map[string]FileType, len(entries))
	for _, e := range entries {
		got[e.Name] = e.Type
	}

	if got["sub"] != TypeDirectory {
		t.Errorf("sub: got %v, want dir", got["sub"])
	}
	if got["file.txt"] != TypeFile {
		t.Errorf("file.txt: got %v, want file", got["file.txt"])
	}
	if got["linkdir"] != TypeSymlink|TypeDirectory {
		t.Errorf("linkdir: got %v, want symlink+dir", got["linkdir"])
	}
	if !got["linkdir"].IsDir() || !got["linkdir"].IsSymlink() {
		t.Errorf("linkdir flags not set: %v", got["linkdir"])
	}
}

func TestOSReadDirOnFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := OS{}.ReadDir(file)
	if !errors.Is(err, ErrNotADirectory) {
		t.Fatalf("expected ErrNotADirectory, got %v", err)
	}
}

func TestOSStatMissing(t *testing.T) {
	t.Parallel()

	_, err := OS{}.Stat(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFileTypeString(t *testing.T) {
	tests := []struct {
		typ  FileType
		want string
	}{
		{TypeUnknown, "unknown"},
		{TypeFile, "file"},
		{TypeDirectory, "dir"},
		{TypeSymlink | TypeDirectory, "symlink+dir"},
		{TypeSymlink | TypeFile, "symlink+file"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
