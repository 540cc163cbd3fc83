package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotADirectory is returned when a directory listing is requested for a
// path that is not a directory.
var ErrNotADirectory = errors.New("not a directory")

// FileSystem is the narrow filesystem surface the navigator consumes.
type FileSystem interface {
	// Stat resolves the type of path, following symlinks for the directory
	// bit. Missing paths return an error matching os.ErrNotExist.
	Stat(path string) (FileType, error)
	// ReadDir lists the children of a directory with their types attached.
	ReadDir(path string) ([]DirEntry, error)
}

// OS is the FileSystem backed by the host operating system.
type OS struct{}

// Stat implements FileSystem.
func (OS) Stat(path string) (FileType, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return TypeUnknown, err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return typeFromMode(info.Mode()), nil
	}

	// Broken links still exist; report them as symlinked files.
	target, err := os.Stat(path)
	if err != nil {
		return TypeSymlink | TypeFile, nil
	}
	return TypeSymlink | typeFromMode(target.Mode()), nil
}

// ReadDir implements FileSystem.
func (o OS) ReadDir(dirPath string) ([]DirEntry, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot list %s: %w", dirPath, ErrNotADirectory)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dirPath, err)
	}

	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		rawName := e.Name()
		fullPath := filepath.Join(dirPath, rawName)

		if ShouldHideFromListing(fullPath, rawName) {
			continue
		}

		var typ FileType
		if e.Type()&os.ModeSymlink != 0 {
			// Resolve the target so links to directories can be entered.
			typ, err = o.Stat(fullPath)
			if err != nil {
				continue
			}
		} else if e.IsDir() {
			typ = TypeDirectory
		} else {
			typ = TypeFile
		}

		out = append(out, DirEntry{Name: rawName, Type: typ})
	}
	return out, nil
}

func typeFromMode(mode os.FileMode) FileType {
	if mode.IsDir() {
		return TypeDirectory
	}
	return TypeFile
}

func joinName(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
