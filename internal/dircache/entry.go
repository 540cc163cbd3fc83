package dircache

import (
	"time"

	"github.com/cespare/xxhash/v2"

	fsutil "github.com/kk-code-lab/pathnav/internal/fs"
	"github.com/kk-code-lab/pathnav/internal/pathref"
)

// Entry is one listed child. Label is relative to the directory the entry
// is displayed under; Path is absolute and carries the resolved type.
type Entry struct {
	Path  pathref.Path
	Label string
}

// Type returns the entry's file type.
func (e Entry) Type() fsutil.FileType {
	return e.Path.Type()
}

// IsDir reports whether the entry can be entered.
func (e Entry) IsDir() bool {
	return e.Path.Type().IsDir() || e.Path.IsVirtualRoot()
}

// identity hashes (path, type); a type change counts as a different entry.
func (e Entry) identity() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(e.Path.Key())
	_, _ = d.Write([]byte{0, byte(e.Path.Type())})
	return d.Sum64()
}

// Snapshot is the committed listing of one directory. Entries must be
// treated as read-only.
type Snapshot struct {
	Dir       pathref.Path
	Entries   []Entry
	ScannedAt time.Time
	ids       map[uint64]struct{}
}

func (s *Snapshot) sameContent(ids map[uint64]struct{}) bool {
	if len(s.ids) != len(ids) {
		return false
	}
	for id := range ids {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}
