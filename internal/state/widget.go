package state

import (
	"github.com/kk-code-lab/pathnav/internal/dircache"
	"github.com/kk-code-lab/pathnav/internal/pathref"
)

// ItemKind distinguishes listing rows from command rows.
type ItemKind int

const (
	ItemEntry ItemKind = iota
	ItemCommand
)

// Command is a side effect offered in Action mode.
type Command int

const (
	CommandNewFile Command = iota + 1
	CommandAddFolder
	CommandOpenFolder
	CommandOpenInNewWindow
)

func (c Command) String() string {
	switch c {
	case CommandNewFile:
		return "New file"
	case CommandAddFolder:
		return "Add folder to workspace"
	case CommandOpenFolder:
		return "Open folder"
	case CommandOpenInNewWindow:
		return "Open in new window"
	default:
		return "unknown"
	}
}

// Item is one row handed to the widget.
type Item struct {
	Kind    ItemKind
	Label   string
	Entry   dircache.Entry
	Command Command
	Target  pathref.Path
}

// Widget is the list UI the navigator drives. Calls arrive on the
// navigator's goroutine.
type Widget interface {
	SetValue(value string)
	SetItems(items []Item)
	ActiveItem() (Item, bool)
	SetMode(mode Mode)
	SetBusy(busy bool)
	Show()
	Hide()
}

// Host performs the side effects the navigator requests. Paths are real
// filesystem paths without a trailing separator.
type Host interface {
	OpenFile(path string) error
	OpenNewFile(path string) error
	AddFolder(path string) error
	OpenFolder(path string) error
	OpenInNewWindow(path string) error
	SetVisible(visible bool)
}
