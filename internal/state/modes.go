package state

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kk-code-lab/pathnav/internal/dircache"
	"github.com/kk-code-lab/pathnav/internal/search"
)

// Mode is how the navigator interprets the input.
type Mode int

const (
	// ModeBrowse lists and filters the directory named by the input.
	ModeBrowse Mode = iota
	// ModeAction offers commands that target the input path.
	ModeAction
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeAction:
		return "action"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

type modeHandler interface {
	update(n *Navigator)
	render(n *Navigator)
	accept(n *Navigator) error
}

type browseMode struct{}

func (browseMode) update(n *Navigator) {
	if n.value.IsZero() {
		n.widget.SetItems(nil)
		return
	}
	dir := n.value.CurrentDirectory()
	if !n.space.IsDirectory(dir) {
		n.enter(ModeAction)
		return
	}

	depth := 1
	if n.value.CurrentFilter() != "" {
		depth = n.settings.SearchDepth
	}
	n.cache.Update(dir, depth)
	// Stale snapshots render right away; OnChange refreshes them.
	n.handlers[ModeBrowse].render(n)
}

func (browseMode) render(n *Navigator) {
	dir := n.value.CurrentDirectory()
	filter := n.value.CurrentFilter()

	var entries []dircache.Entry
	if filter == "" {
		entries = search.DirectorySort{}.FilterAndSort(n.cache.FileList(dir, 1), "")
	} else {
		entries = n.fuzzy.FilterAndSort(n.cache.FileList(dir, n.settings.SearchDepth), filter)
		// Until the scans settle an empty result may only mean "not listed yet".
		if len(entries) == 0 && !n.cache.Busy() {
			n.enter(ModeAction)
			return
		}
	}

	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Kind: ItemEntry, Label: e.Label, Entry: e, Target: e.Path}
	}
	n.widget.SetItems(items)
}

func (browseMode) accept(n *Navigator) error {
	item, ok := n.widget.ActiveItem()
	if !ok || item.Kind != ItemEntry {
		return ErrNoSelection
	}
	if item.Entry.IsDir() {
		n.setInput(item.Entry.Path.WithTrailingSeparator())
		return nil
	}

	target, err := n.realTarget(item.Entry.Path)
	if err != nil {
		return err
	}
	n.Hide()
	if err := n.host.OpenFile(target); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

type actionMode struct{}

func (actionMode) update(n *Navigator) {
	n.handlers[ModeAction].render(n)
}

func (actionMode) render(n *Navigator) {
	target := n.value
	// The virtual namespace has no real path for a command to act on.
	if target.IsZero() || target.IsVirtual() {
		n.widget.SetItems(nil)
		return
	}

	commands := []Command{CommandNewFile}
	if n.space.Exists(target) {
		commands = []Command{CommandAddFolder, CommandOpenFolder, CommandOpenInNewWindow}
	}

	items := make([]Item, len(commands))
	for i, c := range commands {
		items[i] = Item{Kind: ItemCommand, Label: c.String(), Command: c, Target: target}
	}
	n.widget.SetItems(items)
}

func (actionMode) accept(n *Navigator) error {
	item, ok := n.widget.ActiveItem()
	if !ok || item.Kind != ItemCommand {
		return ErrNoSelection
	}
	target, err := n.realTarget(item.Target)
	if err != nil {
		return err
	}

	n.Hide()
	n.logger.Info("navigator: run command", zap.Stringer("command", item.Command), zap.String("target", target))

	var runErr error
	switch item.Command {
	case CommandNewFile:
		runErr = n.host.OpenNewFile(target)
	case CommandAddFolder:
		runErr = n.host.AddFolder(target)
	case CommandOpenFolder:
		runErr = n.host.OpenFolder(target)
	case CommandOpenInNewWindow:
		runErr = n.host.OpenInNewWindow(target)
	default:
		return fmt.Errorf("unknown command %d", int(item.Command))
	}
	if runErr != nil {
		return fmt.Errorf("%s %s: %w", item.Command, target, runErr)
	}
	return nil
}
