// Package picker holds the list widget the navigator renders into.
package picker

import (
	statepkg "github.com/kk-code-lab/pathnav/internal/state"
)

// ===== PICKER ACTIONS =====
// These never reach the navigator; the application loop applies them to the
// model directly.

// MoveAction moves the highlight by Delta rows.
type MoveAction struct {
	Delta int
}

// PageAction moves the highlight by one viewport in Direction (-1 or 1).
type PageAction struct {
	Direction int
}

// Model implements state.Widget for the terminal.
type Model struct {
	value    string
	items    []statepkg.Item
	selected int
	scroll   int
	viewport int
	mode     statepkg.Mode
	busy     bool
	visible  bool
}

var _ statepkg.Widget = (*Model)(nil)

// New returns an empty, hidden model.
func New() *Model {
	return &Model{viewport: 1}
}

// SetValue replaces the input text.
func (m *Model) SetValue(value string) { m.value = value }

// Value returns the input text.
func (m *Model) Value() string { return m.value }

// SetItems replaces the rows and highlights the first one.
func (m *Model) SetItems(items []statepkg.Item) {
	m.items = items
	m.selected = 0
	m.scroll = 0
}

// Items returns the rows currently shown.
func (m *Model) Items() []statepkg.Item { return m.items }

// ActiveItem returns the highlighted row.
func (m *Model) ActiveItem() (statepkg.Item, bool) {
	if m.selected < 0 || m.selected >= len(m.items) {
		return statepkg.Item{}, false
	}
	return m.items[m.selected], true
}

// Selected returns the highlighted index.
func (m *Model) Selected() int { return m.selected }

// Scroll returns the index of the first visible row.
func (m *Model) Scroll() int { return m.scroll }

// SetMode records the navigator mode for the header badge.
func (m *Model) SetMode(mode statepkg.Mode) { m.mode = mode }

// Mode returns the navigator mode last reported.
func (m *Model) Mode() statepkg.Mode { return m.mode }

// SetBusy toggles the progress indicator.
func (m *Model) SetBusy(busy bool) { m.busy = busy }

// Busy reports whether scans are running.
func (m *Model) Busy() bool { return m.busy }

func (m *Model) Show() { m.visible = true }
func (m *Model) Hide() { m.visible = false }

// Visible reports whether the picker is shown.
func (m *Model) Visible() bool { return m.visible }

// SetViewport sets how many rows fit on screen and keeps the highlight in
// view.
func (m *Model) SetViewport(rows int) {
	if rows < 1 {
		rows = 1
	}
	m.viewport = rows
	m.ensureVisible()
}

// Viewport returns the number of visible rows.
func (m *Model) Viewport() int { return m.viewport }

func (m *Model) MoveUp()   { m.Move(-1) }
func (m *Model) MoveDown() { m.Move(1) }

func (m *Model) PageUp()   { m.Move(-m.viewport) }
func (m *Model) PageDown() { m.Move(m.viewport) }

// Move shifts the highlight by delta, clamped to the list.
func (m *Model) Move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.items) {
		m.selected = len(m.items) - 1
	}
	m.ensureVisible()
}

// Apply handles a picker action. It reports false for other actions.
func (m *Model) Apply(action statepkg.Action) bool {
	switch a := action.(type) {
	case MoveAction:
		m.Move(a.Delta)
	case PageAction:
		if a.Direction < 0 {
			m.PageUp()
		} else {
			m.PageDown()
		}
	default:
		return false
	}
	return true
}

func (m *Model) ensureVisible() {
	if m.selected < m.scroll {
		m.scroll = m.selected
	}
	if m.selected >= m.scroll+m.viewport {
		m.scroll = m.selected - m.viewport + 1
	}
	maxScroll := len(m.items) - m.viewport
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}
