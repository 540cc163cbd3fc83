package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/pathnav/internal/state"
	textutil "github.com/kk-code-lab/pathnav/internal/textutil"
	"github.com/kk-code-lab/pathnav/internal/ui/picker"
)

const (
	headerRows = 2 // title, input
	footerRows = 2 // status, help
	title      = "pathnav"
	prompt     = "› "
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Frame is everything drawn in one pass.
type Frame struct {
	Picker *picker.Model
	// Err is the last operational error, shown in the status line.
	Err error
	// Tick advances the busy spinner.
	Tick int
}

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
	widths map[rune]int // rune widths seen so far; Render runs on one goroutine
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
		widths: make(map[rune]int),
	}
}

// ListRows returns how many items fit on a screen of height h.
func ListRows(h int) int {
	rows := h - headerRows - footerRows
	if rows < 1 {
		return 1
	}
	return rows
}

// Render draws the entire UI. It also sizes the picker's viewport to the
// screen.
func (r *Renderer) Render(frame Frame) {
	r.screen.Clear()
	w, h := r.screen.Size()
	model := frame.Picker
	if model == nil || w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}
	model.SetViewport(ListRows(h))

	r.drawHeader(model, frame.Tick, w)
	r.drawInput(model, w)
	r.drawItems(model, w, h)
	r.drawStatusLine(model, frame.Err, w, h)
	r.drawFooter(model, w, h)

	r.screen.Show()
}

func (r *Renderer) drawHeader(model *picker.Model, tick, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	x := r.drawText(0, 0, w, title, headerStyle.Bold(true))
	x = r.drawText(x, 0, w, " ", headerStyle)

	badge, badgeBg := " BROWSE ", r.theme.BrowseBadge
	if model.Mode() == statepkg.ModeAction {
		badge, badgeBg = " ACTION ", r.theme.ActionBadge
	}
	x = r.drawText(x, 0, w, badge, tcell.StyleDefault.Background(badgeBg).Foreground(r.theme.BadgeFg).Bold(true))
	r.fill(x, 0, w, headerStyle)

	if model.Busy() {
		frame := spinnerFrames[tick%len(spinnerFrames)]
		text := string(frame) + " scanning"
		start := w - textutil.DisplayWidth(text) - 1
		if start > x {
			r.drawText(start, 0, w, text, headerStyle.Foreground(r.theme.SpinnerFg))
		}
	}
}

func (r *Renderer) drawInput(model *picker.Model, w int) {
	style := tcell.StyleDefault.Foreground(r.theme.Foreground)
	x := r.drawText(0, 1, w, prompt, style.Foreground(r.theme.PromptFg).Bold(true))

	value := textutil.SanitizeTerminalText(model.Value())
	// Leave a column for the cursor.
	value = textutil.TruncateLeft(value, w-x-1)
	x = r.drawText(x, 1, w, value, style)
	r.fill(x, 1, w, style)
	if x < w {
		r.screen.ShowCursor(x, 1)
	}
}

func (r *Renderer) drawItems(model *picker.Model, w, h int) {
	items := model.Items()
	rows := ListRows(h)
	startY := headerRows

	if len(items) == 0 {
		placeholder := "no matches"
		if model.Busy() {
			placeholder = "scanning…"
		}
		r.drawText(2, startY, w, placeholder, tcell.StyleDefault.Foreground(r.theme.HiddenFg).Italic(true))
		return
	}

	scroll := model.Scroll()
	for row := 0; row < rows; row++ {
		idx := scroll + row
		if idx >= len(items) {
			break
		}
		r.drawItem(items[idx], idx == model.Selected(), startY+row, w)
	}
}

func (r *Renderer) drawItem(item statepkg.Item, selected bool, y, w int) {
	style, label := r.itemStyle(item)
	if selected {
		style = style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}

	marker := "  "
	if selected {
		marker = "▌ "
	}
	x := r.drawText(0, y, w, marker, style)

	if item.Kind == statepkg.ItemCommand {
		target := textutil.SanitizeTerminalText(item.Target.String())
		x = r.drawText(x, y, w, textutil.TruncateRight(label, w-x), style.Bold(true))
		if x+2 < w {
			dim := style.Foreground(r.theme.HiddenFg)
			if selected {
				dim = style
			}
			x = r.drawText(x, y, w, "  ", style)
			x = r.drawText(x, y, w, textutil.TruncateLeft(target, w-x), dim)
		}
		r.fill(x, y, w, style)
		return
	}

	x = r.drawText(x, y, w, textutil.TruncateRight(label, w-x), style)
	r.fill(x, y, w, style)
}

// itemStyle picks the color and display label for a row. Directories get a
// trailing separator; symlinks keep their target's separator but use the
// symlink color.
func (r *Renderer) itemStyle(item statepkg.Item) (tcell.Style, string) {
	base := tcell.StyleDefault
	label := textutil.SanitizeTerminalText(item.Label)

	if item.Kind == statepkg.ItemCommand {
		return base.Foreground(r.theme.CommandFg), "▸ " + label
	}

	entryType := item.Entry.Type()
	style := base.Foreground(r.theme.FileFg)
	if item.Entry.IsDir() {
		style = base.Foreground(r.theme.DirectoryFg)
		if !strings.HasSuffix(label, string(filepath.Separator)) {
			label += string(filepath.Separator)
		}
	}
	if entryType.IsSymlink() {
		style = base.Foreground(r.theme.SymlinkFg)
	}
	if isHiddenLabel(item.Label) {
		style = style.Foreground(r.theme.HiddenFg)
	}
	return style, label
}

func isHiddenLabel(label string) bool {
	base := filepath.Base(strings.TrimRight(label, `/\`))
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

func (r *Renderer) drawStatusLine(model *picker.Model, err error, w, h int) {
	y := h - footerRows
	if y < headerRows {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	var text string
	if err != nil {
		text = " error: " + err.Error()
		style = style.Foreground(r.theme.ErrorFg).Bold(true)
	} else {
		text = " " + formatCount(model)
		if item, ok := model.ActiveItem(); ok && item.Kind == statepkg.ItemEntry {
			text += "  " + item.Entry.Path.String()
		}
	}
	text = textutil.TruncateRight(textutil.SanitizeTerminalText(text), w)
	x := r.drawText(0, y, w, text, style)
	r.fill(x, y, w, style)
}

func formatCount(model *picker.Model) string {
	n := len(model.Items())
	noun := "items"
	if model.Mode() == statepkg.ModeAction {
		noun = "actions"
	}
	if n == 0 {
		return fmt.Sprintf("0 %s", noun)
	}
	return fmt.Sprintf("%d/%d %s", model.Selected()+1, n, noun)
}

func (r *Renderer) drawFooter(model *picker.Model, w, h int) {
	y := h - 1
	if y < headerRows {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	help := textutil.TruncateRight(buildFooterHelpText(model), w)
	x := r.drawText(0, y, w, help, style)
	r.fill(x, y, w, style)
}
