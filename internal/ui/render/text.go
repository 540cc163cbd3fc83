package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

func (r *Renderer) runeWidth(ru rune) int {
	if w, ok := r.widths[ru]; ok {
		return w
	}
	w := runewidth.RuneWidth(ru)
	if w < 0 {
		w = 0
	}
	r.widths[ru] = w
	return w
}

// drawText writes text from startX, stopping before maxX, and returns the
// column after the last rune drawn. Zero-width runes ride along with the
// cell before them.
func (r *Renderer) drawText(startX, y, maxX int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	for i := 0; i < len(runes); {
		mainc := runes[i]
		i++
		start := i
		for i < len(runes) && r.runeWidth(runes[i]) == 0 {
			i++
		}
		var combc []rune
		if i > start {
			combc = runes[start:i]
		}

		w := max(r.runeWidth(mainc), 1)
		if x+w > maxX {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}
	return x
}

func (r *Renderer) fill(startX, y, maxX int, style tcell.Style) {
	for x := startX; x < maxX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
