package textutil

import (
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateRight fits text into width columns, cutting the end.
func TruncateRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, Ellipsis)
}

// TruncateLeft fits text into width columns, cutting the beginning so the
// end of a path stays readable.
func TruncateLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	ellipsisWidth := runewidth.StringWidth(Ellipsis)
	if width <= ellipsisWidth {
		return Ellipsis
	}

	runes := []rune(text)
	available := width - ellipsisWidth
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > available {
			break
		}
		used += w
		start--
	}
	return Ellipsis + string(runes[start:])
}
