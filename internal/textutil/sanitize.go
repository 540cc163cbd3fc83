package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// SanitizeTerminalText makes file names and typed paths safe to draw on a
// single terminal row. Whitespace controls become spaces, other C0/C1
// controls become '?', and invisible format runes (bidi overrides,
// zero-width joiners, BOM, line/paragraph separators) are spelled out as
// ⟪U+XXXX⟫ so a name cannot disguise itself.
func SanitizeTerminalText(text string) string {
	if strings.IndexFunc(text, needsSanitizing) < 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case unicode.IsControl(r):
			b.WriteByte('?')
		case isInvisibleFormat(r):
			fmt.Fprintf(&b, "⟪U+%04X⟫", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitizing(r rune) bool {
	return unicode.IsControl(r) || isInvisibleFormat(r)
}

func isInvisibleFormat(r rune) bool {
	return unicode.In(r, unicode.Cf, unicode.Zl, unicode.Zp) || r == 0x180E
}
