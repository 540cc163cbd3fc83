package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Foreground  tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	BrowseBadge tcell.Color
	ActionBadge tcell.Color
	BadgeFg     tcell.Color
	HiddenFg    tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	DirectoryFg tcell.Color
	SymlinkFg   tcell.Color
	FileFg      tcell.Color
	CommandFg   tcell.Color
	PromptFg    tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	ErrorFg     tcell.Color
	SpinnerFg   tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		BrowseBadge: tcell.Color33,
		ActionBadge: tcell.Color172,
		BadgeFg:     tcell.ColorWhite,
		HiddenFg:    tcell.ColorLightSlateGray,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		DirectoryFg: tcell.Color33,
		SymlinkFg:   tcell.Color51,
		FileFg:      tcell.ColorDefault,
		CommandFg:   tcell.Color172,
		PromptFg:    tcell.Color33,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		ErrorFg:     tcell.ColorRed,
		SpinnerFg:   tcell.Color44,
	}
}
