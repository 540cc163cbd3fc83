package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/pathnav/internal/state"
	"github.com/kk-code-lab/pathnav/internal/ui/picker"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(model *picker.Model) string {
	parts := buildFooterHelpSegments(model)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

func buildFooterHelpSegments(model *picker.Model) []string {
	if model == nil {
		return nil
	}
	segments := contextualHelpSegments(model)
	return append(segments, persistentHelpSegments()...)
}

func contextualHelpSegments(model *picker.Model) []string {
	if model.Mode() == statepkg.ModeAction {
		return []string{
			"↵: run",
			"↑↓: select",
			"^T: browse",
		}
	}

	segments := []string{"type: path/filter", "↵: open"}
	if item, ok := model.ActiveItem(); ok && item.Kind == statepkg.ItemEntry {
		segments = append(segments, "Tab: complete")
	}
	return append(segments, "^U: up", "^T: actions")
}

func persistentHelpSegments() []string {
	return []string{"Esc: close"}
}
