package input

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/pathnav/internal/state"
	"github.com/kk-code-lab/pathnav/internal/ui/picker"
)

// SuspendAction stops the process and returns control to the shell.
type SuspendAction struct{}

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	model      *picker.Model // Reference to the widget for the current input text
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetModel sets the picker whose input text edits start from.
func (ih *InputHandler) SetModel(model *picker.Model) {
	ih.model = model
}

// ProcessEvent converts a tcell event into an Action. It reports whether
// the event was consumed.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	default:
		return false
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		ih.actionChan <- statepkg.HideAction{}

	case tcell.KeyEnter:
		ih.actionChan <- statepkg.AcceptAction{}

	case tcell.KeyTab:
		ih.actionChan <- statepkg.SetValueFromSelectedAction{}

	case tcell.KeyCtrlZ:
		ih.actionChan <- SuspendAction{}

	case tcell.KeyCtrlT:
		ih.actionChan <- statepkg.ToggleModeAction{}

	case tcell.KeyCtrlU:
		ih.actionChan <- statepkg.GoUpAction{}

	case tcell.KeyUp:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			ih.actionChan <- statepkg.GoUpAction{}
		} else {
			ih.actionChan <- picker.MoveAction{Delta: -1}
		}

	case tcell.KeyDown:
		ih.actionChan <- picker.MoveAction{Delta: 1}

	case tcell.KeyPgUp:
		ih.actionChan <- picker.PageAction{Direction: -1}

	case tcell.KeyPgDn:
		ih.actionChan <- picker.PageAction{Direction: 1}

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		value := ih.value()
		if value == "" {
			return true
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			ih.actionChan <- statepkg.SetValueAction{Value: deleteSegment(value)}
		} else {
			ih.actionChan <- statepkg.SetValueAction{Value: deleteLastRune(value)}
		}

	case tcell.KeyCtrlW:
		if value := ih.value(); value != "" {
			ih.actionChan <- statepkg.SetValueAction{Value: deleteSegment(value)}
		}

	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) != 0 {
			return false
		}
		ih.actionChan <- statepkg.SetValueAction{Value: ih.value() + string(ev.Rune())}

	default:
		return false
	}
	return true
}

func (ih *InputHandler) value() string {
	if ih.model == nil {
		return ""
	}
	return ih.model.Value()
}

func deleteLastRune(value string) string {
	runes := []rune(value)
	if len(runes) == 0 {
		return value
	}
	return string(runes[:len(runes)-1])
}

// deleteSegment removes the last path segment, keeping the separator before
// it so the result still names the parent directory.
func deleteSegment(value string) string {
	trimmed := strings.TrimRight(value, "/"+string(os.PathSeparator))
	if trimmed == "" {
		return ""
	}
	idx := strings.LastIndexAny(trimmed, "/"+string(os.PathSeparator))
	if idx < 0 {
		return ""
	}
	return trimmed[:idx+1]
}
