package input

import (
	"reflect"
	"testing"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/pathnav/internal/state"
	"github.com/kk-code-lab/pathnav/internal/ui/picker"
)

func newHandler(value string) (*InputHandler, chan statepkg.Action) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	model := picker.New()
	model.SetValue(value)
	handler.SetModel(model)
	return handler, actionChan
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		name  string
		value string
		event *tcell.EventKey
		want  statepkg.Action
	}{
		{"rune appends", "proj/", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), statepkg.SetValueAction{Value: "proj/r"}},
		{"backspace", "proj/re", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), statepkg.SetValueAction{Value: "proj/r"}},
		{"backspace multibyte", "żó", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), statepkg.SetValueAction{Value: "ż"}},
		{"alt backspace drops segment", "proj/src/ma", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModAlt), statepkg.SetValueAction{Value: "proj/src/"}},
		{"ctrl-w drops directory", "proj/src/", tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModCtrl), statepkg.SetValueAction{Value: "proj/"}},
		{"enter", "", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), statepkg.AcceptAction{}},
		{"tab", "", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), statepkg.SetValueFromSelectedAction{}},
		{"ctrl-t", "", tcell.NewEventKey(tcell.KeyCtrlT, 0, tcell.ModCtrl), statepkg.ToggleModeAction{}},
		{"ctrl-u", "", tcell.NewEventKey(tcell.KeyCtrlU, 0, tcell.ModCtrl), statepkg.GoUpAction{}},
		{"alt-up", "", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModAlt), statepkg.GoUpAction{}},
		{"up", "", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), picker.MoveAction{Delta: -1}},
		{"down", "", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), picker.MoveAction{Delta: 1}},
		{"page up", "", tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone), picker.PageAction{Direction: -1}},
		{"page down", "", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), picker.PageAction{Direction: 1}},
		{"escape", "", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), statepkg.HideAction{}},
		{"ctrl-z", "", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), SuspendAction{}},
		{"ctrl-c", "", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), statepkg.HideAction{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, actionChan := newHandler(tt.value)
			if !handler.ProcessEvent(tt.event) {
				t.Fatalf("event was not consumed")
			}
			select {
			case got := <-actionChan:
				if !reflect.DeepEqual(got, tt.want) {
					t.Fatalf("action = %#v, want %#v", got, tt.want)
				}
			default:
				t.Fatalf("expected %T to be emitted", tt.want)
			}
		})
	}
}

func TestBackspaceOnEmptyValueEmitsNothing(t *testing.T) {
	handler, actionChan := newHandler("")
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))

	select {
	case action := <-actionChan:
		t.Fatalf("unexpected action %#v", action)
	default:
	}
}

func TestUnboundEventsAreIgnored(t *testing.T) {
	handler, actionChan := newHandler("x")
	if handler.ProcessEvent(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)) {
		t.Fatalf("F5 should not be consumed")
	}
	if handler.ProcessEvent(tcell.NewEventResize(80, 24)) {
		t.Fatalf("resize is handled by the application loop")
	}
	if handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt)) {
		t.Fatalf("alt-modified runes should not edit the input")
	}
	select {
	case action := <-actionChan:
		t.Fatalf("unexpected action %#v", action)
	default:
	}
}

func TestDeleteSegment(t *testing.T) {
	tests := map[string]string{
		"proj/src/main.go": "proj/src/",
		"proj/src/":        "proj/",
		"/":                "",
		"name":             "",
		"/usr":             "/",
	}
	for in, want := range tests {
		if got := deleteSegment(in); got != want {
			t.Errorf("deleteSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunesWithoutModelStartFromEmpty(t *testing.T) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, '~', tcell.ModNone))

	if got := <-actionChan; got != (statepkg.SetValueAction{Value: "~"}) {
		t.Fatalf("action = %#v", got)
	}
}
