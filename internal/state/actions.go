package state

import (
	"github.com/kk-code-lab/pathnav/internal/pathref"
)

// Action is the base interface for all navigator events
type Action interface{}

// ===== VISIBILITY ACTIONS =====

type ShowAction struct{}
type HideAction struct{}

// ===== INPUT ACTIONS =====

type SetValueAction struct {
	Value string
}
type AcceptAction struct{}
type ToggleModeAction struct{}
type GoUpAction struct{}
type SetValueFromSelectedAction struct{}

// ===== BACKGROUND ACTIONS =====

// DirectoryChangedAction reports that the cached listing of Dir changed.
type DirectoryChangedAction struct {
	Dir pathref.Path
}

// ScanStateAction reports the cache going busy or idle.
type ScanStateAction struct {
	Busy bool
}

// ConfigChangedAction carries a reloaded configuration. A nil Roots leaves
// the workspace untouched.
type ConfigChangedAction struct {
	Settings Settings
	Roots    []pathref.Root
}
