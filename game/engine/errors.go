package engine

import (
	"errors"
	"fmt"
)

var (
	// Loadout validation
	ErrInvalidSlotCount  = errors.New("experimental loadout requires exactly three tools")
	ErrUnknownTool       = errors.New("unknown tool")
	ErrToolLocked        = errors.New("tool is locked")
	ErrIncompatibleTools = errors.New("incompatible tools")
	ErrLoadoutRequired   = errors.New("experimental mode requires selecting three unlocked tools")

	// Profile migration
	ErrSchemaTooNew = errors.New("profile schema is newer than supported")

	// Engine invariants
	ErrAlreadyEnded     = errors.New("run has already ended")
	ErrNoSafeRespawn    = errors.New("no safe respawn tile found")
	ErrLoadoutImmutable = errors.New("active loadout is immutable during a run")
)

// IncompatibleToolsError names the two tools that cannot share a loadout
type IncompatibleToolsError struct {
	Tool     string
	Conflict string
}

func (e *IncompatibleToolsError) Error() string {
	return fmt.Sprintf("tool %s is incompatible with %s", e.Tool, e.Conflict)
}

// Is lets errors.Is match ErrIncompatibleTools
func (e *IncompatibleToolsError) Is(target error) bool {
	return target == ErrIncompatibleTools
}
