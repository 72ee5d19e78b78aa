package intent

import (
	"math"
	"time"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/sim"
)

// FocusKind names the kind of region the pointer can focus
type FocusKind int

const (
	FocusMainMenuItem FocusKind = iota
	FocusModeItem
	FocusLoadoutSlot
	FocusSettingsToggle
)

// FocusTarget is a hoverable region on a menu screen
type FocusTarget struct {
	Kind  FocusKind
	Index int
}

type pointerState struct {
	last       *Vec2
	focus      *FocusTarget
	focusDwell time.Duration
	focusArmed bool
	backDwell  time.Duration
	backArmed  bool
}

// Pointer applies one pointer sample: position after dt elapsed, plus wheel movement
func (a *App) Pointer(dt time.Duration, pos Vec2, wheel float64) {
	var delta Vec2
	if a.pointer.last != nil {
		delta = pos.Sub(*a.pointer.last)
	}
	a.pointer.last = &pos

	if a.screen == Running {
		a.pointerRunning(dt, pos, delta)
		a.pointer.focus = nil
		a.pointer.focusDwell = 0
		a.pointer.focusArmed = false
		a.pointer.backDwell = 0
		a.pointer.backArmed = false
		return
	}

	a.pointerMenu(dt, pos, delta, wheel)
}

// DirectionFromDelta maps a displacement to a direction once it exceeds threshold
func DirectionFromDelta(delta Vec2, threshold float64) (sim.Direction, bool) {
	if delta.Len() <= threshold {
		return 0, false
	}
	if math.Abs(delta.X) >= math.Abs(delta.Y) {
		if delta.X >= 0 {
			return sim.Right, true
		}
		return sim.Left, true
	}
	if delta.Y >= 0 {
		return sim.Down, true
	}
	return sim.Up, true
}

func (a *App) pointerRunning(dt time.Duration, pos, delta Vec2) {
	if a.running == nil {
		return
	}
	tolerance := a.config.Pointer.DisplacementThreshold

	var (
		steer       sim.Direction
		hasSteer    bool
		resume      bool
		enteredIdle bool
	)

	switch phase := a.running.phase.(type) {
	case *Replay:
		return

	case *PointerIdlePause:
		if pos.Distance(phase.Anchor) > tolerance {
			resume = true
			steer, hasSteer = DirectionFromDelta(pos.Sub(phase.Anchor), tolerance)
		}

	case *Active:
		if phase.grace > 0 {
			phase.grace = max(phase.grace-dt, 0)
		}

		run := a.running.sim.Run
		cell, inBoard := a.layout.BoardCell(run.Board, pos)
		var toward sim.Direction
		hasIntent := false
		if inBoard {
			toward, hasIntent = sim.Toward(run.Head(), cell)
		}
		if hasIntent {
			steer, hasSteer = toward, true
		} else {
			steer, hasSteer = DirectionFromDelta(delta, tolerance)
		}

		// idle detection is off during the grace window, and so is steering
		if phase.grace > 0 {
			return
		}

		if phase.anchor == nil {
			phase.anchor = &pos
		}

		switch {
		case inBoard || hasIntent:
			phase.anchor = &pos
			phase.idle = 0
		case pos.Distance(*phase.anchor) <= tolerance:
			phase.idle += dt
			if phase.idle >= a.config.Pointer.IdleOutside() {
				a.running.phase = &PointerIdlePause{Anchor: pos}
				enteredIdle = true
			}
		default:
			phase.anchor = &pos
			phase.idle = 0
		}
	}

	if resume {
		a.resume(&pos)
	}
	if !enteredIdle && hasSteer {
		a.steer(steer)
	}
}

func (a *App) pointerMenu(dt time.Duration, pos, delta Vec2, wheel float64) {
	tolerance := a.config.Pointer.DisplacementThreshold
	dwell := a.config.Pointer.Dwell()

	if a.scrollable() {
		if wheel > 0 {
			a.Apply(Up)
		} else if wheel < 0 {
			a.Apply(Down)
		}
	}

	if target, ok := a.focusTargetAt(pos); ok {
		a.applyFocus(target)
		if a.pointer.focus != nil && *a.pointer.focus == target && delta.Len() <= tolerance {
			a.pointer.focusDwell += dt
		} else {
			a.pointer.focusDwell = dt
			a.pointer.focus = &target
			a.pointer.focusArmed = false
		}
		if a.pointer.focusDwell >= dwell && !a.pointer.focusArmed {
			a.Apply(Confirm)
			a.pointer.focusArmed = true
		}
	} else {
		a.pointer.focus = nil
		a.pointer.focusDwell = 0
		a.pointer.focusArmed = false
	}

	if a.screen != Running && a.layout.BackHotzone.Contains(pos) {
		if delta.Len() <= tolerance {
			a.pointer.backDwell += dt
		} else {
			a.pointer.backDwell = dt
			a.pointer.backArmed = false
		}
		if a.pointer.backDwell >= dwell && !a.pointer.backArmed {
			a.Apply(Back)
			a.pointer.backArmed = true
		}
	} else {
		a.pointer.backDwell = 0
		a.pointer.backArmed = false
	}
}

func (a *App) scrollable() bool {
	switch a.screen {
	case MainMenu, ModeSelect, Loadout, Leaderboard:
		return true
	}
	return false
}

func (a *App) focusTargetAt(pos Vec2) (FocusTarget, bool) {
	switch a.screen {
	case MainMenu:
		if i, ok := a.layout.MainMenu.ItemAt(pos, len(MainMenuItems)); ok {
			return FocusTarget{Kind: FocusMainMenuItem, Index: i}, true
		}
	case ModeSelect:
		if i, ok := a.layout.Modes.ItemAt(pos, len(engine.Modes)); ok {
			return FocusTarget{Kind: FocusModeItem, Index: i}, true
		}
	case Loadout:
		if i, ok := a.layout.LoadoutSlots.ItemAt(pos, len(a.loadout.selected)); ok {
			return FocusTarget{Kind: FocusLoadoutSlot, Index: i}, true
		}
	case Settings:
		if a.layout.SettingsToggle.Contains(pos) {
			return FocusTarget{Kind: FocusSettingsToggle}, true
		}
	}
	return FocusTarget{}, false
}

func (a *App) applyFocus(target FocusTarget) {
	switch target.Kind {
	case FocusMainMenuItem:
		a.mainMenuCursor = target.Index
	case FocusModeItem:
		a.modeCursor = target.Index
	case FocusLoadoutSlot:
		a.loadout.slotCursor = target.Index
	}
}
