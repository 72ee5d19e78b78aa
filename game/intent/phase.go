package intent

import "time"

// Phase is the state of a run while its screen is Running.
// Exactly one of Active, PointerIdlePause or Replay holds at a time.
type Phase interface {
	Name() string
	isPhase()
}

// Active is normal play; the simulation advances
type Active struct {
	anchor *Vec2
	idle   time.Duration
	grace  time.Duration
}

// PointerIdlePause suspends the simulation until the pointer moves away from Anchor
type PointerIdlePause struct {
	Anchor Vec2
}

// Replay shows the death trail until Remaining runs out
type Replay struct {
	Remaining time.Duration
}

func (*Active) Name() string           { return "active" }
func (*PointerIdlePause) Name() string { return "pointer_idle_pause" }
func (*Replay) Name() string           { return "replay" }

func (*Active) isPhase()           {}
func (*PointerIdlePause) isPhase() {}
func (*Replay) isPhase()           {}

// Idle returns how long the pointer has rested outside the board
func (a *Active) Idle() time.Duration { return a.idle }

// Grace returns the time left before idle detection restarts
func (a *Active) Grace() time.Duration { return a.grace }
