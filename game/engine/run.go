package engine

import "slices"

// GameRun is the mutable state of one run
type GameRun struct {
	Mode                GameMode      `json:"mode"`
	Board               Board         `json:"board"`
	Snake               []Point       `json:"snake"`
	Metrics             RunMetrics    `json:"metrics"`
	Ended               bool          `json:"ended"`
	ShowReplay          bool          `json:"show_replay"`
	GraceTicksRemaining uint8         `json:"grace_ticks_remaining"`
	Effects             ActiveEffects `json:"effects"`

	loadout *ToolLoadout
}

// Head returns the snake's head cell
func (r *GameRun) Head() Point {
	return r.Snake[0]
}

// Occupies reports whether the snake covers p
func (r *GameRun) Occupies(p Point) bool {
	return contains(r.Snake, p)
}

// Tick advances the survival counter and burns one grace tick
func (r *GameRun) Tick() {
	r.Metrics.SurvivalTicks = satAdd(r.Metrics.SurvivalTicks, 1)
	if r.GraceTicksRemaining > 0 {
		r.GraceTicksRemaining--
	}
}

// AddFood records one eaten food worth growth units
func (r *GameRun) AddFood(growth uint64) {
	r.Metrics.FoodEaten = satAdd(r.Metrics.FoodEaten, 1)
	r.Metrics.GrowthUnits = satAdd(r.Metrics.GrowthUnits, growth)
}

// Loadout returns the loadout attached at start, if any
func (r *GameRun) Loadout() (ToolLoadout, bool) {
	if r.loadout == nil {
		return ToolLoadout{}, false
	}
	return *r.loadout, true
}

// UpdateRuntimeLoadout always fails: loadouts are fixed for the life of a run
func (r *GameRun) UpdateRuntimeLoadout(ToolLoadout) error {
	return ErrLoadoutImmutable
}

// LoadoutSummary describes the loadout for leaderboards
func (r *GameRun) LoadoutSummary() string {
	if r.loadout == nil {
		return "none"
	}
	return r.loadout.Summary()
}

// Snapshot returns a copy safe to hand to readers
func (r *GameRun) Snapshot() GameRun {
	out := *r
	out.Snake = slices.Clone(r.Snake)
	return out
}
