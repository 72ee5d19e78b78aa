package engine

import (
	"cmp"
	"fmt"
)

// ActiveEffects are computed once from a loadout when a run starts
type ActiveEffects struct {
	TurnBuffer        bool   `json:"turn_buffer"`
	SlowWindow        bool   `json:"slow_window"`
	SoftWrap          bool   `json:"soft_wrap"`
	RewindStep        bool   `json:"rewind_step"`
	ScoreBonusPercent uint64 `json:"score_bonus_percent"`
}

// EffectsFromLoadout derives the effects of a loadout; nil yields no effects
func EffectsFromLoadout(loadout *ToolLoadout) ActiveEffects {
	var effects ActiveEffects
	if loadout == nil {
		return effects
	}
	for _, id := range loadout.Slots() {
		switch id {
		case ToolTurnBuffer:
			effects.TurnBuffer = true
		case ToolSlowWindow:
			effects.SlowWindow = true
		case ToolSoftWrap:
			effects.SoftWrap = true
			effects.ScoreBonusPercent = satAdd(effects.ScoreBonusPercent, 5)
		case ToolRewindStep:
			effects.RewindStep = true
			effects.ScoreBonusPercent = satAdd(effects.ScoreBonusPercent, 10)
		}
	}
	return effects
}

// RunEnd is what happens to a run after a collision is resolved
type RunEnd struct {
	Ends       bool
	ShowReplay bool
}

// ModePolicy is the rule table of one game mode
type ModePolicy interface {
	Mode() GameMode
	CollisionOutcome() CollisionOutcome
	Score(metrics RunMetrics, effects ActiveEffects) uint64
	RunEndState(replayOnDeath bool) RunEnd
	// Compare orders leaderboard entries, best first
	Compare(a, b LeaderboardEntry) int
}

type practicePolicy struct{}

func (practicePolicy) Mode() GameMode                     { return Practice }
func (practicePolicy) CollisionOutcome() CollisionOutcome { return Die }
func (practicePolicy) Score(m RunMetrics, _ ActiveEffects) uint64 {
	return satMul(m.FoodEaten, 10)
}
func (practicePolicy) RunEndState(replay bool) RunEnd   { return RunEnd{Ends: true, ShowReplay: replay} }
func (practicePolicy) Compare(a, b LeaderboardEntry) int { return byScore(a, b) }

type challengePolicy struct{}

func (challengePolicy) Mode() GameMode                     { return Challenge }
func (challengePolicy) CollisionOutcome() CollisionOutcome { return Die }
func (challengePolicy) Score(m RunMetrics, e ActiveEffects) uint64 {
	base := satAdd(satMul(m.SurvivalTicks, 1000), satMul(m.FoodEaten, 10))
	return withBonus(base, e.ScoreBonusPercent)
}
func (challengePolicy) RunEndState(replay bool) RunEnd { return RunEnd{Ends: true, ShowReplay: replay} }

// Challenge rewards endurance first
func (challengePolicy) Compare(a, b LeaderboardEntry) int {
	if c := cmp.Compare(b.SurvivalTicks, a.SurvivalTicks); c != 0 {
		return c
	}
	return byScore(a, b)
}

type experimentalPolicy struct{}

func (experimentalPolicy) Mode() GameMode                     { return Experimental }
func (experimentalPolicy) CollisionOutcome() CollisionOutcome { return Die }
func (experimentalPolicy) Score(m RunMetrics, e ActiveEffects) uint64 {
	base := satAdd(satMul(m.FoodEaten, 12), m.SurvivalTicks/5)
	return withBonus(base, e.ScoreBonusPercent)
}
func (experimentalPolicy) RunEndState(replay bool) RunEnd   { return RunEnd{Ends: true, ShowReplay: replay} }
func (experimentalPolicy) Compare(a, b LeaderboardEntry) int { return byScore(a, b) }

type invinciblePolicy struct{}

func (invinciblePolicy) Mode() GameMode                     { return Invincible }
func (invinciblePolicy) CollisionOutcome() CollisionOutcome { return Reposition }
func (invinciblePolicy) Score(m RunMetrics, e ActiveEffects) uint64 {
	base := satAdd(satMul(m.FoodEaten, 8), m.SurvivalTicks/10)
	return withBonus(base, e.ScoreBonusPercent)
}
func (invinciblePolicy) RunEndState(bool) RunEnd              { return RunEnd{} }
func (invinciblePolicy) Compare(a, b LeaderboardEntry) int { return byScore(a, b) }

func byScore(a, b LeaderboardEntry) int {
	return cmp.Compare(b.Score, a.Score)
}

// PolicyFor returns the rule table of a mode
func PolicyFor(mode GameMode) ModePolicy {
	switch mode {
	case Practice:
		return practicePolicy{}
	case Challenge:
		return challengePolicy{}
	case Experimental:
		return experimentalPolicy{}
	case Invincible:
		return invinciblePolicy{}
	}
	panic(fmt.Sprintf("engine: no policy for %v", mode))
}
