package sim

import (
	"testing"
	"time"

	"github.com/wricardo/snakegrid/game/engine"
)

func newTestEngine(t *testing.T) *engine.GameEngine {
	t.Helper()
	eng, err := engine.NewEngine(engine.DefaultProfile(), engine.DefaultGameConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng
}

func newTestRunning(t *testing.T, eng *engine.GameEngine, mode engine.GameMode) *Running {
	t.Helper()
	run, err := eng.StartRun(mode, nil)
	if err != nil {
		t.Fatalf("Failed to start run: %v", err)
	}
	r := NewRunning(run, engine.DefaultGameConfig(), 7)
	r.Foods = nil
	return r
}

func TestNewRunningPlacesInitialFood(t *testing.T) {
	eng := newTestEngine(t)
	run, _ := eng.StartRun(engine.Practice, nil)

	r := NewRunning(run, engine.DefaultGameConfig(), 11)

	if len(r.Foods) != 6 {
		t.Fatalf("Expected 6 initial foods, got %d", len(r.Foods))
	}
	for i, a := range r.Foods {
		for _, b := range r.Foods[i+1:] {
			if Adjacent(a, b) {
				t.Errorf("Initial foods %v and %v touch", a, b)
			}
		}
	}
	if r.Direction != Right {
		t.Errorf("Expected to start facing right, got %v", r.Direction)
	}
	if r.Seed == 11 {
		t.Error("Expected seed to advance after placement")
	}
}

func TestDirectionQueueAppliesOneTurnPerTick(t *testing.T) {
	eng := newTestEngine(t)
	r := newTestRunning(t, eng, engine.Practice)

	r.Enqueue(Up)
	r.Enqueue(Left)

	r.Step(eng)
	if r.Direction != Up {
		t.Errorf("Expected Up after first tick, got %v", r.Direction)
	}
	if r.Run.Head() != (engine.Point{X: 5, Y: 4}) {
		t.Errorf("Expected head at (5,4), got %v", r.Run.Head())
	}

	r.Step(eng)
	if r.Direction != Left {
		t.Errorf("Expected Left after second tick, got %v", r.Direction)
	}
	if r.Run.Head() != (engine.Point{X: 4, Y: 4}) {
		t.Errorf("Expected head at (4,4), got %v", r.Run.Head())
	}
}

func TestStepBoundaryCollisionEndsPracticeRun(t *testing.T) {
	eng := newTestEngine(t)
	r := newTestRunning(t, eng, engine.Practice)

	for i := 0; i < 6; i++ {
		if outcome := r.Step(eng); outcome != Moved {
			t.Fatalf("Step %d: expected Moved, got %v", i, outcome)
		}
	}
	snake := append([]engine.Point(nil), r.Run.Snake...)

	if outcome := r.Step(eng); outcome != Ended {
		t.Fatalf("Expected Ended at the wall, got %v", outcome)
	}
	if !r.Run.Ended || r.Run.ShowReplay {
		t.Errorf("Expected ended run without replay, got ended=%v replay=%v", r.Run.Ended, r.Run.ShowReplay)
	}
	if len(r.ReplayTrail) != len(snake) || r.ReplayTrail[0] != snake[0] {
		t.Errorf("Expected replay trail %v, got %v", snake, r.ReplayTrail)
	}
	if score := eng.Score(r.Run); score != r.Run.Metrics.FoodEaten*10 {
		t.Errorf("Expected score %d, got %d", r.Run.Metrics.FoodEaten*10, score)
	}
	if r.Step(eng) != Ended {
		t.Error("Expected ended run to stay ended")
	}
}

func TestStepEatingGrowsAndRefills(t *testing.T) {
	eng := newTestEngine(t)
	r := newTestRunning(t, eng, engine.Practice)

	r.Foods = []engine.Point{{X: 6, Y: 5}}
	if outcome := r.Step(eng); outcome != Ate {
		t.Fatalf("Expected Ate, got %v", outcome)
	}
	if len(r.Run.Snake) != 4 {
		t.Errorf("Expected length 4, got %d", len(r.Run.Snake))
	}
	if len(r.Foods) != 0 {
		t.Errorf("Expected no refill after first food, got %v", r.Foods)
	}

	r.Foods = []engine.Point{{X: 7, Y: 5}}
	r.Step(eng)
	if r.Run.Metrics.FoodEaten != 2 || r.Run.Metrics.GrowthUnits != 2 {
		t.Errorf("Unexpected metrics %+v", r.Run.Metrics)
	}
	if len(r.Foods) != 3 {
		t.Errorf("Expected a refill of 3 after the second food, got %d", len(r.Foods))
	}
	if len(r.Run.Snake) != 5 {
		t.Errorf("Expected length 5, got %d", len(r.Run.Snake))
	}
}

func TestStepTailVacatesUnlessEating(t *testing.T) {
	eng := newTestEngine(t)

	loop := []engine.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 4, Y: 6}, {X: 4, Y: 5}}

	r := newTestRunning(t, eng, engine.Practice)
	r.Run.Snake = append([]engine.Point(nil), loop...)
	r.Direction = Left
	if outcome := r.Step(eng); outcome != Moved {
		t.Errorf("Expected moving into the tail to be safe, got %v", outcome)
	}

	r = newTestRunning(t, eng, engine.Practice)
	r.Run.Snake = append([]engine.Point(nil), loop...)
	r.Direction = Left
	r.Foods = []engine.Point{{X: 4, Y: 5}}
	if outcome := r.Step(eng); outcome != Ended {
		t.Errorf("Expected eating into the tail to collide, got %v", outcome)
	}
}

func TestStepSoftWrap(t *testing.T) {
	eng := newTestEngine(t)
	r := newTestRunning(t, eng, engine.Practice)
	r.Run.Snake = []engine.Point{{X: 11, Y: 5}, {X: 10, Y: 5}, {X: 9, Y: 5}}
	r.Run.Effects.SoftWrap = true

	if outcome := r.Step(eng); outcome != Moved {
		t.Fatalf("Expected wrap to avoid the wall, got %v", outcome)
	}
	if r.Run.Head() != (engine.Point{X: 0, Y: 5}) {
		t.Errorf("Expected head at (0,5), got %v", r.Run.Head())
	}
}

func TestStepInvincibleRepositionsWithGrace(t *testing.T) {
	eng := newTestEngine(t)
	r := newTestRunning(t, eng, engine.Invincible)
	r.Run.Snake = []engine.Point{{X: 11, Y: 5}, {X: 10, Y: 5}, {X: 9, Y: 5}}

	if outcome := r.Step(eng); outcome != Repositioned {
		t.Fatalf("Expected Repositioned, got %v", outcome)
	}
	if r.Run.Ended {
		t.Error("Expected invincible run to continue")
	}
	if r.Run.GraceTicksRemaining != 1 {
		t.Errorf("Expected 1 grace tick, got %d", r.Run.GraceTicksRemaining)
	}
	if !r.Run.Board.Contains(r.Run.Head()) {
		t.Errorf("Expected respawn on the board, got %v", r.Run.Head())
	}

	r.Direction = Down
	r.Run.Snake[0] = engine.Point{X: 2, Y: 2}
	r.Step(eng)
	if r.Run.GraceTicksRemaining != 0 {
		t.Errorf("Expected grace 0 after one tick, got %d", r.Run.GraceTicksRemaining)
	}
	if r.Run.Ended {
		t.Error("Expected run to keep going")
	}
}

func TestCollisionDuringGraceIsStillHandled(t *testing.T) {
	eng := newTestEngine(t)
	r := newTestRunning(t, eng, engine.Invincible)
	r.Run.Snake = []engine.Point{{X: 11, Y: 5}, {X: 10, Y: 5}, {X: 9, Y: 5}}
	if outcome := r.Step(eng); outcome != Repositioned {
		t.Fatalf("Expected Repositioned, got %v", outcome)
	}

	// hit the wall again on the tick right after the respawn
	r.Run.Snake = []engine.Point{{X: 11, Y: 5}, {X: 10, Y: 5}, {X: 9, Y: 5}}
	r.Direction = Right
	if outcome := r.Step(eng); outcome != Repositioned {
		t.Errorf("Expected the second collision to reposition too, got %v", outcome)
	}
	if r.Run.GraceTicksRemaining != 1 {
		t.Errorf("Expected grace reset to 1, got %d", r.Run.GraceTicksRemaining)
	}
}

func TestAdvanceUsesFixedTimestep(t *testing.T) {
	eng := newTestEngine(t)
	r := newTestRunning(t, eng, engine.Practice)

	r.Advance(eng, 100*time.Millisecond)
	if r.Run.Metrics.SurvivalTicks != 0 {
		t.Errorf("Expected no step yet, got %d", r.Run.Metrics.SurvivalTicks)
	}

	r.Advance(eng, 100*time.Millisecond)
	if r.Run.Metrics.SurvivalTicks != 1 {
		t.Errorf("Expected 1 step, got %d", r.Run.Metrics.SurvivalTicks)
	}
	if r.Accumulated() != 20*time.Millisecond {
		t.Errorf("Expected 20ms carried over, got %v", r.Accumulated())
	}

	r.Advance(eng, 400*time.Millisecond)
	if r.Run.Metrics.SurvivalTicks != 3 {
		t.Errorf("Expected 3 steps, got %d", r.Run.Metrics.SurvivalTicks)
	}
	if r.Accumulated() != 60*time.Millisecond {
		t.Errorf("Expected 60ms carried over, got %v", r.Accumulated())
	}
}

func TestAdvanceStopsWhenRunEnds(t *testing.T) {
	eng := newTestEngine(t)
	r := newTestRunning(t, eng, engine.Practice)

	if !r.Advance(eng, 10*time.Second) {
		t.Fatal("Expected run to end against the wall")
	}
	if r.Run.Metrics.SurvivalTicks != 7 {
		t.Errorf("Expected 7 ticks before the crash, got %d", r.Run.Metrics.SurvivalTicks)
	}
}
