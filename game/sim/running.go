package sim

import (
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/engine"
)

// StepOutcome describes what one simulation step did
type StepOutcome int

const (
	Moved StepOutcome = iota
	Ate
	Repositioned
	Ended
)

var outcomeNames = [...]string{"moved", "ate", "repositioned", "ended"}

func (o StepOutcome) String() string {
	return outcomeNames[o]
}

// Running is the simulation state of one run between its start and its end
type Running struct {
	Run         *engine.GameRun
	Direction   Direction
	Queue       DirectionQueue
	Foods       []engine.Point
	Seed        Seed
	ReplayTrail []engine.Point

	accumulator time.Duration
	tick        time.Duration
	refillEvery uint64
	refillCount int
}

// NewRunning wraps a fresh run and places its initial food from seed
func NewRunning(run *engine.GameRun, config *engine.GameConfig, seed Seed) *Running {
	r := &Running{
		Run:         run,
		Direction:   Right,
		tick:        config.Tick(),
		refillEvery: config.FoodRefillEvery,
		refillCount: config.FoodRefillCount,
	}
	r.Foods, r.Seed = SpawnFood(seed, run, nil, config.InitialFood)
	return r
}

// Enqueue buffers a turn relative to the active direction
func (r *Running) Enqueue(d Direction) bool {
	return r.Queue.Push(d, r.Direction)
}

// Accumulated returns the time not yet consumed by a step
func (r *Running) Accumulated() time.Duration {
	return r.accumulator
}

// Advance adds dt and performs as many fixed steps as it covers.
// It stops early and returns true when the run ends.
func (r *Running) Advance(eng *engine.GameEngine, dt time.Duration) bool {
	r.accumulator += dt
	for r.accumulator >= r.tick {
		r.accumulator -= r.tick
		if r.Step(eng) == Ended {
			return true
		}
	}
	return false
}

// Step performs one discrete simulation step
func (r *Running) Step(eng *engine.GameEngine) StepOutcome {
	run := r.Run
	if run.Ended {
		return Ended
	}

	run.Tick()
	if d, ok := r.Queue.Pop(); ok {
		r.Direction = d
	}

	next := Step(run.Head(), r.Direction, run.Board, run.Effects.SoftWrap)
	eaten := slices.Index(r.Foods, next)
	eating := eaten >= 0

	if r.collides(next, eating) {
		r.ReplayTrail = slices.Clone(run.Snake)
		var respawn engine.Point
		respawn, r.Seed = NextRespawnPosition(r.Seed, run)
		if err := eng.HandleCollision(run, respawn); err != nil {
			log.Warn().Err(err).Str("mode", run.Mode.String()).Msg("collision could not be resolved, ending run")
			run.Ended = true
		}
		if run.Ended {
			return Ended
		}
		return Repositioned
	}

	run.Snake = slices.Insert(run.Snake, 0, next)
	if !eating {
		run.Snake = run.Snake[:len(run.Snake)-1]
		return Moved
	}

	r.Foods = slices.Delete(r.Foods, eaten, eaten+1)
	run.AddFood(1)
	if run.Metrics.FoodEaten%r.refillEvery == 0 {
		var refill []engine.Point
		refill, r.Seed = SpawnFood(r.Seed, run, r.Foods, r.refillCount)
		r.Foods = append(r.Foods, refill...)
	}
	return Ate
}

// collides reports whether moving the head to next hits a wall or the body.
// The tail only counts when the snake grows this step.
func (r *Running) collides(next engine.Point, eating bool) bool {
	run := r.Run
	if !run.Board.Contains(next) {
		return true
	}
	body := run.Snake
	if !eating && len(body) > 0 {
		body = body[:len(body)-1]
	}
	return slices.Contains(body, next)
}
