// Package sim advances a run in fixed time steps.
//
// Running owns the active direction, a bounded queue of pending turns, the
// food on the board and the seed of the placement generator. Each call to
// Advance adds elapsed time to an accumulator and performs one Step per
// full tick it covers.
//
// Placement is deterministic: every function that draws from the generator
// takes a Seed and returns the next one, so a run replays identically from
// the same starting seed.
package sim
