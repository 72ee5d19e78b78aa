package sim

import "time"

// Seed is the state of the placement generator
type Seed uint64

// Next advances the linear congruential generator one draw
func (s Seed) Next() Seed {
	return s*6364136223846793005 + 1
}

// WallClockSeed derives a seed from the current time
func WallClockSeed() Seed {
	return Seed(time.Now().UnixNano())
}
