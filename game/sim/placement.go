package sim

import "github.com/wricardo/snakegrid/game/engine"

// Adjacent reports whether two cells touch, diagonals included
func Adjacent(a, b engine.Point) bool {
	return abs(a.X-b.X) <= 1 && abs(a.Y-b.Y) <= 1
}

// NextFoodPosition picks a free cell that does not touch any occupied food
func NextFoodPosition(seed Seed, run *engine.GameRun, occupied []engine.Point) (engine.Point, Seed) {
	total := run.Board.Area()
	rng := seed

	for attempt := 0; attempt < total*2; attempt++ {
		rng = rng.Next()
		candidate := run.Board.CellAt(int(uint64(rng) % uint64(total)))
		if run.Occupies(candidate) || containsPoint(occupied, candidate) {
			continue
		}
		if touchesAny(occupied, candidate) {
			continue
		}
		return candidate, rng
	}

	// exhaustive fallback ignores spacing
	for i := 0; i < total; i++ {
		candidate := run.Board.CellAt(i)
		if !run.Occupies(candidate) && !containsPoint(occupied, candidate) {
			return candidate, rng.Next()
		}
	}

	return run.Head(), rng.Next()
}

// SpawnFood places count foods, each spaced from the existing ones and from each other
func SpawnFood(seed Seed, run *engine.GameRun, existing []engine.Point, count int) ([]engine.Point, Seed) {
	spawned := make([]engine.Point, 0, count)
	rng := seed
	for i := 0; i < count; i++ {
		occupied := make([]engine.Point, 0, len(existing)+len(spawned))
		occupied = append(occupied, existing...)
		occupied = append(occupied, spawned...)

		var p engine.Point
		p, rng = NextFoodPosition(rng, run, occupied)
		spawned = append(spawned, p)
	}
	return spawned, rng
}

// NextRespawnPosition scans circularly from a seed-derived offset for a free cell
func NextRespawnPosition(seed Seed, run *engine.GameRun) (engine.Point, Seed) {
	total := run.Board.Area()
	start := int(uint64(seed) % uint64(total))
	for offset := 0; offset < total; offset++ {
		candidate := run.Board.CellAt((start + offset) % total)
		if !run.Occupies(candidate) {
			return candidate, seed + 1
		}
	}
	return run.Head(), seed + 1
}

func containsPoint(cells []engine.Point, p engine.Point) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}

func touchesAny(cells []engine.Point, p engine.Point) bool {
	for _, c := range cells {
		if Adjacent(c, p) {
			return true
		}
	}
	return false
}
