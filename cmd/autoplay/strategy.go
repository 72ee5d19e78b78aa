package main

import (
	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/sim"
)

var directions = []sim.Direction{sim.Up, sim.Down, sim.Left, sim.Right}

// grid answers which cells the head may enter next tick
type grid struct {
	board   engine.Board
	wrap    bool
	blocked map[engine.Point]bool
}

// newGrid blocks every body cell except the tail, which moves away unless the snake grows
func newGrid(run *intent.RunView) grid {
	g := grid{board: run.Board, wrap: run.Effects.SoftWrap, blocked: make(map[engine.Point]bool, len(run.Snake))}
	for _, p := range run.Snake[:len(run.Snake)-1] {
		g.blocked[p] = true
	}
	return g
}

func (g grid) open(p engine.Point) bool {
	return g.board.Contains(p) && !g.blocked[p]
}

func (g grid) step(p engine.Point, d sim.Direction) engine.Point {
	return sim.Step(p, d, g.board, g.wrap)
}

// NextDirection picks where the snake should head: the first step of a
// shortest path to the nearest food, or the move into the largest open area
// when no food is reachable.
func NextDirection(run *intent.RunView) (sim.Direction, bool) {
	if run == nil || len(run.Snake) == 0 {
		return 0, false
	}
	g := newGrid(run)
	head := run.Snake[0]

	foods := make(map[engine.Point]bool, len(run.Foods))
	for _, f := range run.Foods {
		foods[f] = true
	}
	if d, ok := g.towardFood(head, foods); ok {
		return d, true
	}
	return g.mostSpace(head, run.Direction)
}

func (g grid) towardFood(head engine.Point, foods map[engine.Point]bool) (sim.Direction, bool) {
	type node struct {
		p     engine.Point
		first sim.Direction
	}

	seen := map[engine.Point]bool{head: true}
	var queue []node
	for _, d := range directions {
		next := g.step(head, d)
		if !g.open(next) || seen[next] {
			continue
		}
		if foods[next] {
			return d, true
		}
		seen[next] = true
		queue = append(queue, node{next, d})
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, d := range directions {
			next := g.step(n.p, d)
			if !g.open(next) || seen[next] {
				continue
			}
			if foods[next] {
				return n.first, true
			}
			seen[next] = true
			queue = append(queue, node{next, n.first})
		}
	}
	return 0, false
}

func (g grid) mostSpace(head engine.Point, current sim.Direction) (sim.Direction, bool) {
	best, bestArea := current, -1
	for _, d := range directions {
		next := g.step(head, d)
		if !g.open(next) {
			continue
		}
		if area := g.reachable(next); area > bestArea {
			best, bestArea = d, area
		}
	}
	return best, bestArea >= 0
}

// reachable counts the open cells connected to start
func (g grid) reachable(start engine.Point) int {
	seen := map[engine.Point]bool{start: true}
	stack := []engine.Point{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range directions {
			next := g.step(p, d)
			if g.open(next) && !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return len(seen)
}
