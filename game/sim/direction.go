package sim

import (
	"fmt"
	"strings"

	"github.com/wricardo/snakegrid/game/engine"
)

// Direction is one of the four steering directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection converts a direction name
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

// MarshalText encodes the direction as its name
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Opposite returns the 180 degree turn
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta is the one-cell offset of the direction
func (d Direction) Delta() engine.Point {
	switch d {
	case Up:
		return engine.Point{Y: -1}
	case Down:
		return engine.Point{Y: 1}
	case Left:
		return engine.Point{X: -1}
	default:
		return engine.Point{X: 1}
	}
}

// Step moves p one cell, wrapping around the board edges when wrap is set
func Step(p engine.Point, d Direction, board engine.Board, wrap bool) engine.Point {
	next := p.Add(d.Delta())
	if wrap {
		next.X = (next.X%board.Width + board.Width) % board.Width
		next.Y = (next.Y%board.Height + board.Height) % board.Height
	}
	return next
}

// Toward steers from one cell to another along the dominant axis, ties going to x
func Toward(from, to engine.Point) (Direction, bool) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if dx == 0 && dy == 0 {
		return 0, false
	}
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return Right, true
		}
		return Left, true
	}
	if dy > 0 {
		return Down, true
	}
	return Up, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
