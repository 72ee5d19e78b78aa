package engine

import (
	"fmt"
	"strings"
)

const (
	// Validation constants
	MinBoardSize   = 6
	MaxBoardSize   = 64
	LoadoutSlots   = 3
	MaxRefillBatch = 16
)

// GameMode identifies one of the fixed rule sets a run is played under
type GameMode int

const (
	Practice GameMode = iota
	Challenge
	Experimental
	Invincible
)

// Modes lists every game mode in menu order
var Modes = []GameMode{Practice, Challenge, Experimental, Invincible}

var modeNames = [...]string{"practice", "challenge", "experimental", "invincible"}

// String returns the lowercase mode name used on the wire
func (m GameMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Title returns the display name of the mode
func (m GameMode) Title() string {
	s := m.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Index returns the position of the mode in Modes
func (m GameMode) Index() int {
	return int(m)
}

// ParseGameMode converts a mode name into a GameMode
func ParseGameMode(s string) (GameMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return GameMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown game mode %q", s)
}

// MarshalText encodes the mode as its name
func (m GameMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name
func (m *GameMode) UnmarshalText(text []byte) error {
	mode, err := ParseGameMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// CollisionOutcome is what a mode does when the snake hits something
type CollisionOutcome int

const (
	Die CollisionOutcome = iota
	Reposition
)

func (o CollisionOutcome) String() string {
	if o == Reposition {
		return "reposition"
	}
	return "die"
}

// Point is a grid cell
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p shifted by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Board is the playing field size
type Board struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the number of cells on the board
func (b Board) Area() int {
	return b.Width * b.Height
}

// Contains reports whether p lies inside the board
func (b Board) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.Width && p.Y < b.Height
}

// CellAt returns the cell at a row-major index
func (b Board) CellAt(index int) Point {
	return Point{X: index % b.Width, Y: index / b.Width}
}

// RunMetrics are the monotonic counters of a run
type RunMetrics struct {
	FoodEaten     uint64 `json:"food_eaten"`
	GrowthUnits   uint64 `json:"growth_units"`
	SurvivalTicks uint64 `json:"survival_ticks"`
}

// LeaderboardEntry is one finished run as ranked on a leaderboard
type LeaderboardEntry struct {
	Mode           GameMode `json:"mode"`
	Score          uint64   `json:"score"`
	SurvivalTicks  uint64   `json:"survival_ticks"`
	LoadoutSummary string   `json:"loadout_summary"`
}
