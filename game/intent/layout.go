package intent

import (
	"math"

	"github.com/wricardo/snakegrid/game/engine"
)

// Vec2 is a pointer position in surface units
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Len returns the vector length
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two positions
func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Rect is an axis-aligned region, edges inclusive
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Contains reports whether p lies inside the rectangle
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ListRegion lays out a vertical list of rows that share a horizontal span.
// Row i sits on baseline First+i*Spacing and spans Above pixels up and Below down.
type ListRegion struct {
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`
	First   float64 `json:"first"`
	Spacing float64 `json:"spacing"`
	Above   float64 `json:"above"`
	Below   float64 `json:"below"`
}

// Row returns the bounds of row i
func (l ListRegion) Row(i int) Rect {
	y := l.First + float64(i)*l.Spacing
	return Rect{MinX: l.Left, MinY: y - l.Above, MaxX: l.Right, MaxY: y + l.Below}
}

// ItemAt returns the first of count rows that contains p
func (l ListRegion) ItemAt(p Vec2, count int) (int, bool) {
	for i := 0; i < count; i++ {
		if l.Row(i).Contains(p) {
			return i, true
		}
	}
	return 0, false
}

// Layout holds the hit regions of every screen
type Layout struct {
	Width          float64    `json:"width"`
	Height         float64    `json:"height"`
	CellSize       float64    `json:"cell_size"`
	BoardTop       float64    `json:"board_top"`
	MainMenu       ListRegion `json:"main_menu"`
	Modes          ListRegion `json:"modes"`
	LoadoutSlots   ListRegion `json:"loadout_slots"`
	SettingsToggle Rect       `json:"settings_toggle"`
	BackHotzone    Rect       `json:"back_hotzone"`
}

// DefaultLayout is a 1000x760 surface with 32 pixel cells
func DefaultLayout() Layout {
	return Layout{
		Width:          1000,
		Height:         760,
		CellSize:       32,
		BoardTop:       130,
		MainMenu:       ListRegion{Left: 80, Right: 480, First: 210, Spacing: 50, Above: 36, Below: 12},
		Modes:          ListRegion{Left: 80, Right: 520, First: 200, Spacing: 52, Above: 36, Below: 12},
		LoadoutSlots:   ListRegion{Left: 80, Right: 910, First: 230, Spacing: 90, Above: 42, Below: 20},
		SettingsToggle: Rect{MinX: 90, MinY: 185, MaxX: 910, MaxY: 245},
		BackHotzone:    Rect{MinX: 16, MinY: 18, MaxX: 136, MaxY: 72},
	}
}

// BoardOrigin returns the top-left corner of the board, centered horizontally
func (l Layout) BoardOrigin(board engine.Board) Vec2 {
	return Vec2{X: (l.Width - float64(board.Width)*l.CellSize) / 2, Y: l.BoardTop}
}

// BoardCell maps a pointer position to the board cell under it
func (l Layout) BoardCell(board engine.Board, p Vec2) (engine.Point, bool) {
	origin := l.BoardOrigin(board)
	maxX := origin.X + float64(board.Width)*l.CellSize
	maxY := origin.Y + float64(board.Height)*l.CellSize
	if p.X < origin.X || p.Y < origin.Y || p.X >= maxX || p.Y >= maxY {
		return engine.Point{}, false
	}
	return engine.Point{
		X: int(math.Floor((p.X - origin.X) / l.CellSize)),
		Y: int(math.Floor((p.Y - origin.Y) / l.CellSize)),
	}, true
}

// CellRect returns the pixel bounds of a board cell
func (l Layout) CellRect(board engine.Board, cell engine.Point) Rect {
	origin := l.BoardOrigin(board)
	x := origin.X + float64(cell.X)*l.CellSize
	y := origin.Y + float64(cell.Y)*l.CellSize
	return Rect{MinX: x, MinY: y, MaxX: x + l.CellSize, MaxY: y + l.CellSize}
}
