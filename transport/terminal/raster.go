package terminal

import (
	"math"

	"github.com/wricardo/snakegrid/game/intent"
)

// Raster maps the pixel layout onto terminal cells
type Raster struct {
	CellWidth  float64
	CellHeight float64
}

// DefaultRaster treats a terminal cell as 10x20 pixels, so the default
// 1000x760 layout fits in 100x38 cells
func DefaultRaster() Raster {
	return Raster{CellWidth: 10, CellHeight: 20}
}

// ToPixel returns the pixel at the center of a terminal cell
func (r Raster) ToPixel(col, row int) intent.Vec2 {
	return intent.Vec2{
		X: float64(col)*r.CellWidth + r.CellWidth/2,
		Y: float64(row)*r.CellHeight + r.CellHeight/2,
	}
}

// ToCell returns the terminal cell containing a pixel
func (r Raster) ToCell(p intent.Vec2) (col, row int) {
	return int(math.Floor(p.X / r.CellWidth)), int(math.Floor(p.Y / r.CellHeight))
}

// Span returns the half-open cell range covered by a pixel rectangle.
// Adjacent rectangles map to adjacent, non-overlapping spans.
func (r Raster) Span(rect intent.Rect) (col0, row0, col1, row1 int) {
	col0, row0 = r.ToCell(intent.Vec2{X: rect.MinX, Y: rect.MinY})
	col1, row1 = r.ToCell(intent.Vec2{X: rect.MaxX, Y: rect.MaxY})
	if col1 <= col0 {
		col1 = col0 + 1
	}
	if row1 <= row0 {
		row1 = row0 + 1
	}
	return col0, row0, col1, row1
}

// Size returns the terminal size needed to show the whole layout
func (r Raster) Size(layout intent.Layout) (cols, rows int) {
	return int(math.Ceil(layout.Width / r.CellWidth)), int(math.Ceil(layout.Height / r.CellHeight))
}
