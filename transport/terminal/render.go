package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
)

// Canvas is the part of tcell.Screen the renderer draws on
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

var (
	styleText     = tcell.StyleDefault
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreenYellow)
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorGreenYellow).Bold(true)
	styleBoard    = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	styleHead     = tcell.StyleDefault.Background(tcell.ColorLimeGreen)
	styleBody     = tcell.StyleDefault.Background(tcell.ColorSeaGreen)
	styleFood     = tcell.StyleDefault.Background(tcell.ColorOrangeRed)
	styleTrail    = tcell.StyleDefault.Background(tcell.ColorDimGray)
	styleMessage  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHotzone  = tcell.StyleDefault.Foreground(tcell.ColorLightSkyBlue)
	stylePausedHd = tcell.StyleDefault.Background(tcell.ColorGoldenrod)
)

// Renderer draws views using the pixel layout rasterized to terminal cells
type Renderer struct {
	Layout intent.Layout
	Raster Raster
}

func drawText(c Canvas, col, row int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		c.SetContent(col+i, row, r, nil, style)
	}
}

func (r Renderer) fill(c Canvas, rect intent.Rect, ch rune, style tcell.Style) {
	col0, row0, col1, row1 := r.Raster.Span(rect)
	for y := row0; y < row1; y++ {
		for x := col0; x < col1; x++ {
			c.SetContent(x, y, ch, nil, style)
		}
	}
}

// listText writes item labels at the rows of a list region, marking the cursor
func (r Renderer) listText(c Canvas, region intent.ListRegion, items []string, cursor int) {
	for i, item := range items {
		col, row := r.Raster.ToCell(intent.Vec2{X: region.Left, Y: region.First})
		row += int(float64(i) * region.Spacing / r.Raster.CellHeight)
		style := styleText
		label := "  " + item
		if i == cursor {
			style = styleCursor
			label = "> " + item
		}
		drawText(c, col, row, label, style)
	}
}

// Draw renders the view
func (r Renderer) Draw(c Canvas, view *intent.View) {
	if view == nil {
		return
	}
	if view.BackHotzoneEnabled {
		col, row := r.Raster.ToCell(intent.Vec2{X: r.Layout.BackHotzone.MinX, Y: r.Layout.BackHotzone.MinY})
		drawText(c, col, row+1, "< back", styleHotzone)
	}

	switch view.Screen {
	case intent.MainMenu:
		drawText(c, 20, 4, "SNAKE GRID", styleTitle)
		r.listText(c, r.Layout.MainMenu, view.MainMenu, view.MainMenuCursor)
	case intent.ModeSelect:
		drawText(c, 20, 4, "Choose a mode", styleTitle)
		names := make([]string, 0, len(view.Modes))
		for _, m := range view.Modes {
			names = append(names, m.Title())
		}
		r.listText(c, r.Layout.Modes, names, view.ModeCursor)
	case intent.Loadout:
		drawText(c, 20, 4, "Experimental loadout", styleTitle)
		labels := make([]string, 0, len(view.Loadout.Slots))
		for i, slot := range view.Loadout.Slots {
			label := fmt.Sprintf("Slot %d: %s (%s)", i+1, slot.ToolID, slot.Category)
			if !slot.Unlocked {
				label += " locked"
			}
			labels = append(labels, label)
		}
		r.listText(c, r.Layout.LoadoutSlots, labels, view.Loadout.SlotCursor)
	case intent.Running:
		r.drawRun(c, view.Run)
	case intent.Summary:
		r.drawSummary(c, view.Summary)
	case intent.Leaderboard:
		r.drawLeaderboard(c, view)
	case intent.Settings:
		drawText(c, 20, 4, "Settings", styleTitle)
		col, row := r.Raster.ToCell(intent.Vec2{X: r.Layout.SettingsToggle.MinX, Y: r.Layout.SettingsToggle.MinY})
		state := "off"
		if view.ReplayOnDeath {
			state = "on"
		}
		drawText(c, col, row+1, "Replay on death: "+state, styleCursor)
		drawText(c, col, row+3, fmt.Sprintf("Invincible growth: %d", view.CumulativeLength), styleDim)
		drawText(c, col, row+4, "Unlocked: "+joinOrNone(view.UnlockedTools), styleDim)
	}

	if view.Message != "" {
		_, rows := r.Raster.Size(r.Layout)
		drawText(c, 2, rows-2, view.Message, styleMessage)
	}
}

func (r Renderer) drawRun(c Canvas, run *intent.RunView) {
	if run == nil {
		return
	}
	status := fmt.Sprintf("%s  score %d  ticks %d  food %d", run.Mode.Title(), run.Score, run.Metrics.SurvivalTicks, run.Metrics.FoodEaten)
	if run.LoadoutSummary != "none" {
		status += "  [" + run.LoadoutSummary + "]"
	}
	drawText(c, 20, 3, status, styleText)
	if run.Phase != "active" {
		drawText(c, 20, 4, strings.ReplaceAll(run.Phase, "_", " "), styleMessage)
	}

	board := run.Board
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			r.fill(c, r.Layout.CellRect(board, engine.Point{X: x, Y: y}), ' ', styleBoard)
		}
	}
	for _, p := range run.ReplayTrail {
		r.fill(c, r.Layout.CellRect(board, p), ' ', styleTrail)
	}
	for _, p := range run.Foods {
		r.fill(c, r.Layout.CellRect(board, p), ' ', styleFood)
	}
	for i := len(run.Snake) - 1; i >= 0; i-- {
		style := styleBody
		if i == 0 {
			style = styleHead
			if run.Phase == "pointer_idle_pause" {
				style = stylePausedHd
			}
		}
		r.fill(c, r.Layout.CellRect(board, run.Snake[i]), ' ', style)
	}
}

func (r Renderer) drawSummary(c Canvas, s *intent.RunSummary) {
	drawText(c, 20, 4, "Run over", styleTitle)
	if s == nil {
		return
	}
	lines := []string{
		"Mode:     " + s.Mode.Title(),
		fmt.Sprintf("Score:    %d", s.Score),
		fmt.Sprintf("Survived: %d ticks", s.SurvivalTicks),
		fmt.Sprintf("Food:     %d", s.FoodEaten),
		fmt.Sprintf("Growth:   %d", s.GrowthUnits),
		"Loadout:  " + s.LoadoutSummary,
		"",
		"Enter to continue",
	}
	for i, line := range lines {
		drawText(c, 20, 7+i, line, styleText)
	}
}

func (r Renderer) drawLeaderboard(c Canvas, view *intent.View) {
	drawText(c, 20, 4, "Leaderboard: "+view.LeaderboardMode.Title()+"  (left/right to switch)", styleTitle)
	if len(view.LeaderboardRows) == 0 {
		drawText(c, 20, 7, "No runs yet", styleDim)
		return
	}
	for i, e := range view.LeaderboardRows {
		line := fmt.Sprintf("%2d. %6d pts  %6d ticks  %s", i+1, e.Score, e.SurvivalTicks, e.LoadoutSummary)
		drawText(c, 20, 7+i, line, styleText)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
