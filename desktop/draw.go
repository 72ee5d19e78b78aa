package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
)

var (
	colorBackground = color.RGBA{20, 20, 30, 255}
	colorRow        = color.RGBA{40, 40, 55, 255}
	colorCursor     = color.RGBA{90, 120, 40, 255}
	colorHotzone    = color.RGBA{40, 70, 110, 255}
	colorBoard      = color.RGBA{35, 50, 50, 255}
	colorHead       = color.RGBA{120, 230, 80, 255}
	colorBody       = color.RGBA{60, 160, 90, 255}
	colorPausedHead = color.RGBA{220, 170, 40, 255}
	colorFood       = color.RGBA{240, 80, 50, 255}
	colorTrail      = color.RGBA{110, 110, 110, 160}
)

func fillRect(dst *ebiten.Image, r intent.Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.MinX), float32(r.MinY), float32(r.MaxX-r.MinX), float32(r.MaxY-r.MinY), clr, false)
}

// drawList shades each row's hit region so hovering matches what is drawn
func drawList(dst *ebiten.Image, region intent.ListRegion, items []string, cursor int) {
	for i, item := range items {
		row := region.Row(i)
		clr := colorRow
		if i == cursor {
			clr = colorCursor
		}
		fillRect(dst, row, clr)
		ebitenutil.DebugPrintAt(dst, item, int(row.MinX)+12, int(row.MinY+row.MaxY)/2-8)
	}
}

func drawView(dst *ebiten.Image, layout intent.Layout, view *intent.View, event string) {
	dst.Fill(colorBackground)
	if view == nil {
		ebitenutil.DebugPrintAt(dst, "Connecting...", 20, 20)
		return
	}

	if view.BackHotzoneEnabled {
		fillRect(dst, layout.BackHotzone, colorHotzone)
		ebitenutil.DebugPrintAt(dst, "< back", int(layout.BackHotzone.MinX)+12, int(layout.BackHotzone.MinY)+18)
	}

	switch view.Screen {
	case intent.MainMenu:
		ebitenutil.DebugPrintAt(dst, "SNAKE GRID", 200, 90)
		drawList(dst, layout.MainMenu, view.MainMenu, view.MainMenuCursor)
	case intent.ModeSelect:
		ebitenutil.DebugPrintAt(dst, "Choose a mode", 200, 90)
		names := make([]string, 0, len(view.Modes))
		for _, m := range view.Modes {
			names = append(names, m.Title())
		}
		drawList(dst, layout.Modes, names, view.ModeCursor)
	case intent.Loadout:
		ebitenutil.DebugPrintAt(dst, "Experimental loadout: left/right or wheel to change, dwell to start", 200, 90)
		labels := make([]string, 0, len(view.Loadout.Slots))
		for i, slot := range view.Loadout.Slots {
			label := fmt.Sprintf("Slot %d: %s (%s)", i+1, slot.ToolID, slot.Category)
			if !slot.Unlocked {
				label += " locked"
			}
			labels = append(labels, label)
		}
		drawList(dst, layout.LoadoutSlots, labels, view.Loadout.SlotCursor)
	case intent.Running:
		drawRun(dst, layout, view.Run)
	case intent.Summary:
		drawSummary(dst, view.Summary)
	case intent.Leaderboard:
		drawLeaderboard(dst, view)
	case intent.Settings:
		ebitenutil.DebugPrintAt(dst, "Settings", 200, 90)
		fillRect(dst, layout.SettingsToggle, colorCursor)
		state := "off"
		if view.ReplayOnDeath {
			state = "on"
		}
		ebitenutil.DebugPrintAt(dst, "Replay on death: "+state, int(layout.SettingsToggle.MinX)+12, int(layout.SettingsToggle.MinY)+22)
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("Invincible growth: %d", view.CumulativeLength), int(layout.SettingsToggle.MinX), int(layout.SettingsToggle.MaxY)+20)
		ebitenutil.DebugPrintAt(dst, "Unlocked: "+strings.Join(view.UnlockedTools, ", "), int(layout.SettingsToggle.MinX), int(layout.SettingsToggle.MaxY)+40)
	}

	footer := view.Message
	if footer == "" {
		footer = event
	}
	ebitenutil.DebugPrintAt(dst, footer, 20, int(layout.Height)-24)
}

func drawRun(dst *ebiten.Image, layout intent.Layout, run *intent.RunView) {
	if run == nil {
		return
	}
	status := fmt.Sprintf("%s  score %d  ticks %d  food %d  loadout %s",
		run.Mode.Title(), run.Score, run.Metrics.SurvivalTicks, run.Metrics.FoodEaten, run.LoadoutSummary)
	ebitenutil.DebugPrintAt(dst, status, 200, 60)
	if run.Phase != "active" {
		ebitenutil.DebugPrintAt(dst, strings.ReplaceAll(run.Phase, "_", " "), 200, 80)
	}

	board := run.Board
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			r := layout.CellRect(board, engine.Point{X: x, Y: y})
			r.MaxX--
			r.MaxY--
			fillRect(dst, r, colorBoard)
		}
	}
	for _, p := range run.ReplayTrail {
		fillRect(dst, layout.CellRect(board, p), colorTrail)
	}
	for _, p := range run.Foods {
		fillRect(dst, layout.CellRect(board, p), colorFood)
	}
	for i := len(run.Snake) - 1; i >= 0; i-- {
		clr := colorBody
		if i == 0 {
			clr = colorHead
			if run.Phase == "pointer_idle_pause" {
				clr = colorPausedHead
			}
		}
		fillRect(dst, layout.CellRect(board, run.Snake[i]), clr)
	}
	if run.ReplayLeftMs > 0 {
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("replay %dms", run.ReplayLeftMs), 200, 100)
	}
}

func drawSummary(dst *ebiten.Image, s *intent.RunSummary) {
	ebitenutil.DebugPrintAt(dst, "Run over", 200, 90)
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
		"Enter or back to continue",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(dst, line, 200, 140+i*20)
	}
}

func drawLeaderboard(dst *ebiten.Image, view *intent.View) {
	ebitenutil.DebugPrintAt(dst, "Leaderboard: "+view.LeaderboardMode.Title()+"  (left/right or wheel to switch)", 200, 90)
	if len(view.LeaderboardRows) == 0 {
		ebitenutil.DebugPrintAt(dst, "No runs yet", 200, 140)
		return
	}
	for i, e := range view.LeaderboardRows {
		line := fmt.Sprintf("%2d. %6d pts  %6d ticks  %s", i+1, e.Score, e.SurvivalTicks, e.LoadoutSummary)
		ebitenutil.DebugPrintAt(dst, line, 200, 140+i*20)
	}
}
