package mcp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/service"
)

const instructions = `Snake Grid - Complete Instructions

SCREENS:
main_menu -> mode_select -> (loadout for experimental) -> running -> summary
The main menu also opens the leaderboard and settings. "back" returns one
screen; during a run it ends the run.

COMMANDS:
up, down, left, right move menu cursors and steer the snake.
confirm selects, back returns. A steering command is queued and consumed on
the next tick; reversing straight into the body is ignored.

TIME:
The snake advances one cell every tick (tick_ms in the config). Time only
passes through the frame tool's dt_ms, which is capped per call.

MODES:
- practice: walls and your own body kill you. score = food * 10
- challenge: same deaths. score = survival_ticks * 1000 + food * 10.
  Leaderboard ranks by survival first, then score.
- experimental: same deaths, played with a loadout of exactly three
  unlocked tools. score = food * 12 + survival_ticks / 5
- invincible: collisions move the snake to a free cell instead of ending
  the run. score = food * 8 + survival_ticks / 10. Growth in invincible
  runs is the only way to unlock tools. End the run with back.

TOOLS:
turn-buffer, slow-window, soft-wrap and rewind-step unlock as your total
invincible growth passes each threshold. Some tools cannot be combined.
Use the profile tool to see what is unlocked.

POINTER:
frame also accepts a pointer position in screen pixels. Hovering menu rows
moves the cursor and resting on one selects it. During a run the snake
steers toward the pointer, and a pointer resting outside the board pauses
the run until it moves again.

REPLAY:
With set_replay enabled, a death shows the final body for a moment before
the summary.`

func commandNames() []string {
	return []string{"up", "down", "left", "right", "confirm", "back"}
}

func modeNames() []string {
	names := make([]string, 0, len(engine.Modes))
	for _, m := range engine.Modes {
		names = append(names, m.String())
	}
	return names
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatView(session.View))
}

// formatView renders whichever screen the view is on as plain text
func formatView(view *intent.View) string {
	if view == nil {
		return "No view available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Screen: %s\n", view.Screen)

	switch view.Screen {
	case intent.MainMenu:
		writeMenu(&b, view.MainMenu, view.MainMenuCursor)
	case intent.ModeSelect:
		modes := make([]string, 0, len(view.Modes))
		for _, m := range view.Modes {
			modes = append(modes, m.String())
		}
		writeMenu(&b, modes, view.ModeCursor)
	case intent.Loadout:
		for i, slot := range view.Loadout.Slots {
			marker := "  "
			if i == view.Loadout.SlotCursor {
				marker = "> "
			}
			lock := ""
			if !slot.Unlocked {
				lock = " (locked)"
			}
			fmt.Fprintf(&b, "%sslot %d: %s [%s]%s\n", marker, i+1, slot.ToolID, slot.Category, lock)
		}
	case intent.Running:
		if view.Run != nil {
			b.WriteString(formatRun(view.Run))
		}
	case intent.Summary:
		if s := view.Summary; s != nil {
			fmt.Fprintf(&b, "Mode: %s\nScore: %d\nSurvived: %d ticks\nFood: %d\nGrowth: %d\nLoadout: %s\n",
				s.Mode, s.Score, s.SurvivalTicks, s.FoodEaten, s.GrowthUnits, s.LoadoutSummary)
		}
	case intent.Leaderboard:
		fmt.Fprintf(&b, "Mode: %s\n", view.LeaderboardMode)
		writeEntries(&b, view.LeaderboardRows)
	case intent.Settings:
		fmt.Fprintf(&b, "Replay on death: %t\nInvincible growth: %d\nUnlocked tools: %s\n",
			view.ReplayOnDeath, view.CumulativeLength, joinOrNone(view.UnlockedTools))
	}

	if view.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", view.Message)
	}
	return b.String()
}

func writeMenu(b *strings.Builder, items []string, cursor int) {
	for i, item := range items {
		if i == cursor {
			fmt.Fprintf(b, "> %s\n", item)
		} else {
			fmt.Fprintf(b, "  %s\n", item)
		}
	}
}

func formatRun(run *intent.RunView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s | Phase: %s | Score: %d | Ticks: %d | Food: %d | Heading: %s\n",
		run.Mode, run.Phase, run.Score, run.Metrics.SurvivalTicks, run.Metrics.FoodEaten, run.Direction)
	if len(run.Queued) > 0 {
		queued := make([]string, 0, len(run.Queued))
		for _, d := range run.Queued {
			queued = append(queued, d.String())
		}
		fmt.Fprintf(&b, "Queued: %s\n", strings.Join(queued, ", "))
	}
	if run.LoadoutSummary != "" && run.LoadoutSummary != "none" {
		fmt.Fprintf(&b, "Loadout: %s\n", run.LoadoutSummary)
	}
	if len(run.Snake) > 0 {
		head := run.Snake[0]
		fmt.Fprintf(&b, "Head: (%d,%d) Length: %d\n", head.X, head.Y, len(run.Snake))
	}
	b.WriteString("\n")
	b.WriteString(renderBoard(run))
	return b.String()
}

// renderBoard draws the board: H head, o body, * food, x replay trail
func renderBoard(run *intent.RunView) string {
	w, h := run.Board.Width, run.Board.Height
	if w <= 0 || h <= 0 {
		return ""
	}
	grid := make([][]byte, h)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", w))
	}
	set := func(p engine.Point, c byte) {
		if p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h {
			grid[p.Y][p.X] = c
		}
	}
	for _, p := range run.ReplayTrail {
		set(p, 'x')
	}
	for _, p := range run.Foods {
		set(p, '*')
	}
	for i := len(run.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			set(run.Snake[i], 'H')
		} else {
			set(run.Snake[i], 'o')
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatFrameResult(result *service.FrameResult) string {
	var b strings.Builder
	if result.Truncated {
		b.WriteString("Note: the frame was truncated to the per-call limits\n")
	}
	for _, ev := range result.Events {
		fmt.Fprintf(&b, "[%s] %s\n", ev.Type, ev.Message)
	}
	for _, entry := range result.Finished {
		fmt.Fprintf(&b, "Run finished: %s score %d, survived %d ticks\n", entry.Mode, entry.Score, entry.SurvivalTicks)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(formatView(result.View))
	return b.String()
}

func writeEntries(b *strings.Builder, entries []engine.LeaderboardEntry) {
	if len(entries) == 0 {
		b.WriteString("No runs yet\n")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(b, "%2d. score %d, %d ticks, loadout %s\n", i+1, e.Score, e.SurvivalTicks, e.LoadoutSummary)
	}
}

func formatLeaderboard(board *service.LeaderboardResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leaderboard: %s (ranked by %s)\n\n", board.Mode, board.Ranking)
	writeEntries(&b, board.Entries)
	return b.String()
}

func formatProfile(info *service.ProfileInfo) string {
	var b strings.Builder
	p := info.Profile
	fmt.Fprintf(&b, "Replay on death: %t\nInvincible growth: %d\n", p.ReplayOnDeath, p.InvincibleCumulativeLength)
	if p.OldBestScore != nil {
		fmt.Fprintf(&b, "Best score from an older version: %d\n", *p.OldBestScore)
	}
	b.WriteString("\nTools:\n")
	for _, tool := range info.Tools {
		status := "locked"
		if tool.Unlocked {
			status = "unlocked"
		}
		threshold := "none"
		if tool.UnlockThreshold != nil {
			threshold = fmt.Sprintf("%d", *tool.UnlockThreshold)
		}
		fmt.Fprintf(&b, "- %s [%s] %s, threshold %s", tool.ID, tool.Category, status, threshold)
		if len(tool.IncompatibleWith) > 0 {
			incompatible := slices.Clone(tool.IncompatibleWith)
			slices.Sort(incompatible)
			fmt.Fprintf(&b, ", not with %s", strings.Join(incompatible, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatTopRuns(mode string, runs []*service.ArchivedRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %s runs across sessions:\n\n", mode)
	if len(runs) == 0 {
		b.WriteString("No runs archived yet\n")
		return b.String()
	}
	for i, r := range runs {
		fmt.Fprintf(&b, "%2d. %s: score %d, %d ticks, loadout %s (%s)\n",
			i+1, r.SessionID, r.Score, r.SurvivalTicks, r.LoadoutSummary, r.FinishedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
