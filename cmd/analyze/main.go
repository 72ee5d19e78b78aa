// Command analyze prints quick, human-readable heuristics about the game
// configurations in a directory (configs by default). It summarizes board
// size, food density and pacing, shows which tools each config can unlock,
// and warns about setups that starve the board or lock tools forever.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/engine"
)

// startingSnake is the length of every new run's snake
const startingSnake = 3

// Unlock is one tool and the cumulative Invincible growth that unlocks it
type Unlock struct {
	ToolID    string
	Threshold uint64
}

// Analysis holds the derived metrics of one configuration
type Analysis struct {
	Name           string
	Area           int
	FreeCells      int
	FoodDensity    float64
	TicksPerSecond float64
	CrossSeconds   float64
	RefillRate     float64
	Unlocks        []Unlock
	Locked         []string
}

// Analyze derives metrics from a configuration
func Analyze(cfg *engine.GameConfig, registry *engine.ToolRegistry) Analysis {
	a := Analysis{
		Name:      cfg.Name,
		Area:      cfg.BoardWidth * cfg.BoardHeight,
		FreeCells: cfg.BoardWidth*cfg.BoardHeight - startingSnake,
	}
	if a.Area > 0 {
		a.FoodDensity = float64(cfg.InitialFood) / float64(a.Area)
	}
	if cfg.TickMs > 0 {
		a.TicksPerSecond = 1000 / float64(cfg.TickMs)
		a.CrossSeconds = float64(max(cfg.BoardWidth, cfg.BoardHeight)*cfg.TickMs) / 1000
	}
	if cfg.FoodRefillEvery > 0 {
		a.RefillRate = float64(cfg.FoodRefillCount) / float64(cfg.FoodRefillEvery)
	}

	for def := range registry.List() {
		threshold, ok := def.Threshold()
		if ok && slices.Contains(cfg.Thresholds, threshold) {
			a.Unlocks = append(a.Unlocks, Unlock{ToolID: def.ID, Threshold: threshold})
		} else {
			a.Locked = append(a.Locked, def.ID)
		}
	}
	slices.SortFunc(a.Unlocks, func(x, y Unlock) int {
		if x.Threshold != y.Threshold {
			if x.Threshold < y.Threshold {
				return -1
			}
			return 1
		}
		return strings.Compare(x.ToolID, y.ToolID)
	})
	return a
}

// Warnings lists the problems worth a designer's attention
func (a Analysis) Warnings() []string {
	var warnings []string
	if a.FoodDensity > 0.2 {
		warnings = append(warnings, fmt.Sprintf("crowded board: %.0f%% of cells start with food", a.FoodDensity*100))
	}
	if a.TicksPerSecond > 12 {
		warnings = append(warnings, fmt.Sprintf("very fast pace: %.1f ticks per second", a.TicksPerSecond))
	}
	if a.RefillRate < 1 {
		warnings = append(warnings, fmt.Sprintf("food supply shrinks: %.2f new food per food eaten", a.RefillRate))
	}
	if len(a.Unlocks) > 0 && len(a.Unlocks) < engine.LoadoutSlots {
		warnings = append(warnings, fmt.Sprintf("only %d tools can unlock, Experimental needs %d", len(a.Unlocks), engine.LoadoutSlots))
	}
	if len(a.Unlocks) == 0 {
		warnings = append(warnings, "no tool can ever unlock, Experimental is unplayable")
	}
	return warnings
}

func writeReport(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Board area: %d cells (%d free at start)\n", a.Area, a.FreeCells)
	fmt.Fprintf(w, "Food density: %.1f%%\n", a.FoodDensity*100)
	fmt.Fprintf(w, "Pace: %.1f ticks/s, %.1fs to cross the board\n", a.TicksPerSecond, a.CrossSeconds)
	fmt.Fprintf(w, "Refill: %.2f food per food eaten\n", a.RefillRate)

	fmt.Fprintln(w, "Unlock curve:")
	for _, u := range a.Unlocks {
		fmt.Fprintf(w, "  %4d growth -> %s\n", u.Threshold, u.ToolID)
	}
	if len(a.Locked) > 0 {
		fmt.Fprintf(w, "  never: %s\n", strings.Join(a.Locked, ", "))
	}

	warnings := a.Warnings()
	if len(warnings) == 0 {
		fmt.Fprintln(w, "OK: no warnings")
	}
	for _, warning := range warnings {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		log.Fatal().Err(err).Str("dir", dir).Msg("no configurations found")
	}

	registry := engine.DemoRegistry()
	for _, path := range paths {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(path))
		cfg, err := engine.LoadGameConfig(path)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			continue
		}
		writeReport(os.Stdout, Analyze(cfg, registry))
	}
}
