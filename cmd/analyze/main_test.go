package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/snakegrid/game/engine"
)

func TestAnalyzeDefaultConfig(t *testing.T) {
	a := Analyze(engine.DefaultGameConfig(), engine.DemoRegistry())

	if a.Area != 144 || a.FreeCells != 141 {
		t.Errorf("Expected area 144 with 141 free, got %d/%d", a.Area, a.FreeCells)
	}
	if a.RefillRate != 1.5 {
		t.Errorf("Expected refill rate 1.5, got %v", a.RefillRate)
	}
	if a.CrossSeconds < 2.15 || a.CrossSeconds > 2.17 {
		t.Errorf("Expected about 2.16s to cross, got %v", a.CrossSeconds)
	}

	want := []Unlock{
		{engine.ToolTurnBuffer, 15},
		{engine.ToolSlowWindow, 40},
		{engine.ToolSoftWrap, 80},
		{engine.ToolRewindStep, 140},
	}
	if len(a.Unlocks) != len(want) {
		t.Fatalf("Expected %d unlocks, got %v", len(want), a.Unlocks)
	}
	for i := range want {
		if a.Unlocks[i] != want[i] {
			t.Errorf("unlock %d: expected %v, got %v", i, want[i], a.Unlocks[i])
		}
	}
	if len(a.Warnings()) != 0 {
		t.Errorf("Expected no warnings, got %v", a.Warnings())
	}
}

func TestAnalyzeWarnings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*engine.GameConfig)
		want   string
	}{
		{"crowded", func(c *engine.GameConfig) { c.BoardWidth, c.BoardHeight, c.InitialFood = 6, 6, 9 }, "crowded board"},
		{"fast", func(c *engine.GameConfig) { c.TickMs = 50 }, "very fast pace"},
		{"starving", func(c *engine.GameConfig) { c.FoodRefillEvery, c.FoodRefillCount = 3, 1 }, "food supply shrinks"},
		{"too few tools", func(c *engine.GameConfig) { c.Thresholds = []uint64{15, 40} }, "only 2 tools can unlock"},
		{"no tools", func(c *engine.GameConfig) { c.Thresholds = []uint64{7} }, "no tool can ever unlock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := engine.DefaultGameConfig()
			tt.modify(cfg)
			warnings := strings.Join(Analyze(cfg, engine.DemoRegistry()).Warnings(), "\n")
			if !strings.Contains(warnings, tt.want) {
				t.Errorf("Expected warning %q, got %q", tt.want, warnings)
			}
		})
	}
}

func TestAnalyzeLockedTools(t *testing.T) {
	cfg := engine.DefaultGameConfig()
	cfg.Thresholds = []uint64{15, 40, 80}
	a := Analyze(cfg, engine.DemoRegistry())

	if len(a.Locked) != 1 || a.Locked[0] != engine.ToolRewindStep {
		t.Errorf("Expected rewind-step to stay locked, got %v", a.Locked)
	}
}

func TestWriteReport(t *testing.T) {
	var out bytes.Buffer
	writeReport(&out, Analyze(engine.DefaultGameConfig(), engine.DemoRegistry()))

	for _, want := range []string{"Name: classic", "Board area: 144 cells", "15 growth -> turn-buffer", "OK: no warnings"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in report:\n%s", want, out.String())
		}
	}
}

func TestRepositoryConfigs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "configs", "*.json"))
	if err != nil || len(paths) == 0 {
		t.Skip("configs directory not found")
	}
	for _, path := range paths {
		cfg, err := engine.LoadGameConfig(path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		if a := Analyze(cfg, engine.DemoRegistry()); a.Area == 0 {
			t.Errorf("%s: expected a non-empty board", path)
		}
	}
}
