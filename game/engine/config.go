package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PointerConfig tunes pointer gestures
type PointerConfig struct {
	IdleOutsideMs         int     `json:"idle_outside_ms"`
	DisplacementThreshold float64 `json:"displacement_threshold"`
	DwellMs               int     `json:"dwell_ms"`
	IdleGraceMs           int     `json:"idle_grace_ms"`
}

// IdleOutside is how long the pointer may rest outside the board before the run pauses
func (p PointerConfig) IdleOutside() time.Duration {
	return time.Duration(p.IdleOutsideMs) * time.Millisecond
}

// Dwell is how long the pointer must rest on a target to confirm it
func (p PointerConfig) Dwell() time.Duration {
	return time.Duration(p.DwellMs) * time.Millisecond
}

// IdleGrace is how long idle detection stays off after a resume
func (p PointerConfig) IdleGrace() time.Duration {
	return time.Duration(p.IdleGraceMs) * time.Millisecond
}

// GameConfig is a playable board and pacing setup loaded from JSON
type GameConfig struct {
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	BoardWidth      int           `json:"board_width"`
	BoardHeight     int           `json:"board_height"`
	TickMs          int           `json:"tick_ms"`
	ReplayMs        int           `json:"replay_ms"`
	InitialFood     int           `json:"initial_food"`
	FoodRefillEvery uint64        `json:"food_refill_every"`
	FoodRefillCount int           `json:"food_refill_count"`
	Thresholds      []uint64      `json:"unlock_thresholds"`
	Pointer         PointerConfig `json:"pointer"`
}

// Board returns the configured board size
func (c *GameConfig) Board() Board {
	return Board{Width: c.BoardWidth, Height: c.BoardHeight}
}

// Tick is the fixed simulation step
func (c *GameConfig) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// ReplayDuration is how long the death replay is shown
func (c *GameConfig) ReplayDuration() time.Duration {
	return time.Duration(c.ReplayMs) * time.Millisecond
}

// DefaultGameConfig returns the classic 12x12 setup
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:            "classic",
		Description:     "12x12 board at the standard pace",
		BoardWidth:      12,
		BoardHeight:     12,
		TickMs:          180,
		ReplayMs:        850,
		InitialFood:     6,
		FoodRefillEvery: 2,
		FoodRefillCount: 3,
		Thresholds:      append([]uint64(nil), DefaultThresholds...),
		Pointer: PointerConfig{
			IdleOutsideMs:         10,
			DisplacementThreshold: 2.0,
			DwellMs:               450,
			IdleGraceMs:           200,
		},
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate board size
	if config.BoardWidth < MinBoardSize || config.BoardWidth > MaxBoardSize {
		return fmt.Errorf("config validation: board_width must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.BoardWidth)
	}
	if config.BoardHeight < MinBoardSize || config.BoardHeight > MaxBoardSize {
		return fmt.Errorf("config validation: board_height must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.BoardHeight)
	}

	// Validate pacing
	if config.TickMs <= 0 {
		return fmt.Errorf("config validation: tick_ms must be positive, got %d", config.TickMs)
	}
	if config.ReplayMs <= 0 {
		return fmt.Errorf("config validation: replay_ms must be positive, got %d", config.ReplayMs)
	}

	// Validate food
	area := config.BoardWidth * config.BoardHeight
	if config.InitialFood < 0 || config.InitialFood > area/4 {
		return fmt.Errorf("config validation: initial_food must be between 0 and %d, got %d", area/4, config.InitialFood)
	}
	if config.FoodRefillEvery == 0 {
		return fmt.Errorf("config validation: food_refill_every must be at least 1")
	}
	if config.FoodRefillCount < 0 || config.FoodRefillCount > MaxRefillBatch {
		return fmt.Errorf("config validation: food_refill_count must be between 0 and %d, got %d", MaxRefillBatch, config.FoodRefillCount)
	}

	// Validate unlock curve
	if len(config.Thresholds) == 0 {
		return fmt.Errorf("config validation: unlock_thresholds must not be empty")
	}
	for i := 1; i < len(config.Thresholds); i++ {
		if config.Thresholds[i] <= config.Thresholds[i-1] {
			return fmt.Errorf("config validation: unlock_thresholds must be strictly ascending, got %v", config.Thresholds)
		}
	}

	// Validate pointer tuning
	p := config.Pointer
	if p.IdleOutsideMs <= 0 || p.DwellMs <= 0 || p.IdleGraceMs < 0 {
		return fmt.Errorf("config validation: pointer timings must be positive")
	}
	if p.DisplacementThreshold <= 0 {
		return fmt.Errorf("config validation: pointer.displacement_threshold must be positive, got %g", p.DisplacementThreshold)
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configPath, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
