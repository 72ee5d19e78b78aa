package service

import (
	"time"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
)

const (
	// MaxFrameCommands caps the commands accepted in one frame
	MaxFrameCommands = 64
	// MaxFrameMs caps the time one frame may advance
	MaxFrameMs = 10_000
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	View           *intent.View       `json:"view"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// FrameRequest is one input frame: commands first, then the pointer, then dt
type FrameRequest struct {
	Commands []string     `json:"commands,omitempty"`
	Pointer  *intent.Vec2 `json:"pointer,omitempty"`
	Wheel    float64      `json:"wheel,omitempty"`
	DtMs     int          `json:"dt_ms"`
}

// FrameResult contains the post-frame view and what happened during the frame
type FrameResult struct {
	Success   bool                      `json:"success"`
	View      *intent.View              `json:"view"`
	Message   string                    `json:"message,omitempty"`
	Events    []GameEvent               `json:"events"`
	Finished  []engine.LeaderboardEntry `json:"finished,omitempty"`
	Truncated bool                      `json:"truncated,omitempty"`
}

// GameEvent represents an event that occurred during a frame
type GameEvent struct {
	Type      string    `json:"type"` // "screen", "phase", "run_started", "food_eaten", "run_finished", "unlock"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// LeaderboardResponse lists the ranked runs of one mode
type LeaderboardResponse struct {
	Mode    engine.GameMode           `json:"mode"`
	Ranking string                    `json:"ranking"`
	Entries []engine.LeaderboardEntry `json:"entries"`
}

// ToolInfo describes a tool and whether the player has it
type ToolInfo struct {
	ID               string              `json:"id"`
	Category         engine.ToolCategory `json:"category"`
	UnlockThreshold  *uint64             `json:"unlock_threshold,omitempty"`
	IncompatibleWith []string            `json:"incompatible_with"`
	Unlocked         bool                `json:"unlocked"`
}

// ProfileInfo is the player's progression with the tool catalog
type ProfileInfo struct {
	Profile engine.Profile `json:"profile"`
	Tools   []*ToolInfo    `json:"tools"`
}

// ArchivedRun is a finished run as stored in the run archive
type ArchivedRun struct {
	SessionID      string          `json:"session_id"`
	Mode           engine.GameMode `json:"mode"`
	Score          uint64          `json:"score"`
	SurvivalTicks  uint64          `json:"survival_ticks"`
	LoadoutSummary string          `json:"loadout_summary"`
	FinishedAt     time.Time       `json:"finished_at"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	BoardWidth  int    `json:"board_width"`
	BoardHeight int    `json:"board_height"`
	TickMs      int    `json:"tick_ms"`
}
