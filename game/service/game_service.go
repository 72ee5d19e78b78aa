package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrArchiveDisabled = errors.New("run archive is not configured")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Play
	Frame(ctx context.Context, sessionID string, req FrameRequest) (*FrameResult, error)
	StartRun(ctx context.Context, sessionID, mode string, loadout []string) (*FrameResult, error)
	GetView(ctx context.Context, sessionID string) (*intent.View, error)

	// Progression
	GetLeaderboard(ctx context.Context, sessionID, mode string) (*LeaderboardResponse, error)
	GetProfile(ctx context.Context, sessionID string) (*ProfileInfo, error)
	SetReplay(ctx context.Context, sessionID string, enabled bool) (*ProfileInfo, error)
	TopRuns(ctx context.Context, mode string, limit int) ([]*ArchivedRun, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// RunArchive records finished runs across every session
type RunArchive interface {
	RecordRun(ctx context.Context, run ArchivedRun) error
	TopRuns(ctx context.Context, mode engine.GameMode, limit int) ([]*ArchivedRun, error)
}

// Session is one player's App plus bookkeeping. The App is not safe for
// concurrent use; callers hold Lock while touching it.
type Session struct {
	ID             string
	ConfigID       string
	App            *intent.App
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu       sync.Mutex
	accessMu sync.Mutex // guards LastAccessedAt; always the innermost lock
	finished []engine.LeaderboardEntry
}

// NewSession builds a session around a fresh engine for the given profile
func NewSession(id, configID string, config *engine.GameConfig, profile engine.Profile) (*Session, error) {
	eng, err := engine.NewEngine(profile, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	s := &Session{
		ID:             id,
		ConfigID:       configID,
		App:            intent.NewApp(eng, config, intent.DefaultLayout()),
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	s.App.OnRunFinished = func(entry engine.LeaderboardEntry) {
		s.finished = append(s.finished, entry)
	}
	return s, nil
}

// Lock acquires exclusive access to the session's App
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// DrainFinished returns the runs finished since the last call. Callers hold Lock.
func (s *Session) DrainFinished() []engine.LeaderboardEntry {
	out := slices.Clone(s.finished)
	s.finished = s.finished[:0]
	return out
}

// Progress returns the profile and ranked runs that outlive the process
func (s *Session) Progress() (engine.Profile, []engine.LeaderboardEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	eng := s.App.Engine()
	return eng.Profile(), eng.Leaderboards().All()
}

// Touch records an access now
func (s *Session) Touch() {
	s.accessMu.Lock()
	s.LastAccessedAt = time.Now()
	s.accessMu.Unlock()
}

// LastAccess returns when the session was last used
func (s *Session) LastAccess() time.Time {
	s.accessMu.Lock()
	defer s.accessMu.Unlock()
	return s.LastAccessedAt
}
