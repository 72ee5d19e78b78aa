package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
)

// ErrRunInProgress is returned when a run is started over a live one
var ErrRunInProgress = errors.New("a run is already in progress")

const (
	defaultTopRuns = 10
	maxTopRuns     = 100
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithArchive records every finished run in archive
func WithArchive(archive RunArchive) Option {
	return func(s *gameServiceImpl) {
		s.archive = archive
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	archive  RunArchive
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	configID := configName
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s', available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	sess, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Info().Str("session", sess.ID).Str("config", configID).Msg("session created")

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Frame applies one input frame to a session
func (s *gameServiceImpl) Frame(ctx context.Context, sessionID string, req FrameRequest) (*FrameResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.DtMs < 0 {
		return nil, fmt.Errorf("%w: dt_ms must not be negative, got %d", ErrInvalidCommand, req.DtMs)
	}

	result := &FrameResult{Success: true}
	names := req.Commands
	if len(names) > MaxFrameCommands {
		names = names[:MaxFrameCommands]
		result.Truncated = true
	}
	commands := make([]intent.Command, 0, len(names))
	for _, name := range names {
		cmd, err := intent.ParseCommand(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		commands = append(commands, cmd)
	}
	dtMs := req.DtMs
	if dtMs > MaxFrameMs {
		dtMs = MaxFrameMs
		result.Truncated = true
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	before := sess.App.View()
	sess.App.Frame(time.Duration(dtMs)*time.Millisecond, commands, req.Pointer, req.Wheel)
	after := sess.App.View()
	finished := sess.DrainFinished()
	sess.Unlock()

	result.View = &after
	result.Message = after.Message
	result.Events = frameEvents(&before, &after, finished)
	result.Finished = finished

	s.afterRuns(ctx, sess, finished)
	return result, nil
}

// StartRun starts a run in the given mode directly, bypassing the menus
func (s *gameServiceImpl) StartRun(ctx context.Context, sessionID, mode string, loadout []string) (*FrameResult, error) {
	gameMode, err := engine.ParseGameMode(mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	if sess.App.Screen() == intent.Running {
		sess.Unlock()
		return nil, ErrRunInProgress
	}
	before := sess.App.View()
	sess.App.StartMode(gameMode, loadout)
	after := sess.App.View()
	sess.Unlock()

	return &FrameResult{
		Success: after.Screen == intent.Running,
		View:    &after,
		Message: after.Message,
		Events:  frameEvents(&before, &after, nil),
	}, nil
}

// GetView returns the current view of a session
func (s *gameServiceImpl) GetView(ctx context.Context, sessionID string) (*intent.View, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	view := sess.App.View()
	sess.Unlock()
	return &view, nil
}

// GetLeaderboard returns the ranked runs of a mode for one session
func (s *gameServiceImpl) GetLeaderboard(ctx context.Context, sessionID, mode string) (*LeaderboardResponse, error) {
	gameMode, err := engine.ParseGameMode(mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	rows := sess.App.Engine().Leaderboards().Rows(gameMode)
	sess.Unlock()

	return &LeaderboardResponse{
		Mode:    gameMode,
		Ranking: rankingFor(gameMode),
		Entries: rows,
	}, nil
}

// GetProfile returns the session's profile with the tool catalog
func (s *gameServiceImpl) GetProfile(ctx context.Context, sessionID string) (*ProfileInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return profileInfo(sess.App.Engine()), nil
}

// SetReplay sets the replay-on-death preference and persists it
func (s *gameServiceImpl) SetReplay(ctx context.Context, sessionID string, enabled bool) (*ProfileInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	sess.App.Engine().EnableReplay(enabled)
	info := profileInfo(sess.App.Engine())
	sess.Unlock()

	if err := s.sessions.Save(sess.ID); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session after settings change")
	}
	return info, nil
}

// TopRuns returns the best archived runs of a mode across all sessions
func (s *gameServiceImpl) TopRuns(ctx context.Context, mode string, limit int) ([]*ArchivedRun, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	gameMode, err := engine.ParseGameMode(mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if limit <= 0 {
		limit = defaultTopRuns
	}
	limit = min(limit, maxTopRuns)
	return s.archive.TopRuns(ctx, gameMode, limit)
}

// ListConfigs returns all available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("failed to update last access")
	}
	return sess, nil
}

// afterRuns archives finished runs and persists the session's progress
func (s *gameServiceImpl) afterRuns(ctx context.Context, sess *Session, finished []engine.LeaderboardEntry) {
	if len(finished) == 0 {
		return
	}

	if s.archive != nil {
		for _, entry := range finished {
			run := ArchivedRun{
				SessionID:      sess.ID,
				Mode:           entry.Mode,
				Score:          entry.Score,
				SurvivalTicks:  entry.SurvivalTicks,
				LoadoutSummary: entry.LoadoutSummary,
				FinishedAt:     time.Now().UTC(),
			}
			if err := s.archive.RecordRun(ctx, run); err != nil {
				log.Warn().Err(err).Str("session", sess.ID).Msg("failed to archive run")
			}
		}
	}

	if err := s.sessions.Save(sess.ID); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session after run")
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	sess.Lock()
	view := sess.App.View()
	info := &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccess(),
		View:           &view,
		GameConfig:     sess.Config,
	}
	sess.Unlock()
	return info
}

func profileInfo(eng *engine.GameEngine) *ProfileInfo {
	profile := eng.Profile()
	info := &ProfileInfo{Profile: profile}
	for tool := range eng.Registry().List() {
		info.Tools = append(info.Tools, &ToolInfo{
			ID:               tool.ID,
			Category:         tool.Category,
			UnlockThreshold:  tool.UnlockThreshold,
			IncompatibleWith: tool.IncompatibleWith.Sorted(),
			Unlocked:         profile.UnlockedToolIDs.Has(tool.ID),
		})
	}
	return info
}

func rankingFor(mode engine.GameMode) string {
	if mode == engine.Challenge {
		return "survival_ticks desc, score desc"
	}
	return "score desc"
}

// frameEvents describes what changed between two views
func frameEvents(before, after *intent.View, finished []engine.LeaderboardEntry) []GameEvent {
	now := time.Now()
	events := []GameEvent{}
	add := func(kind, format string, args ...any) {
		events = append(events, GameEvent{Type: kind, Message: fmt.Sprintf(format, args...), Timestamp: now})
	}

	if before.Run == nil && after.Run != nil {
		add("run_started", "%s run started with loadout %s", after.Run.Mode, after.Run.LoadoutSummary)
	}
	if before.Run != nil && after.Run != nil {
		if after.Run.Metrics.FoodEaten > before.Run.Metrics.FoodEaten {
			eaten := after.Run.Metrics.FoodEaten - before.Run.Metrics.FoodEaten
			add("food_eaten", "ate %d food, score %d", eaten, after.Run.Score)
		}
		if before.Run.Phase != after.Run.Phase {
			add("phase", "%s -> %s", before.Run.Phase, after.Run.Phase)
		}
	}
	for _, entry := range finished {
		add("run_finished", "%s run finished: score %d, survived %d ticks", entry.Mode, entry.Score, entry.SurvivalTicks)
	}
	if len(after.UnlockedTools) > len(before.UnlockedTools) {
		var fresh []string
		for _, id := range after.UnlockedTools {
			if !slices.Contains(before.UnlockedTools, id) {
				fresh = append(fresh, id)
			}
		}
		add("unlock", "unlocked %s", strings.Join(fresh, ", "))
	}
	if before.Screen != after.Screen {
		add("screen", "%s -> %s", before.Screen, after.Screen)
	}
	return events
}
