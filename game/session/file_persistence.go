package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wricardo/snakegrid/game/service"
)

const sessionExt = ".json"

// FilePersistence stores one JSON document per session in a directory.
// Only progression is stored: the profile, leaderboards and bookkeeping.
// A run in progress is not persisted.
type FilePersistence struct {
	sessionsDir   string
	configManager service.ConfigManager
}

// NewFilePersistence creates sessionsDir if needed
func NewFilePersistence(sessionsDir string, configManager service.ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &FilePersistence{sessionsDir: sessionsDir, configManager: configManager}, nil
}

func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, strings.ToLower(id)+sessionExt)
}

// encodeSession snapshots the parts of a session that outlive the process
func encodeSession(session *service.Session) ([]byte, error) {
	profile, leaderboard := session.Progress()
	rawProfile, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return json.MarshalIndent(PersistedSessionData{
		ID:             session.ID,
		ConfigName:     session.ConfigID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccess(),
		Profile:        rawProfile,
		Leaderboard:    leaderboard,
	}, "", "  ")
}

// Save writes the session through a temp file so readers never see a partial document
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fp.sessionsDir, session.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fp.getFilePath(session.ID)); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Load rebuilds a session, migrating older profile documents on the way
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	raw, err := os.ReadFile(fp.getFilePath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	gameConfig, err := fp.configManager.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}
	profile, err := LoadProfile(data.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to restore profile: %w", err)
	}

	session, err := service.NewSession(data.ID, data.ConfigName, gameConfig, profile)
	if err != nil {
		return nil, err
	}
	session.App.Engine().RestoreLeaderboard(data.Leaderboard)
	session.CreatedAt = data.CreatedAt
	session.LastAccessedAt = data.LastAccessedAt
	return session, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	err := os.Remove(fp.getFilePath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// ListAll returns the ids of every stored session in ascending order
func (fp *FilePersistence) ListAll() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(fp.sessionsDir, "*"+sessionExt))
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	ids := make([]string, 0, len(paths))
	for _, path := range paths {
		ids = append(ids, strings.TrimSuffix(filepath.Base(path), sessionExt))
	}
	slices.Sort(ids)
	return ids, nil
}

// Exists reports whether a session file is present
func (fp *FilePersistence) Exists(id string) bool {
	info, err := os.Stat(fp.getFilePath(id))
	return err == nil && !info.IsDir()
}
