package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
	ErrInvalidName    = errors.New("invalid configuration name")
)

// preferredDefault is the config id used as default when present
const preferredDefault = "classic"

// Manager loads board configurations from a directory and caches them by id.
// The id of a config is its file name without the .json suffix.
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager opens configDir and picks a default config
func NewManager(configDir string) (*Manager, error) {
	info, err := os.Stat(configDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}
	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	return m, nil
}

// configID strips an optional .json suffix and rejects ids that could escape the directory
func configID(name string) (string, error) {
	id := strings.TrimSuffix(name, ".json")
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return id, nil
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.configDir, id+".json")
}

func (m *Manager) cached(id string) (*engine.GameConfig, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[id]
	return cfg, ok
}

func (m *Manager) store(id string, cfg *engine.GameConfig) {
	m.mu.Lock()
	m.configs[id] = cfg
	m.mu.Unlock()
}

// readConfig decodes and validates one config file
func readConfig(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := new(engine.GameConfig)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadConfig returns the config with the given id, reading it on first use
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id, err := configID(name)
	if err != nil {
		return nil, err
	}
	if cfg, ok := m.cached(id); ok {
		return cfg, nil
	}

	cfg, err := readConfig(m.path(id))
	if errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.configs[id]; ok {
		return existing, nil
	}
	m.configs[id] = cfg
	return cfg, nil
}

// ListConfigs describes every valid config in the directory, ordered by id.
// Invalid files are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	files, err := filepath.Glob(filepath.Join(m.configDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}
	slices.Sort(files)

	infos := make([]*service.ConfigInfo, 0, len(files))
	for _, file := range files {
		filename := filepath.Base(file)
		id := strings.TrimSuffix(filename, ".json")
		cfg, err := m.LoadConfig(id)
		if err != nil {
			log.Debug().Err(err).Str("config", id).Msg("skipping config")
			continue
		}
		infos = append(infos, &service.ConfigInfo{
			Filename:    filename,
			ConfigID:    id,
			Name:        cfg.Name,
			Description: cfg.Description,
			BoardWidth:  cfg.BoardWidth,
			BoardHeight: cfg.BoardHeight,
			TickMs:      cfg.TickMs,
		})
	}
	return infos, nil
}

// GetDefault returns the config used when a session names none
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault makes the named config the default
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadConfig(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.defaultConfig = cfg
	m.mu.Unlock()
	return nil
}

// RefreshCache forgets every cached config and picks the default again
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	clear(m.configs)
	m.mu.Unlock()
	return m.loadDefaultConfig()
}

func (m *Manager) loadDefaultConfig() error {
	cfg := m.findDefaultConfig()
	m.mu.Lock()
	m.defaultConfig = cfg
	m.mu.Unlock()
	return nil
}

// findDefaultConfig prefers classic, then the first valid config by id, then the built-in setup
func (m *Manager) findDefaultConfig() *engine.GameConfig {
	if cfg, err := m.LoadConfig(preferredDefault); err == nil {
		return cfg
	}
	if infos, err := m.ListConfigs(); err == nil && len(infos) > 0 {
		if cfg, err := m.LoadConfig(infos[0].ConfigID); err == nil {
			return cfg
		}
	}

	log.Warn().Str("dir", m.configDir).Msg("no valid configs found, using built-in default")
	cfg := engine.DefaultGameConfig()
	cfg.Name = "default"
	cfg.Description = "Default minimal configuration"
	return cfg
}

// SaveConfig validates cfg, writes it as <name>.json and caches it
func (m *Manager) SaveConfig(name string, cfg *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	id, err := configID(name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.path(id), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.store(id, cfg)
	log.Info().Str("config", id).Str("path", m.path(id)).Msg("config saved")
	return nil
}
