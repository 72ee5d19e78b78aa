package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
	ErrSessionIDsExhausted  = errors.New("no free session ID")
)

// maxIDAttempts bounds random id generation
const maxIDAttempts = 1024

var validSessionID = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Manager keeps live sessions in memory, backed by an optional store.
// Keys are always lowercase.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*service.Session
	persistence SessionPersistence
}

func NewManager() *Manager {
	return NewManagerWithPersistence(nil)
}

// NewManagerWithPersistence returns a manager that writes through to persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    map[string]*service.Session{},
		persistence: persistence,
	}
}

// normalizeID lowercases an ID and checks it is safe to use as a file name
func normalizeID(id string) (string, error) {
	key := strings.ToLower(id)
	if !validSessionID.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return key, nil
}

func (m *Manager) stored(key string) bool {
	return m.persistence != nil && m.persistence.Exists(key)
}

func (m *Manager) lookup(id string) (*service.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[strings.ToLower(id)]
	return s, ok
}

func (m *Manager) snapshot() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Collect(maps.Values(m.sessions))
}

// persist saves a session and only logs on failure
func (m *Manager) persist(s *service.Session, msg string) {
	if m.persistence == nil {
		return
	}
	if err := m.persistence.Save(s); err != nil {
		log.Warn().Err(err).Str("session", s.ID).Msg(msg)
	}
}

// newID picks an unused 4 hex digit id. Callers hold mu.
func (m *Manager) newID() (string, error) {
	buf := make([]byte, 2)
	for range maxIDAttempts {
		rand.Read(buf)
		id := hex.EncodeToString(buf)
		if _, taken := m.sessions[id]; !taken && !m.stored(id) {
			return id, nil
		}
	}
	return "", ErrSessionIDsExhausted
}

// Create registers a session with a fresh profile. An empty id is generated.
func (m *Manager) Create(id, configID string, config *engine.GameConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		var err error
		if id, err = m.newID(); err != nil {
			return nil, err
		}
	}
	key, err := normalizeID(id)
	if err != nil {
		return nil, err
	}
	if _, taken := m.sessions[key]; taken || m.stored(key) {
		return nil, ErrSessionAlreadyExists
	}

	s, err := service.NewSession(key, configID, config, engine.DefaultProfile())
	if err != nil {
		return nil, err
	}
	m.sessions[key] = s
	m.persist(s, "failed to persist new session")
	return s, nil
}

// Get finds a session by id, case-insensitively, restoring it from storage when
// it is not in memory. The session is touched before it is handed out so that
// cleanup never evicts a session a caller is about to use.
func (m *Manager) Get(id string) (*service.Session, error) {
	key, err := normalizeID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	if s, ok := m.touch(key); ok {
		return s, nil
	}
	if !m.stored(key) {
		return nil, ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		s.Touch()
		return s, nil
	}
	s, err := m.persistence.Load(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}
	s.Touch()
	m.sessions[key] = s
	log.Debug().Str("session", key).Msg("session restored from storage")
	return s, nil
}

func (m *Manager) touch(key string) (*service.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	if ok {
		s.Touch()
	}
	return s, ok
}

// List returns the sessions held in memory, in no particular order
func (m *Manager) List() []*service.Session {
	return m.snapshot()
}

// Count returns the number of sessions held in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Delete removes a session from memory and storage
func (m *Manager) Delete(id string) error {
	key, err := normalizeID(id)
	if err != nil {
		return ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, live := m.sessions[key]
	delete(m.sessions, key)
	switch {
	case m.stored(key):
		if err := m.persistence.Delete(key); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
	case !live:
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory forgets a session without touching storage
func (m *Manager) DeleteFromMemory(id string) error {
	key := strings.ToLower(id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[key]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

func (m *Manager) UpdateLastAccessed(id string) error {
	s, ok := m.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	s.Touch()
	return nil
}

// Save writes one in-memory session to storage. Without storage it is a no-op.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}
	s, ok := m.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	return m.persistence.Save(s)
}

// CleanupExpiredSessions evicts sessions idle for longer than maxAge.
// Evicted sessions are saved first and come back on the next Get. A session
// touched while it was being saved stays in memory.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	type candidate struct {
		session *service.Session
		seen    time.Time
	}
	var idle []candidate
	for _, s := range m.snapshot() {
		if seen := s.LastAccess(); seen.Before(cutoff) {
			idle = append(idle, candidate{s, seen})
		}
	}

	saved := make([]bool, len(idle))
	for i, c := range idle {
		saved[i] = true
		if m.persistence == nil {
			continue
		}
		if err := m.persistence.Save(c.session); err != nil {
			log.Warn().Err(err).Str("session", c.session.ID).Msg("failed to persist expired session")
			saved[i] = false
		}
	}

	m.mu.Lock()
	evicted := 0
	for i, c := range idle {
		key := strings.ToLower(c.session.ID)
		if !saved[i] || m.sessions[key] != c.session || !c.session.LastAccess().Equal(c.seen) {
			continue
		}
		delete(m.sessions, key)
		evicted++
	}
	m.mu.Unlock()

	if evicted > 0 {
		log.Info().Int("count", evicted).Msg("expired idle sessions")
	}
	return evicted
}

// RunCleanup calls CleanupExpiredSessions every interval until ctx is done
func (m *Manager) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupExpiredSessions(maxAge)
		}
	}
}

// LoadPersistedSessions pulls every stored session into memory. Sessions that
// fail to load are logged and skipped.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}
	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		key := strings.ToLower(id)
		if _, ok := m.sessions[key]; ok {
			continue
		}
		s, err := m.persistence.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("session", id).Msg("failed to load persisted session")
			continue
		}
		m.sessions[key] = s
		loaded++
	}
	if loaded > 0 {
		log.Info().Int("count", loaded).Msg("loaded persisted sessions from storage")
	}
	return nil
}

// SaveAllSessions writes every in-memory session and reports how many failed
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}
	failed := 0
	for _, s := range m.snapshot() {
		if err := m.persistence.Save(s); err != nil {
			log.Warn().Err(err).Str("session", s.ID).Msg("failed to save session")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to save %d sessions", failed)
	}
	return nil
}
