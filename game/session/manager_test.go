package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/intent"
	"github.com/wricardo/snakegrid/game/service"
)

func createTestConfig() *engine.GameConfig {
	return engine.DefaultGameConfig()
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with explicit ID", func(t *testing.T) {
		session, err := manager.Create("test1", "classic", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test1" {
			t.Errorf("Expected ID test1, got %s", session.ID)
		}
		if session.ConfigID != "classic" {
			t.Errorf("Expected config classic, got %s", session.ConfigID)
		}
		if session.App.Screen() != intent.MainMenu {
			t.Errorf("Expected new session on main menu, got %v", session.App.Screen())
		}
	})

	t.Run("create with generated ID", func(t *testing.T) {
		session, err := manager.Create("", "classic", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4 character ID, got %q", session.ID)
		}
	})

	t.Run("duplicate ID is case-insensitive", func(t *testing.T) {
		if _, err := manager.Create("TEST1", "classic", config); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		if _, err := manager.Create("../etc", "classic", config); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := createTestConfig()
		bad.TickMs = 0
		if _, err := manager.Create("bad", "bad", bad); err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("MixedCase", "classic", createTestConfig())

	got, err := manager.Get("MIXEDCASE")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got != created {
		t.Error("Expected the same session instance")
	}

	if _, err := manager.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if _, err := manager.Get("no/slashes"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for invalid ID, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("doomed", "classic", createTestConfig())

	if err := manager.Delete("doomed"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("doomed"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected session to be deleted")
	}
	if err := manager.Delete("doomed"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	for i := 1; i <= 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("list%d", i), "classic", config); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	active, _ := manager.Create("active", "classic", config)
	expired, _ := manager.Create("expired", "classic", config)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	deleted := manager.CleanupExpiredSessions(1 * time.Hour)
	if deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}

	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()

	session, _ := manager.Create("access-test", "classic", createTestConfig())
	originalTime := session.LastAccess()

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccess().After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}

	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("concurrent%d", n)
			if _, err := manager.Create(id, "classic", config); err != nil {
				t.Errorf("Failed to create %s: %v", id, err)
				return
			}
			if _, err := manager.Get(id); err != nil {
				t.Errorf("Failed to get %s: %v", id, err)
			}
			manager.UpdateLastAccessed(id)
		}(i)
	}
	wg.Wait()

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	one, _ := manager.Create("one", "classic", config)
	two, _ := manager.Create("two", "classic", config)

	one.App.StartMode(engine.Practice, nil)
	one.App.ToggleReplay()

	if two.App.Screen() != intent.MainMenu {
		t.Errorf("Expected session two to stay on the main menu, got %v", two.App.Screen())
	}
	if two.App.Engine().Profile().ReplayOnDeath {
		t.Error("Expected settings to be per session")
	}
}

// stubPersistence records saves and lets tests control Exists
type stubPersistence struct {
	exists func(id string) bool
	onSave func(s *service.Session)
	saved  []string
}

func (p *stubPersistence) Save(s *service.Session) error {
	p.saved = append(p.saved, s.ID)
	if p.onSave != nil {
		p.onSave(s)
	}
	return nil
}

func (p *stubPersistence) Load(id string) (*service.Session, error) {
	return nil, ErrSessionNotFound
}

func (p *stubPersistence) Delete(id string) error { return nil }

func (p *stubPersistence) ListAll() ([]string, error) { return nil, nil }

func (p *stubPersistence) Exists(id string) bool {
	return p.exists != nil && p.exists(id)
}

func TestManager_GeneratedIDsExhausted(t *testing.T) {
	// every 4 hex digit id already belongs to a stored session
	manager := NewManagerWithPersistence(&stubPersistence{exists: func(string) bool { return true }})

	if _, err := manager.Create("", "classic", createTestConfig()); !errors.Is(err, ErrSessionIDsExhausted) {
		t.Errorf("Expected ErrSessionIDsExhausted, got %v", err)
	}
	if _, err := manager.Create("named", "classic", createTestConfig()); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("Expected ErrSessionAlreadyExists for a stored id, got %v", err)
	}
}

func TestManager_CleanupKeepsSessionUsedDuringSave(t *testing.T) {
	store := &stubPersistence{}
	manager := NewManagerWithPersistence(store)

	session, err := manager.Create("busy", "classic", createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	session.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	// a request arrives while the idle session is being written out
	store.onSave = func(s *service.Session) {
		if _, err := manager.Get(s.ID); err != nil {
			t.Errorf("Get during save failed: %v", err)
		}
	}

	if evicted := manager.CleanupExpiredSessions(time.Hour); evicted != 0 {
		t.Errorf("Expected no eviction, got %d", evicted)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected the session to stay in memory, got %d sessions", manager.Count())
	}
	if len(store.saved) != 2 {
		t.Errorf("Expected the creation and the cleanup saves, got %v", store.saved)
	}
}

func TestManager_GetRefreshesLastAccess(t *testing.T) {
	manager := NewManager()

	session, _ := manager.Create("seen", "classic", createTestConfig())
	session.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if _, err := manager.Get("SEEN"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if evicted := manager.CleanupExpiredSessions(time.Hour); evicted != 0 {
		t.Errorf("Expected a session just fetched to survive cleanup, got %d evicted", evicted)
	}
}
