package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/service"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open store (attempt %d): %v", i+1, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}
}

func TestRecordRunValidation(t *testing.T) {
	store := openTestStore(t)
	err := store.RecordRun(context.Background(), service.ArchivedRun{Mode: engine.Practice})
	if err == nil || !strings.Contains(err.Error(), "session id") {
		t.Fatalf("expected session id error, got %v", err)
	}
}

func TestTopRunsRanking(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	runs := []service.ArchivedRun{
		{SessionID: "a", Mode: engine.Practice, Score: 10, SurvivalTicks: 50, LoadoutSummary: "none", FinishedAt: finished},
		{SessionID: "b", Mode: engine.Practice, Score: 30, SurvivalTicks: 20, LoadoutSummary: "none", FinishedAt: finished},
		{SessionID: "c", Mode: engine.Practice, Score: 30, SurvivalTicks: 90, LoadoutSummary: "none", FinishedAt: finished},
		{SessionID: "a", Mode: engine.Challenge, Score: 50, SurvivalTicks: 10, LoadoutSummary: "none", FinishedAt: finished},
		{SessionID: "b", Mode: engine.Challenge, Score: 5, SurvivalTicks: 80, LoadoutSummary: "none", FinishedAt: finished},
		{SessionID: "c", Mode: engine.Experimental, Score: 7, SurvivalTicks: 3, LoadoutSummary: "turn-buffer+slow-window+soft-wrap", FinishedAt: finished},
	}
	for _, run := range runs {
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	count, err := store.CountRuns(ctx)
	if err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if count != len(runs) {
		t.Fatalf("expected %d runs, got %d", len(runs), count)
	}

	t.Run("score modes keep insertion order on ties", func(t *testing.T) {
		got, err := store.TopRuns(ctx, engine.Practice, 10)
		if err != nil {
			t.Fatalf("top runs: %v", err)
		}
		want := []string{"b", "c", "a"}
		if len(got) != len(want) {
			t.Fatalf("expected %d runs, got %d", len(want), len(got))
		}
		for i, id := range want {
			if got[i].SessionID != id {
				t.Errorf("rank %d: expected %s, got %s", i, id, got[i].SessionID)
			}
		}
		if !got[0].FinishedAt.Equal(finished) {
			t.Errorf("expected finished at %v, got %v", finished, got[0].FinishedAt)
		}
	})

	t.Run("challenge ranks survival first", func(t *testing.T) {
		got, err := store.TopRuns(ctx, engine.Challenge, 10)
		if err != nil {
			t.Fatalf("top runs: %v", err)
		}
		if len(got) != 2 || got[0].SessionID != "b" {
			t.Fatalf("expected session b first, got %+v", got)
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := store.TopRuns(ctx, engine.Practice, 1)
		if err != nil {
			t.Fatalf("top runs: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 run, got %d", len(got))
		}
	})

	t.Run("loadout summary round trips", func(t *testing.T) {
		got, err := store.TopRuns(ctx, engine.Experimental, 10)
		if err != nil {
			t.Fatalf("top runs: %v", err)
		}
		if len(got) != 1 || got[0].LoadoutSummary != "turn-buffer+slow-window+soft-wrap" {
			t.Fatalf("unexpected experimental runs %+v", got)
		}
	})

	t.Run("empty mode", func(t *testing.T) {
		got, err := store.TopRuns(ctx, engine.Invincible, 10)
		if err != nil {
			t.Fatalf("top runs: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %v", got)
		}
	})
}

func TestCanceledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.RecordRun(ctx, service.ArchivedRun{SessionID: "a"}); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if _, err := store.TopRuns(ctx, engine.Practice, 1); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE x (id INTEGER);\n-- +migrate Down\nDROP TABLE x;\n"
	got := extractUpMigration(content)
	if strings.Contains(got, "DROP") || !strings.Contains(got, "CREATE TABLE x") {
		t.Fatalf("unexpected up section %q", got)
	}
}
