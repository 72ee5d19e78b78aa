// Package sqlite provides the SQLite-backed run archive.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/service"
	"github.com/wricardo/snakegrid/storage/sqlite/migrations"
)

// Store persists finished runs from every session in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// toInt64 clamps counters that exceed SQLite's signed integer range
func toInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// Open opens a SQLite run archive and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordRun inserts one finished run.
func (s *Store) RecordRun(ctx context.Context, run service.ArchivedRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	sessionID := strings.TrimSpace(run.SessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	finishedAt := run.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO runs (
		   session_id,
		   mode,
		   score,
		   survival_ticks,
		   loadout_summary,
		   finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID,
		run.Mode.String(),
		toInt64(run.Score),
		toInt64(run.SurvivalTicks),
		run.LoadoutSummary,
		toMillis(finishedAt),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// TopRuns returns the best runs of a mode, ranked the way its leaderboard ranks them.
func (s *Store) TopRuns(ctx context.Context, mode engine.GameMode, limit int) ([]*service.ArchivedRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	order := "score DESC, id ASC"
	if mode == engine.Challenge {
		order = "survival_ticks DESC, score DESC, id ASC"
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT session_id, mode, score, survival_ticks, loadout_summary, finished_at
		   FROM runs
		  WHERE mode = ?
		  ORDER BY `+order+`
		  LIMIT ?`,
		mode.String(),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top runs: %w", err)
	}
	defer rows.Close()

	runs := []*service.ArchivedRun{}
	for rows.Next() {
		var (
			run        service.ArchivedRun
			modeName   string
			score      int64
			survival   int64
			finishedAt int64
		)
		if err := rows.Scan(&run.SessionID, &modeName, &score, &survival, &run.LoadoutSummary, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		parsed, err := engine.ParseGameMode(modeName)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Mode = parsed
		run.Score = uint64(score)
		run.SurvivalTicks = uint64(survival)
		run.FinishedAt = fromMillis(finishedAt)
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// CountRuns returns how many runs have been archived.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}
