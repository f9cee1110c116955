package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jobscout-engine/internal/domain"
)

// Store persists the cross-run state: the seen-posting identity set and the
// bounded run history. Everything else in the pipeline is per-run.
type Store struct {
	db         *sql.DB
	runHistory int
}

func New(db *DB, runHistory int) (*Store, error) {
	if runHistory <= 0 {
		runHistory = 10
	}
	if err := migrate(db.Pool); err != nil {
		return nil, err
	}
	return &Store{db: db.Pool, runHistory: runHistory}, nil
}

func migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS seen_postings (
  key TEXT PRIMARY KEY,
  source TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  started_at TEXT NOT NULL,
  payload TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_runs_started_at
ON runs(started_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// MarkSeen records every posting's identity and reports which keys were not
// seen before this run.
func (s *Store) MarkSeen(ctx context.Context, postings []domain.VerifiedPosting) (map[string]bool, error) {
	isNew := make(map[string]bool, len(postings))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range postings {
		key := seenKey(p)
		if key == "" {
			continue
		}
		res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO seen_postings(key, source, first_seen)
VALUES(?,?,?);`, key, string(p.Source), now)
		if err != nil {
			return nil, fmt.Errorf("mark seen: %w", err)
		}
		n, _ := res.RowsAffected()
		isNew[key] = n > 0
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return isNew, nil
}

func seenKey(p domain.VerifiedPosting) string {
	if p.CanonicalURL != "" {
		return p.CanonicalURL
	}
	return p.ID
}

// AppendRun stores the run record and trims the history to its bound.
func (s *Store) AppendRun(ctx context.Context, run domain.PipelineRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs(started_at, payload) VALUES(?,?);`,
		run.StartedAt.UTC().Format(time.RFC3339), string(payload)); err != nil {
		return fmt.Errorf("append run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM runs
WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?);`,
		s.runHistory); err != nil {
		return fmt.Errorf("trim run history: %w", err)
	}

	return tx.Commit()
}

// History returns up to limit runs, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	if limit <= 0 || limit > s.runHistory {
		limit = s.runHistory
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT payload FROM runs ORDER BY id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PipelineRun
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var run domain.PipelineRun
		if err := json.Unmarshal([]byte(payload), &run); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
