// Package eventstore persists transform reports so watch mode and repeated
// builds can show what happened across runs.
package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/deskwrap/internal/rewrite"
)

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the store at dbPath. Use ":memory:" for an ephemeral
// store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		build_id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		rewritten INTEGER NOT NULL,
		hash_docs INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		rewrites TEXT NOT NULL,
		outcome TEXT NOT NULL,
		failures TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FailureRecord is one failed document in a stored build.
type FailureRecord struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Record is one stored build.
type Record struct {
	BuildID    string
	Start      time.Time
	End        time.Time
	Documents  int
	Rewritten  int
	HashDocs   int
	Skipped    int
	References map[string]int
	Outcome    string
	Failures   []FailureRecord
}

// AppendReport stores one transform report.
func (s *Store) AppendReport(ctx context.Context, r *rewrite.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rewrites, err := json.Marshal(r.References)
	if err != nil {
		return fmt.Errorf("marshal rewrite counts: %w", err)
	}

	failures := make([]FailureRecord, 0, len(r.Failures))
	for _, f := range r.Failures {
		rec := FailureRecord{Path: f.Path}
		if f.Err != nil {
			rec.Error = f.Err.Error()
		}
		failures = append(failures, rec)
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO builds (build_id, started, finished, documents, rewritten, hash_docs, skipped, rewrites, outcome, failures)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.BuildID, r.Start.UnixMilli(), r.End.UnixMilli(),
		r.Documents, r.RewrittenDocs, r.HashRoutingDocs, r.SkippedRoutes,
		string(rewrites), string(r.Outcome), string(failuresJSON),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, started, finished, documents, rewritten, hash_docs, skipped, rewrites, outcome, failures
		 FROM builds ORDER BY started DESC, build_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec               Record
			started, finished int64
			rewritesJSON      string
			failuresJSON      sql.NullString
		)
		if err := rows.Scan(&rec.BuildID, &started, &finished, &rec.Documents, &rec.Rewritten,
			&rec.HashDocs, &rec.Skipped, &rewritesJSON, &rec.Outcome, &failuresJSON); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		rec.Start = time.UnixMilli(started)
		rec.End = time.UnixMilli(finished)
		if err := json.Unmarshal([]byte(rewritesJSON), &rec.References); err != nil {
			return nil, fmt.Errorf("unmarshal rewrite counts: %w", err)
		}
		if failuresJSON.Valid && failuresJSON.String != "" {
			if err := json.Unmarshal([]byte(failuresJSON.String), &rec.Failures); err != nil {
				return nil, fmt.Errorf("unmarshal failures: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
