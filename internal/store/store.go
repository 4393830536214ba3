// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/verte-zerg/typetest/internal/model"
)

// ErrNotDatabase reports an existing file that SQLite cannot read as a
// database.
var ErrNotDatabase = errors.New("not a sqlite database")

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		if notDatabase(err) {
			return nil, fmt.Errorf("%w: %v", ErrNotDatabase, err)
		}
		return nil, err
	}
	return store, nil
}

func notDatabase(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() & 0xff {
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
			return true
		}
	}
	return strings.Contains(err.Error(), "not a database")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			ended_at TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			mistakes INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_char_stats (
			session_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_session_char_stats_char ON session_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append stores a completed session and its per-character stats.
func (s *Store) Append(ctx context.Context, sum model.Summary, chars []model.CharStats) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (ended_at, wpm, accuracy, mistakes) VALUES (?, ?, ?, ?)`,
		sum.Timestamp.UTC().Format(time.RFC3339Nano),
		sum.WPM,
		sum.Accuracy,
		sum.Mistakes,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if len(chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_char_stats (session_id, char, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, id, cs.Char, cs.Correct, cs.Incorrect, cs.LatencySumMs, cs.LatencyCount); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// Summaries returns every stored session in insertion order.
func (s *Store) Summaries(ctx context.Context) ([]model.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ended_at, wpm, accuracy, mistakes FROM sessions ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var summaries []model.Summary
	for rows.Next() {
		var sum model.Summary
		var endedAt string
		if err := rows.Scan(&endedAt, &sum.WPM, &sum.Accuracy, &sum.Mistakes); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		sum.Timestamp = parsed.UTC()
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetWeakChars aggregates character stats over the most recent sessions.
func (s *Store) GetWeakChars(ctx context.Context, window int) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		ORDER BY id DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.correct) AS correct, SUM(cs.incorrect) AS incorrect,
		SUM(cs.latency_sum_ms) AS latency_sum_ms, SUM(cs.latency_count) AS latency_count
	FROM session_char_stats cs
	JOIN recent_sessions r ON r.id = cs.session_id
	GROUP BY cs.char`
	return s.queryAggregates(ctx, query, window)
}

// ListCharAggregates aggregates per-character stats across all sessions.
func (s *Store) ListCharAggregates(ctx context.Context) ([]model.CharAggregate, error) {
	query := `SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect,
		SUM(latency_sum_ms) AS latency_sum_ms, SUM(latency_count) AS latency_count
		FROM session_char_stats
		GROUP BY char`
	return s.queryAggregates(ctx, query)
}

func (s *Store) queryAggregates(ctx context.Context, query string, args ...any) ([]model.CharAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
