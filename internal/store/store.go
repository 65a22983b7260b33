// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/kakitori/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for per-character practice statistics.
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
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS char_stats (
			char TEXT PRIMARY KEY,
			total_attempts INTEGER NOT NULL,
			consecutive_correct INTEGER NOT NULL,
			total_errors INTEGER NOT NULL,
			total_direction_errors INTEGER NOT NULL,
			total_redraws INTEGER NOT NULL,
			total_time_ms INTEGER NOT NULL,
			last_attempt TEXT
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load returns every stored character record.
func (s *Store) Load(ctx context.Context) (map[string]model.StatsRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT char, total_attempts, consecutive_correct, total_errors,
			total_direction_errors, total_redraws, total_time_ms, last_attempt
		 FROM char_stats`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	records := map[string]model.StatsRecord{}
	for rows.Next() {
		var char string
		var rec model.StatsRecord
		var lastAttempt sql.NullString
		if err := rows.Scan(&char, &rec.TotalAttempts, &rec.ConsecutiveCorrect,
			&rec.TotalErrors, &rec.TotalDirectionErrors, &rec.TotalRedraws,
			&rec.TotalTimeMs, &lastAttempt); err != nil {
			return nil, err
		}
		if lastAttempt.Valid {
			parsed, err := time.Parse(time.RFC3339Nano, lastAttempt.String)
			if err != nil {
				return nil, err
			}
			rec.LastAttempt = &parsed
		}
		records[char] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Save upserts the given character records.
func (s *Store) Save(ctx context.Context, records map[string]model.StatsRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
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

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO char_stats (char, total_attempts, consecutive_correct, total_errors,
			total_direction_errors, total_redraws, total_time_ms, last_attempt)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(char) DO UPDATE SET
			total_attempts = excluded.total_attempts,
			consecutive_correct = excluded.consecutive_correct,
			total_errors = excluded.total_errors,
			total_direction_errors = excluded.total_direction_errors,
			total_redraws = excluded.total_redraws,
			total_time_ms = excluded.total_time_ms,
			last_attempt = excluded.last_attempt`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for char, rec := range records {
		var lastAttempt any
		if rec.LastAttempt != nil {
			lastAttempt = rec.LastAttempt.Format(time.RFC3339Nano)
		}
		if _, err = stmt.ExecContext(ctx, char, rec.TotalAttempts, rec.ConsecutiveCorrect,
			rec.TotalErrors, rec.TotalDirectionErrors, rec.TotalRedraws,
			rec.TotalTimeMs, lastAttempt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Reset removes the stored record for a character.
func (s *Store) Reset(ctx context.Context, char string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM char_stats WHERE char = ?`, char)
	return err
}
