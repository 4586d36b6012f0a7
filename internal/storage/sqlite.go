// Package storage provides SQLite-based persistence for the operator
// fault journal. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the fault journal.
type Store struct {
	db *sql.DB
}

// FaultEntry is one recorded trap event.
type FaultEntry struct {
	ID        int64
	Phase     string // lifecycle phase the trap fired in: initialize, step
	Kind      string // hardware or software
	Detail    string
	Stack     string
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS faults (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phase TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL,
			stack TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_faults_recent ON faults(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_faults_kind ON faults(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordFault inserts one trap event and returns its row ID.
func (s *Store) RecordFault(phase, kind, detail, stack string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO faults (phase, kind, detail, stack) VALUES (?, ?, ?, ?)`,
		phase, kind, detail, stack,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record fault: %w", err)
	}
	return res.LastInsertId()
}

// RecentFaults returns the most recent trap events, newest first.
func (s *Store) RecentFaults(limit int) ([]FaultEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, phase, kind, detail, stack, created_at
		 FROM faults ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query faults: %w", err)
	}
	defer rows.Close()

	var entries []FaultEntry
	for rows.Next() {
		var e FaultEntry
		if err := rows.Scan(&e.ID, &e.Phase, &e.Kind, &e.Detail, &e.Stack, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan fault row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountFaults returns the total number of recorded trap events.
func (s *Store) CountFaults() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM faults`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count faults: %w", err)
	}
	return n, nil
}
