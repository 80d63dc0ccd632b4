// Package scores persists finished games and answers best-time queries
package scores

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	difficulty  TEXT    NOT NULL,
	elapsed_ms  INTEGER NOT NULL,
	session     TEXT    NOT NULL DEFAULT '',
	finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_difficulty ON results(difficulty, elapsed_ms);
`

// Result is one won game
type Result struct {
	Difficulty string
	Elapsed    time.Duration
	Session    string // telnet session ID, empty for local play
	At         time.Time
}

// Store is a SQLite-backed score book, safe for concurrent use by many sessions
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "creating score directory")
		}
	}

	// WAL lets telnet sessions record while others read
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening score database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to score database")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating score schema")
	}

	log.Printf("[SCORES] opened %s", path)
	return &Store{db: db}, nil
}

// Record stores a won game
func (s *Store) Record(r Result) error {
	if r.At.IsZero() {
		r.At = time.Now()
	}
	_, err := s.db.Exec(
		"INSERT INTO results (difficulty, elapsed_ms, session, finished_at) VALUES (?, ?, ?, ?)",
		r.Difficulty, r.Elapsed.Milliseconds(), r.Session, r.At.Unix(),
	)
	if err != nil {
		return errors.Wrapf(err, "recording %s result", r.Difficulty)
	}
	return nil
}

// Best returns the fastest recorded time for difficulty, ok is false when none exist
func (s *Store) Best(difficulty string) (time.Duration, bool, error) {
	var ms sql.NullInt64
	err := s.db.QueryRow("SELECT MIN(elapsed_ms) FROM results WHERE difficulty = ?", difficulty).Scan(&ms)
	if err != nil {
		return 0, false, errors.Wrapf(err, "querying best %s time", difficulty)
	}
	if !ms.Valid {
		return 0, false, nil
	}
	return time.Duration(ms.Int64) * time.Millisecond, true, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
