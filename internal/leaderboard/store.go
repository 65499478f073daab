// Package leaderboard persists terminal round outcomes to SQLite. The
// orchestrator depends only on the Recorder interface and calls AddEntry
// exactly once per terminal outcome.
package leaderboard

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// MaxEntriesPerMode bounds how many scores TopScores returns by default
const MaxEntriesPerMode = 10

// Entry is one recorded session outcome
type Entry struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"playerName"`
	Mode       string    `json:"mode"`
	Score      int       `json:"score"`
	Word       string    `json:"word"`
	Errors     int       `json:"errors"`
	Won        bool      `json:"won"`
	Timestamp  time.Time `json:"timestamp"`
}

// Recorder is the narrow dependency the session orchestrator takes
type Recorder interface {
	AddEntry(entry Entry) error
}

// Store is the SQLite-backed leaderboard
type Store struct {
	db *sql.DB
}

// Open opens (and creates if missing) the leaderboard database with WAL
// journaling and a busy timeout, then applies the schema.
func Open(dsn string) (*Store, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS leaderboard (
			id         TEXT PRIMARY KEY,
			player     TEXT NOT NULL,
			mode       TEXT NOT NULL,
			score      INTEGER NOT NULL,
			word       TEXT NOT NULL,
			errors     INTEGER NOT NULL,
			won        INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_mode_score
			ON leaderboard (mode, score DESC);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// AddEntry records one terminal round outcome
func (s *Store) AddEntry(entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO leaderboard (id, player, mode, score, word, errors, won, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.PlayerName, entry.Mode, entry.Score, entry.Word,
		entry.Errors, boolToInt(entry.Won), entry.Timestamp.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// TopScores returns the best entries for a mode, highest score first.
// limit <= 0 selects the default.
func (s *Store) TopScores(mode string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = MaxEntriesPerMode
	}

	rows, err := s.db.Query(
		`SELECT id, player, mode, score, word, errors, won, created_at
		 FROM leaderboard WHERE mode = ?
		 ORDER BY score DESC, created_at ASC LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var won int
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Mode, &e.Score, &e.Word, &e.Errors, &won, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Won = won != 0
		e.Timestamp = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearMode removes every entry for a mode
func (s *Store) ClearMode(mode string) error {
	_, err := s.db.Exec(`DELETE FROM leaderboard WHERE mode = ?`, mode)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
