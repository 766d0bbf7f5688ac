// Package store persists typewriter phrases and privacy-conscious usage
// records (section views and stream sessions) in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a phrase or preset does not exist.
var ErrNotFound = errors.New("store: not found")

// Phrase is one string of a preset's sequence.
type Phrase struct {
	ID        int64     `json:"id"`
	Preset    string    `json:"preset"`
	Position  int       `json:"position"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the sqlite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS phrases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	preset TEXT NOT NULL,
	position INTEGER NOT NULL,
	text TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS phrases_preset ON phrases (preset, position);

CREATE TABLE IF NOT EXISTS section_views (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_client TEXT NOT NULL,
	section TEXT NOT NULL,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS section_views_timestamp ON section_views (timestamp);

CREATE TABLE IF NOT EXISTS streams (
	id TEXT PRIMARY KEY,
	hashed_client TEXT NOT NULL,
	preset TEXT NOT NULL,
	frames INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL,
	ended_at DATETIME,
	reason TEXT NOT NULL DEFAULT ''
);
`

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// timestamp returns the current time in the form every row is written with.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// Seed inserts strings as preset's sequence unless the preset already has
// phrases. It reports whether anything was inserted.
func (s *Store) Seed(ctx context.Context, preset string, strings []string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("store: seed %s: %w", preset, err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM phrases WHERE preset = ?`, preset).Scan(&n); err != nil {
		return false, fmt.Errorf("store: seed %s: %w", preset, err)
	}
	if n > 0 {
		return false, nil
	}

	now := s.timestamp()
	for i, text := range strings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO phrases (preset, position, text, created_at)
			VALUES (?, ?, ?, ?)
		`, preset, i, text, now)
		if err != nil {
			return false, fmt.Errorf("store: seed %s: %w", preset, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("store: seed %s: %w", preset, err)
	}
	return true, nil
}

// Sequence returns the preset's strings in order, or ErrNotFound.
func (s *Store) Sequence(ctx context.Context, preset string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text FROM phrases
		WHERE preset = ?
		ORDER BY position, id
	`, preset)
	if err != nil {
		return nil, fmt.Errorf("store: sequence %s: %w", preset, err)
	}
	defer rows.Close()

	var seq []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("store: sequence %s: %w", preset, err)
		}
		seq = append(seq, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: sequence %s: %w", preset, err)
	}
	if len(seq) == 0 {
		return nil, ErrNotFound
	}
	return seq, nil
}

// Presets returns the names of every preset that has phrases, sorted.
func (s *Store) Presets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT preset FROM phrases ORDER BY preset`)
	if err != nil {
		return nil, fmt.Errorf("store: list presets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: list presets: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListPhrases returns every phrase grouped by preset.
func (s *Store) ListPhrases(ctx context.Context) ([]Phrase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, preset, position, text, created_at
		FROM phrases
		ORDER BY preset, position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list phrases: %w", err)
	}
	defer rows.Close()

	var phrases []Phrase
	for rows.Next() {
		var p Phrase
		if err := rows.Scan(&p.ID, &p.Preset, &p.Position, &p.Text, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: list phrases: %w", err)
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

// AddPhrase appends text to the end of preset's sequence.
func (s *Store) AddPhrase(ctx context.Context, preset, text string) (*Phrase, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: add phrase: %w", err)
	}
	defer tx.Rollback()

	p := &Phrase{Preset: preset, Text: text, CreatedAt: s.timestamp()}
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), -1) + 1 FROM phrases WHERE preset = ?
	`, preset).Scan(&p.Position)
	if err != nil {
		return nil, fmt.Errorf("store: add phrase: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO phrases (preset, position, text, created_at)
		VALUES (?, ?, ?, ?)
	`, p.Preset, p.Position, p.Text, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: add phrase: %w", err)
	}
	if p.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("store: add phrase: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: add phrase: %w", err)
	}
	return p, nil
}

// DeletePhrase removes a phrase by id.
func (s *Store) DeletePhrase(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM phrases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete phrase %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete phrase %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
