package settings

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/minesweeper-popup/internal/mines"
)

const settingsKey = "minesweeperSettings"

var ErrBadName = fmt.Errorf("bad name for settings table")

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return true
}

// SQLite keeps gob-encoded settings under a single key of a key/value
// table.
type SQLite struct {
	mu    sync.Mutex
	table string
	db    *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	s, err := NewSQLite(ctx, db, "settings")
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite creates the table if needed. table may only contain Latin
// letters and underscores.
func NewSQLite(ctx context.Context, db *sql.DB, table string) (*SQLite, error) {
	if !isIdentifier(table) {
		return nil, ErrBadName
	}

	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+table+` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, fmt.Errorf("unable to create settings table: %w", err)
	}
	return &SQLite{table: table, db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) (mines.Settings, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+s.table+` WHERE key = ?;`, settingsKey,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return mines.Settings{}, ErrNotFound
	}
	if err != nil {
		return mines.Settings{}, err
	}
	var settings mines.Settings
	if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&settings); err != nil {
		return mines.Settings{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	return settings, nil
}

// Save inserts or replaces the stored settings.
func (s *SQLite) Save(ctx context.Context, settings mines.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(settings); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+s.table+` (key, value)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		settingsKey, buf.Bytes())
	return err
}

// Clear deletes the stored settings without checking they existed.
func (s *SQLite) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE key = ?;`, settingsKey)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
