// Package settings persists the board size and mine count between games.
package settings

import (
	"context"
	"errors"

	"github.com/vancomm/minesweeper-popup/internal/mines"
)

var (
	ErrNotFound    = errors.New("settings not found")
	ErrNotMigrated = errors.New("settings table missing, run the migrator")
)

// Defaults apply when nothing has been saved yet.
var Defaults = mines.Settings{Width: 20, Height: 20, MineCount: 40}

type Store interface {
	Load(ctx context.Context) (mines.Settings, error)
	Save(ctx context.Context, s mines.Settings) error
}

// LoadOrDefault returns the stored settings, filling missing fields from
// Defaults. A store error is returned together with Defaults so callers can
// log it and carry on.
func LoadOrDefault(ctx context.Context, st Store) (mines.Settings, error) {
	s, err := st.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return Defaults, nil
	}
	if err != nil {
		return Defaults, err
	}
	if s.Width <= 0 {
		s.Width = Defaults.Width
	}
	if s.Height <= 0 {
		s.Height = Defaults.Height
	}
	if s.MineCount <= 0 {
		s.MineCount = Defaults.MineCount
	}
	return s, nil
}
