package settings

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-popup/internal/mines"
)

func setupTestStore() (*SQLite, func(), error) {
	f, err := os.CreateTemp("", "sqlite-settings-")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp file: %v", err)
	}

	db, err := sql.Open("sqlite3", f.Name())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect sqlite db: %v", err)
	}

	s, err := NewSQLite(context.Background(), db, "test_settings")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create new store: %v", err)
	}

	teardown := func() {
		db.Close()
		f.Close()
		os.Remove(f.Name())
	}

	return s, teardown, nil
}

func TestSQLiteReadEmpty(t *testing.T) {
	s, teardown, err := setupTestStore()
	require.NoError(t, err)
	defer teardown()

	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	s, teardown, err := setupTestStore()
	require.NoError(t, err)
	defer teardown()

	ctx := context.Background()
	want := mines.Settings{Width: 30, Height: 16, MineCount: 99}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.MineCount = 50
	require.NoError(t, s.Save(ctx, want))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteClear(t *testing.T) {
	s, teardown, err := setupTestStore()
	require.NoError(t, err)
	defer teardown()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, Defaults))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteBadTableName(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, name := range []string{"", "drop table x;", "settings1"} {
		_, err := NewSQLite(context.Background(), db, name)
		assert.ErrorIs(t, err, ErrBadName, "table %q", name)
	}
}

func TestLoadOrDefault(t *testing.T) {
	ctx := context.Background()

	var empty Memory
	s, err := LoadOrDefault(ctx, &empty)
	require.NoError(t, err)
	assert.Equal(t, Defaults, s)

	var partial Memory
	require.NoError(t, partial.Save(ctx, mines.Settings{Width: 9}))
	s, err = LoadOrDefault(ctx, &partial)
	require.NoError(t, err)
	assert.Equal(t, mines.Settings{Width: 9, Height: 20, MineCount: 40}, s)

	s, err = LoadOrDefault(ctx, failing{})
	assert.Error(t, err)
	assert.Equal(t, Defaults, s)
}

type failing struct{}

func (failing) Load(context.Context) (mines.Settings, error) {
	return mines.Settings{}, fmt.Errorf("disk on fire")
}

func (failing) Save(context.Context, mines.Settings) error {
	return fmt.Errorf("disk on fire")
}
