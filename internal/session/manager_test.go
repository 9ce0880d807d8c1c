package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-popup/internal/mines"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(discard, ttl, WithRandSource(twoMines))
}

func TestManagerCreate(t *testing.T) {
	m := newTestManager(time.Minute)
	defer m.Shutdown()

	s, applied, err := m.Create(context.Background(), mines.Settings{Width: 5, Height: 5, MineCount: 100})
	require.NoError(t, err)
	assert.Equal(t, mines.Settings{Width: 5, Height: 5, MineCount: 21}, applied)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	got, err = m.Lookup(s.ID.String())
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestManagerCreateInvalid(t *testing.T) {
	m := newTestManager(time.Minute)
	defer m.Shutdown()

	_, _, err := m.Create(context.Background(), mines.Settings{Width: 0, Height: 5})
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
	assert.Zero(t, m.Len())
}

func TestManagerLookupUnknown(t *testing.T) {
	m := newTestManager(time.Minute)
	defer m.Shutdown()

	_, err := m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Lookup("not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerClose(t *testing.T) {
	m := newTestManager(time.Minute)
	defer m.Shutdown()

	s, _, err := m.Create(context.Background(), mines.Settings{Width: 5, Height: 5, MineCount: 2})
	require.NoError(t, err)

	assert.True(t, m.Close(s.ID))
	assert.False(t, m.Close(s.ID))
	assert.Zero(t, m.Len())

	<-s.loop.Done()
}

func TestManagerEvict(t *testing.T) {
	m := newTestManager(time.Minute)
	defer m.Shutdown()

	ctx := context.Background()
	old, _, err := m.Create(ctx, mines.Settings{Width: 5, Height: 5, MineCount: 2})
	require.NoError(t, err)
	fresh, _, err := m.Create(ctx, mines.Settings{Width: 5, Height: 5, MineCount: 2})
	require.NoError(t, err)

	old.lastSeen.Store(time.Now().Add(-2 * time.Minute).UnixNano())

	assert.Equal(t, 1, m.Evict(time.Now()))
	_, err = m.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestManagerRunShutsDown(t *testing.T) {
	m := newTestManager(time.Minute)
	s, _, err := m.Create(context.Background(), mines.Settings{Width: 5, Height: 5, MineCount: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
	assert.Zero(t, m.Len())
	<-s.loop.Done()
}
