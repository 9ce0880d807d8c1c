package settings

import (
	"context"
	"sync"

	"github.com/vancomm/minesweeper-popup/internal/mines"
)

// Memory keeps settings for the lifetime of the process.
type Memory struct {
	mu       sync.Mutex
	settings *mines.Settings
}

func (m *Memory) Load(context.Context) (mines.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return mines.Settings{}, ErrNotFound
	}
	return *m.settings, nil
}

func (m *Memory) Save(_ context.Context, s mines.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}
