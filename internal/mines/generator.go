package mines

import (
	"fmt"
	"strings"
)

// At most minePercent% of the cells may hold mines.
const minePercent = 85

type Settings struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mines"`
}

func (s Settings) Unpack() (w int, h int, mc int) {
	return s.Width, s.Height, s.MineCount
}

// MaxMines is floor(width*height*0.85).
func (s Settings) MaxMines() int {
	return s.Width * s.Height * minePercent / 100
}

func (s Settings) Validate() error {
	switch {
	case s.Width <= 0:
		return &ConfigError{"width", s.Width}
	case s.Height <= 0:
		return &ConfigError{"height", s.Height}
	case s.MineCount < 0:
		return &ConfigError{"mines", s.MineCount}
	}
	return nil
}

// Clamp caps the mine count so at least 15% of the cells are safe.
func (s Settings) Clamp() Settings {
	s.MineCount = min(s.MineCount, s.MaxMines())
	return s
}

func (s Settings) Seed() string {
	return fmt.Sprintf("%d:%d:%d", s.Width, s.Height, s.MineCount)
}

func ParseSeed(seed string) (Settings, error) {
	var s Settings
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &s.Width, &s.Height, &s.MineCount)
	if n != 3 || err != nil {
		return Settings{}, fmt.Errorf(
			`invalid settings seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return s, nil
}

func (s Settings) PointInBounds(x, y int) bool {
	return 0 <= x && x < s.Width && 0 <= y && y < s.Height
}
