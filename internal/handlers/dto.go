package handlers

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-popup/internal/mines"
)

const (
	// CellSize is the rendered size of one cell, in pixels.
	CellSize = 28
	// MaxSide bounds both board dimensions.
	MaxSide  = 100

	borderPadding  = 6
	controlsHeight = 28 + 8
	titleBarHeight = 28
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

// NewGameDTO carries the optional board fields of a new game request.
// Missing fields fall back to the stored settings.
type NewGameDTO struct {
	Width     *int `schema:"width"`
	Height    *int `schema:"height"`
	MineCount *int `schema:"mines"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

// Settings overlays the request on base and checks the board fits in a
// popup.
func (dto NewGameDTO) Settings(base mines.Settings) (mines.Settings, error) {
	s := base
	if dto.Width != nil {
		s.Width = *dto.Width
	}
	if dto.Height != nil {
		s.Height = *dto.Height
	}
	if dto.MineCount != nil {
		s.MineCount = *dto.MineCount
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	if s.Width > MaxSide || s.Height > MaxSide {
		return s, fmt.Errorf("board must be at most %d cells on each side", MaxSide)
	}
	return s, nil
}

type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewWindowSize is the popup size that fits a board of s, title bar included.
func NewWindowSize(s mines.Settings) WindowSize {
	return WindowSize{
		Width:  s.Width*CellSize + borderPadding,
		Height: s.Height*CellSize + controlsHeight + titleBarHeight,
	}
}

type GameDTO struct {
	SessionID string         `json:"session_id"`
	Window    WindowSize     `json:"window"`
	Game      mines.Snapshot `json:"game"`
}
