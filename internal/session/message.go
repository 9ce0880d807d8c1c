package session

import (
	"github.com/vancomm/minesweeper-popup/internal/mines"
)

type MessageType string

const (
	TypeSnapshot MessageType = "snapshot"
	TypeCells    MessageType = "cells"
	TypeWave     MessageType = "wave"
	TypeTick     MessageType = "tick"
	TypeOver     MessageType = "over"
	TypeError    MessageType = "error"
)

// Message is what the renderer receives.
type Message struct {
	Type       MessageType     `json:"type"`
	Generation uint64          `json:"generation"`
	Deltas     []mines.Delta   `json:"deltas,omitempty"`
	Status     string          `json:"status,omitempty"`
	Elapsed    int             `json:"elapsed,omitempty"`
	Rate       float64         `json:"rate,omitempty"`
	Wave       int             `json:"wave,omitempty"`
	DelayMs    int64           `json:"delay_ms,omitempty"`
	Snapshot   *mines.Snapshot `json:"snapshot,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// ResultMessages turns a synchronous engine result into messages: the
// changed cells, then the terminal notification if the game just ended.
func ResultMessages(res mines.Result) []Message {
	var msgs []Message
	if len(res.Deltas) > 0 {
		msgs = append(msgs, Message{
			Type:       TypeCells,
			Generation: res.Generation,
			Deltas:     res.Deltas,
			Status:     res.Status.String(),
		})
	}
	if res.Finished {
		msgs = append(msgs, Message{
			Type:       TypeOver,
			Generation: res.Generation,
			Status:     res.Status.String(),
		})
	}
	return msgs
}

func SnapshotMessage(s mines.Snapshot) Message {
	return Message{
		Type:       TypeSnapshot,
		Generation: s.Generation,
		Status:     s.Status.String(),
		Snapshot:   &s,
	}
}

func ErrorMessage(err error) Message {
	return Message{Type: TypeError, Error: err.Error()}
}
