package mines

import (
	"fmt"
	"time"
)

type DeltaKind uint8

const (
	DeltaRevealed DeltaKind = iota + 1
	DeltaFlagged
	DeltaUnflagged
	DeltaMine
)

var deltaNames = map[DeltaKind]string{
	DeltaRevealed:  "revealed",
	DeltaFlagged:   "flagged",
	DeltaUnflagged: "unflagged",
	DeltaMine:      "mine",
}

func (k DeltaKind) String() string {
	if name, ok := deltaNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DeltaKind(%d)", uint8(k))
}

func (k DeltaKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DeltaKind) UnmarshalText(text []byte) error {
	for kind, name := range deltaNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown delta kind %q", text)
}

// Delta is one cell the renderer has to redraw. Value is the mined-neighbour
// count for revealed cells and zero otherwise.
type Delta struct {
	Point
	Kind  DeltaKind `json:"status"`
	Value int       `json:"value"`
}

// Result describes what a single engine operation changed. Finished is set
// on the operation that moved the game into a terminal status; Sequence is
// the loss animation and is only present on a losing operation.
type Result struct {
	Generation uint64
	Deltas     []Delta
	Status     Status
	Finished   bool
	Sequence   []Wave
}

func (r Result) Empty() bool {
	return len(r.Deltas) == 0 && !r.Finished
}

type TickUpdate struct {
	Generation uint64
	Elapsed    int
	Rate       float64
}

type WaveUpdate struct {
	Generation uint64
	Index      int
	Delay      time.Duration
	Deltas     []Delta
}

// Observer receives the updates the engine produces outside of a direct
// call: clock ticks and loss-animation waves. Both are delivered from the
// engine's scheduler.
type Observer interface {
	Tick(TickUpdate)
	Wave(WaveUpdate)
}

type nopObserver struct{}

func (nopObserver) Tick(TickUpdate) {}
func (nopObserver) Wave(WaveUpdate) {}
