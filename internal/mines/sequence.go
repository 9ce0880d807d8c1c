package mines

import (
	"cmp"
	"math"
	"slices"
	"time"
)

const (
	// WaveSize is the width of one distance band, in cells.
	WaveSize = 0.5
	// WaveInterval separates consecutive waves.
	WaveInterval = 10 * time.Millisecond
)

type WaveCell struct {
	Point
	Mine  bool `json:"mine"`
	Value int  `json:"value"`
}

// Wave is a batch of cells presented together during the loss animation.
type Wave struct {
	Index int           `json:"index"` // floor(distance / WaveSize)
	Delay time.Duration `json:"delay"`
	Cells []WaveCell    `json:"cells"`
}

// sequence orders every cell of the board by Euclidean distance from origin
// and groups the result into waves. The n-th non-empty band is delayed by
// n*WaveInterval.
func (b *board) sequence(origin int) []Wave {
	o := b.point(origin)
	type scored struct {
		i    int
		dist float64
	}
	cells := make([]scored, len(b.mines))
	for i := range cells {
		p := b.point(i)
		cells[i] = scored{i, math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y))}
	}
	slices.SortStableFunc(cells, func(a, c scored) int {
		return cmp.Compare(a.dist, c.dist)
	})

	var waves []Wave
	for _, c := range cells {
		index := int(math.Floor(c.dist / WaveSize))
		if len(waves) == 0 || waves[len(waves)-1].Index != index {
			waves = append(waves, Wave{
				Index: index,
				Delay: time.Duration(len(waves)) * WaveInterval,
			})
		}
		w := &waves[len(waves)-1]
		w.Cells = append(w.Cells, WaveCell{
			Point: b.point(c.i),
			Mine:  b.mines[c.i],
			Value: int(b.values[c.i]),
		})
	}
	return waves
}
