package mines

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceBands(t *testing.T) {
	f := twoMines(t)
	origin := f.board.index(2, 0)
	waves := f.board.sequence(origin)

	total := 0
	prev := -1
	for i, w := range waves {
		assert.Greater(t, w.Index, prev, "indices ascend")
		prev = w.Index
		assert.Equal(t, time.Duration(i)*WaveInterval, w.Delay)
		for _, c := range w.Cells {
			d := math.Hypot(float64(c.X-2), float64(c.Y))
			assert.Equal(t, w.Index, int(math.Floor(d/WaveSize)), "cell %s", c.Point)
			assert.Equal(t, f.IsMine(c.X, c.Y), c.Mine)
			assert.Equal(t, f.Value(c.X, c.Y), c.Value)
		}
		total += len(w.Cells)
	}
	assert.Equal(t, 25, total)

	require.NotEmpty(t, waves)
	assert.Equal(t, []WaveCell{{Point{2, 0}, true, 0}}, waves[0].Cells)
	assert.Zero(t, waves[0].Delay)
}

func TestSequenceSkipsEmptyBands(t *testing.T) {
	b := newBoard(3, 1)
	waves := b.sequence(0)

	// distances 0, 1, 2 land in bands 0, 2, 4
	require.Len(t, waves, 3)
	assert.Equal(t, []int{0, 2, 4}, []int{waves[0].Index, waves[1].Index, waves[2].Index})
	assert.Equal(t, 2*WaveInterval, waves[2].Delay)
}

func TestSequenceDiagonalBand(t *testing.T) {
	b := newBoard(2, 2)
	waves := b.sequence(0)

	// 1 and 1 share band 2, sqrt(2) falls in band 2 as well
	require.Len(t, waves, 2)
	assert.Len(t, waves[1].Cells, 3)
}
