package mines

import (
	"github.com/sirupsen/logrus"
)

// Random is a source of floats in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type Random interface {
	Float64() float64
}

func (b *board) sample(rnd Random, n int) int {
	return min(int(rnd.Float64()*float64(n)), n-1)
}

// generate places want mines by rejection sampling, keeping the 3x3 zone
// around (sx, sy) clear, and returns how many it placed. The count is
// reduced when the board has fewer cells outside the zone than requested.
func (b *board) generate(sx, sy, want int, rnd Random) int {
	safe := make([]bool, len(b.mines))
	nsafe := 0
	for i := range b.zone(b.index(sx, sy)) {
		safe[i] = true
		nsafe++
	}

	if free := len(b.mines) - nsafe; want > free {
		Log.WithFields(logrus.Fields{
			"requested": want,
			"available": free,
		}).Debug("not enough room outside the safe zone, placing fewer mines")
		want = free
	}

	for placed := 0; placed < want; {
		x := b.sample(rnd, b.width)
		y := b.sample(rnd, b.height)
		i := b.index(x, y)
		if b.mines[i] || safe[i] {
			continue
		}
		b.mines[i] = true
		placed++
		for j := range b.neighbours(i) {
			b.values[j]++
		}
	}
	return want
}
