package mines

import (
	"time"

	"github.com/sirupsen/logrus"
)

// TickInterval is the period of the game clock.
const TickInterval = time.Second

// startClock is a no-op while the clock is already running.
func (e *Engine) startClock() {
	if e.clock != nil {
		return
	}
	gen := e.generation
	e.clock = e.sched.Repeat(TickInterval, func() { e.tick(gen) })
}

// stopClock is a no-op while the clock is not running.
func (e *Engine) stopClock() {
	if e.clock == nil {
		return
	}
	e.clock.Stop()
	e.clock = nil
}

func (e *Engine) tick(gen uint64) {
	if gen != e.generation || e.status != InProgress || !e.started {
		Log.WithFields(logrus.Fields{
			"stale":   gen,
			"current": e.generation,
			"status":  e.status.String(),
		}).Debug("dropping tick")
		return
	}
	e.elapsed++
	e.observer.Tick(TickUpdate{
		Generation: gen,
		Elapsed:    e.elapsed,
		Rate:       e.Rate(),
	})
}

func (e *Engine) Elapsed() int {
	return e.elapsed
}

// Rate is revealed cells per elapsed second, zero before the first tick.
func (e *Engine) Rate() float64 {
	if e.elapsed == 0 {
		return 0
	}
	return float64(e.revealedCount) / float64(e.elapsed)
}

func (e *Engine) Ticking() bool {
	return e.clock != nil
}
