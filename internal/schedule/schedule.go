// Package schedule provides the two timing primitives the game engine needs:
// a repeating tick and one-shot deferred callbacks.
package schedule

import (
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Timer is a handle to a scheduled callback.
type Timer interface {
	Stop()
}

// Scheduler runs callbacks later. Implementations must invoke every callback
// from the same goroutine as the code that owns the scheduled state.
type Scheduler interface {
	Repeat(interval time.Duration, f func()) Timer
	Once(delay time.Duration, f func()) Timer
}

type nopTimer struct{}

func (nopTimer) Stop() {}

// Nop never fires anything.
type Nop struct{}

func (Nop) Repeat(time.Duration, func()) Timer { return nopTimer{} }
func (Nop) Once(time.Duration, func()) Timer   { return nopTimer{} }
