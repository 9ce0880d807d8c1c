package schedule

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrStopped = errors.New("loop stopped")

// Loop executes posted tasks one at a time on the goroutine that calls Run.
// Timers created by a Loop post their callbacks back onto it, so everything
// a Loop touches is accessed from a single goroutine.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop(buffer int) *Loop {
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run blocks until ctx is done. Tasks still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.tasks:
			f()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post enqueues f without waiting for it to run. It reports false if the
// loop has stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- f:
		return true
	case <-l.done:
		return false
	}
}

// Do runs f on the loop and waits until it has returned.
func (l *Loop) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		f()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

type loopTicker struct {
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

func (t *loopTicker) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.stop)
	})
}

func (l *Loop) Repeat(interval time.Duration, f func()) Timer {
	t := &loopTicker{
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				t.Stop()
				return
			case <-t.ticker.C:
				if !l.Post(f) {
					Log.Debug("loop stopped, ticker exiting")
					return
				}
			}
		}
	}()
	return t
}

type loopTimer struct {
	timer *time.Timer
}

func (t loopTimer) Stop() {
	t.timer.Stop()
}

func (l *Loop) Once(delay time.Duration, f func()) Timer {
	return loopTimer{time.AfterFunc(delay, func() {
		if !l.Post(f) {
			Log.WithField("delay", delay).Debug("loop stopped, dropping deferred task")
		}
	})}
}
