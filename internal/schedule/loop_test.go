package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l, cancel
}

func TestLoopDoRunsSerially(t *testing.T) {
	t.Parallel()
	l, _ := startLoop(t)

	counter := 0
	done := make(chan struct{})
	for range 100 {
		go func() {
			assert.NoError(t, l.Do(context.Background(), func() { counter++ }))
			done <- struct{}{}
		}()
	}
	for range 100 {
		<-done
	}
	require.NoError(t, l.Do(context.Background(), func() {
		assert.Equal(t, 100, counter)
	}))
}

func TestLoopOnceAndRepeat(t *testing.T) {
	t.Parallel()
	l, _ := startLoop(t)

	fired := make(chan struct{}, 1)
	l.Once(5*time.Millisecond, func() { fired <- struct{}{} })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("deferred task did not fire")
	}

	var ticks atomic.Int32
	timer := l.Repeat(2*time.Millisecond, func() { ticks.Add(1) })
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	timer.Stop()
}

func TestLoopStopped(t *testing.T) {
	t.Parallel()
	l, cancel := startLoop(t)
	cancel()
	<-l.Done()

	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrStopped)
}
