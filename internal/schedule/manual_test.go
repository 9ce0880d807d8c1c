package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualOnceOrdering(t *testing.T) {
	m := NewManual()
	var fired []string
	m.Once(20*time.Millisecond, func() { fired = append(fired, "b") })
	m.Once(10*time.Millisecond, func() { fired = append(fired, "a") })
	m.Once(20*time.Millisecond, func() { fired = append(fired, "c") })

	m.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"a"}, fired)
	assert.Equal(t, 2, m.Pending())

	m.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, 20*time.Millisecond, m.Now())
}

func TestManualRepeatAndStop(t *testing.T) {
	m := NewManual()
	ticks := 0
	timer := m.Repeat(time.Second, func() { ticks++ })

	m.Advance(3500 * time.Millisecond)
	require.Equal(t, 3, ticks)

	timer.Stop()
	m.Advance(10 * time.Second)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, m.Pending())
}

func TestManualNestedScheduling(t *testing.T) {
	m := NewManual()
	var at []time.Duration
	m.Once(time.Second, func() {
		at = append(at, m.Now())
		m.Once(time.Second, func() { at = append(at, m.Now()) })
	})

	m.Advance(5 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, at)
}

func TestNopNeverFires(t *testing.T) {
	var s Scheduler = Nop{}
	s.Once(0, func() { t.Fatal("nop scheduler fired") })
	s.Repeat(time.Nanosecond, func() { t.Fatal("nop scheduler fired") }).Stop()
}
