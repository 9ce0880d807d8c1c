package schedule

import "time"

type manualTask struct {
	due      time.Duration
	interval time.Duration
	seq      uint64
	f        func()
	stopped  bool
}

func (t *manualTask) Stop() {
	t.stopped = true
}

// Manual is a virtual clock. Callbacks fire only inside Advance, in due-time
// order, ties broken by scheduling order.
type Manual struct {
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Now() time.Duration {
	return m.now
}

func (m *Manual) add(delay, interval time.Duration, f func()) *manualTask {
	m.seq++
	t := &manualTask{
		due:      m.now + delay,
		interval: interval,
		seq:      m.seq,
		f:        f,
	}
	m.tasks = append(m.tasks, t)
	return t
}

func (m *Manual) Repeat(interval time.Duration, f func()) Timer {
	return m.add(interval, interval, f)
}

func (m *Manual) Once(delay time.Duration, f func()) Timer {
	return m.add(delay, 0, f)
}

// Pending counts callbacks that have not been stopped and have yet to fire
// (repeating callbacks count once).
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) next(limit time.Duration) int {
	best := -1
	for i, t := range m.tasks {
		if t.stopped || t.due > limit {
			continue
		}
		if best < 0 || t.due < m.tasks[best].due ||
			t.due == m.tasks[best].due && t.seq < m.tasks[best].seq {
			best = i
		}
	}
	return best
}

// Advance moves the clock forward by d, firing everything that falls due.
func (m *Manual) Advance(d time.Duration) {
	limit := m.now + d
	for {
		m.compact()
		i := m.next(limit)
		if i < 0 {
			break
		}
		t := m.tasks[i]
		m.now = t.due
		if t.interval > 0 {
			t.due += t.interval
		} else {
			t.stopped = true
		}
		t.f()
	}
	m.now = limit
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	clear(m.tasks[len(live):])
	m.tasks = live
}
