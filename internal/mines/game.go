package mines

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-popup/internal/schedule"
)

var Log = logrus.New()

type Status int8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, v := range []Status{InProgress, Won, Lost} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

// ChordPolicy decides what a chord does with unflagged mined neighbours.
type ChordPolicy int8

const (
	// ChordExplode reveals every covered, unflagged neighbour; a mine among
	// them ends the game like any other reveal.
	ChordExplode ChordPolicy = iota
	// ChordSkipMines leaves unflagged mined neighbours covered.
	ChordSkipMines
)

type Engine struct {
	settings Settings
	board    board
	status   Status
	started  bool
	exploded int
	elapsed  int

	mineCount     int
	revealedCount int
	flaggedCount  int

	generation uint64
	clock      schedule.Timer

	rnd      Random
	sched    schedule.Scheduler
	observer Observer
	chord    ChordPolicy
}

type Option func(*Engine)

func WithRandom(r Random) Option {
	return func(e *Engine) { e.rnd = r }
}

func WithScheduler(s schedule.Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

func WithChordPolicy(p ChordPolicy) Option {
	return func(e *Engine) { e.chord = p }
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// New returns an engine with no board. Every operation is a no-op until
// NewGame succeeds.
func New(opts ...Option) *Engine {
	e := &Engine{
		exploded: -1,
		rnd:      newRand(),
		sched:    schedule.Nop{},
		observer: nopObserver{},
		chord:    ChordExplode,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewGame replaces the whole game state and returns the settings actually
// in effect. Invalid settings leave the current game untouched.
func (e *Engine) NewGame(s Settings) (Settings, error) {
	if err := s.Validate(); err != nil {
		return e.settings, err
	}
	s = s.Clamp()

	e.stopClock()
	e.generation++
	e.settings = s
	e.board = newBoard(s.Width, s.Height)
	e.status = InProgress
	e.started = false
	e.exploded = -1
	e.elapsed = 0
	e.mineCount = 0
	e.revealedCount = 0
	e.flaggedCount = 0

	Log.WithFields(logrus.Fields{
		"settings":   s.Seed(),
		"generation": e.generation,
	}).Debug("new game")

	return s, nil
}

func (e *Engine) result(deltas []Delta, finished bool, seq []Wave) Result {
	return Result{
		Generation: e.generation,
		Deltas:     deltas,
		Status:     e.status,
		Finished:   finished,
		Sequence:   seq,
	}
}

func (e *Engine) playable(x, y int) bool {
	return e.status == InProgress && e.board.inBounds(x, y)
}

// Reveal opens the cell at (x, y). The first reveal of a game places the
// mines and starts the clock. Revealed or flagged cells are left alone.
func (e *Engine) Reveal(x, y int) Result {
	if !e.playable(x, y) {
		return e.result(nil, false, nil)
	}
	i := e.board.index(x, y)
	if e.board.marks[i] != covered {
		return e.result(nil, false, nil)
	}

	if !e.started {
		e.started = true
		e.mineCount = e.board.generate(x, y, e.settings.MineCount, e.rnd)
		e.startClock()
	}

	var res Result
	e.open(i, &res)
	res.Generation = e.generation
	res.Status = e.status
	return res
}

// open flood-fills from i with an explicit stack. Flags on opened cells are
// cleared. Hitting a mine ends the game and stops propagation.
func (e *Engine) open(i int, res *Result) {
	b := &e.board
	stack := []int{i}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if b.marks[j] == revealed {
			continue
		}
		if b.marks[j] == flagged {
			e.flaggedCount--
			res.Deltas = append(res.Deltas, Delta{b.point(j), DeltaUnflagged, 0})
		}
		b.marks[j] = revealed
		e.revealedCount++

		if b.mines[j] {
			res.Deltas = append(res.Deltas, Delta{b.point(j), DeltaMine, 0})
			e.lose(j, res)
			return
		}

		res.Deltas = append(res.Deltas, Delta{b.point(j), DeltaRevealed, int(b.values[j])})
		if b.values[j] == 0 {
			for n := range b.neighbours(j) {
				if b.marks[n] != revealed {
					stack = append(stack, n)
				}
			}
		}
	}
	e.checkWin(res)
}

func (e *Engine) checkWin(res *Result) {
	if e.status != InProgress || !e.started {
		return
	}
	if e.revealedCount == e.settings.Width*e.settings.Height-e.mineCount {
		e.status = Won
		e.stopClock()
		res.Finished = true
		Log.WithFields(logrus.Fields{
			"generation": e.generation,
			"elapsed":    e.elapsed,
		}).Debug("game won")
	}
}

func (e *Engine) lose(i int, res *Result) {
	e.status = Lost
	e.exploded = i
	e.stopClock()
	res.Finished = true
	res.Sequence = e.board.sequence(i)

	Log.WithFields(logrus.Fields{
		"generation": e.generation,
		"mine":       e.board.point(i).String(),
		"waves":      len(res.Sequence),
	}).Debug("game lost")

	gen := e.generation
	for _, w := range res.Sequence {
		e.sched.Once(w.Delay, func() { e.revealWave(gen, w) })
	}
}

// revealWave marks one wave of the loss animation as revealed.
func (e *Engine) revealWave(gen uint64, w Wave) {
	if gen != e.generation {
		Log.WithFields(logrus.Fields{
			"stale":   gen,
			"current": e.generation,
			"wave":    w.Index,
		}).Debug("dropping stale wave")
		return
	}
	b := &e.board
	deltas := make([]Delta, 0, len(w.Cells))
	for _, c := range w.Cells {
		i := b.index(c.X, c.Y)
		switch b.marks[i] {
		case flagged:
			e.flaggedCount--
			deltas = append(deltas, Delta{c.Point, DeltaUnflagged, 0})
			fallthrough
		case covered:
			b.marks[i] = revealed
			e.revealedCount++
		}
		if c.Mine {
			deltas = append(deltas, Delta{c.Point, DeltaMine, 0})
		} else {
			deltas = append(deltas, Delta{c.Point, DeltaRevealed, c.Value})
		}
	}
	e.observer.Wave(WaveUpdate{
		Generation: gen,
		Index:      w.Index,
		Delay:      w.Delay,
		Deltas:     deltas,
	})
}

// ToggleFlag flips the flag on a covered cell. Flags are not limited by the
// mine count.
func (e *Engine) ToggleFlag(x, y int) Result {
	if !e.playable(x, y) {
		return e.result(nil, false, nil)
	}
	i := e.board.index(x, y)
	var d Delta
	switch e.board.marks[i] {
	case covered:
		e.board.marks[i] = flagged
		e.flaggedCount++
		d = Delta{Point{x, y}, DeltaFlagged, 0}
	case flagged:
		e.board.marks[i] = covered
		e.flaggedCount--
		d = Delta{Point{x, y}, DeltaUnflagged, 0}
	default:
		return e.result(nil, false, nil)
	}
	return e.result([]Delta{d}, false, nil)
}

// Chord reveals the covered, unflagged neighbours of an opened number when
// exactly that many neighbours are flagged.
func (e *Engine) Chord(x, y int) Result {
	if !e.playable(x, y) {
		return e.result(nil, false, nil)
	}
	b := &e.board
	i := b.index(x, y)
	if b.marks[i] != revealed || b.values[i] == 0 {
		return e.result(nil, false, nil)
	}

	flags := 0
	var targets []int
	for n := range b.neighbours(i) {
		switch b.marks[n] {
		case flagged:
			flags++
		case covered:
			targets = append(targets, n)
		}
	}
	if flags != int(b.values[i]) {
		return e.result(nil, false, nil)
	}

	var res Result
	for _, n := range targets {
		if e.status != InProgress {
			break
		}
		if e.chord == ChordSkipMines && b.mines[n] {
			continue
		}
		if b.marks[n] == covered {
			e.open(n, &res)
		}
	}
	res.Generation = e.generation
	res.Status = e.status
	return res
}
