// Package session hosts one game engine per browser popup.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-popup/internal/mines"
	"github.com/vancomm/minesweeper-popup/internal/schedule"
)

// Session owns an engine and the loop that serializes every access to it.
type Session struct {
	ID uuid.UUID

	logger *slog.Logger
	engine *mines.Engine
	loop   *schedule.Loop
	cancel context.CancelFunc

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Message

	lastSeen atomic.Int64
}

func newSession(
	ctx context.Context,
	logger *slog.Logger,
	rnd mines.Random,
	opts ...mines.Option,
) *Session {
	id := uuid.New()
	s := &Session{
		ID:     id,
		logger: logger.With(slog.String("session", id.String())),
		loop:   schedule.NewLoop(64),
		subs:   make(map[int]chan Message),
	}
	s.engine = mines.New(append([]mines.Option{
		mines.WithRandom(rnd),
		mines.WithScheduler(s.loop),
		mines.WithObserver(s),
	}, opts...)...)
	s.touch()

	ctx, s.cancel = context.WithCancel(ctx)
	go func() {
		if err := s.loop.Run(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("session loop stopped", slog.Any("error", err))
		}
	}()
	return s
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Do runs f on the session loop. f must not retain the engine.
func (s *Session) Do(ctx context.Context, f func(e *mines.Engine)) error {
	s.touch()
	return s.loop.Do(ctx, func() { f(s.engine) })
}

// Subscription is one listener on a session. Messages published to the
// session and messages sent to the subscription share a single channel, so
// they arrive in the order they were produced.
type Subscription struct {
	C <-chan Message

	s    *Session
	id   int
	ch   chan Message
	once sync.Once
}

// Subscribe registers a listener for engine updates. Slow listeners lose
// messages rather than stall the game.
func (s *Session) Subscribe(buffer int) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription{s: s, id: s.nextID, ch: make(chan Message, buffer)}
	sub.C = sub.ch
	s.nextID++
	s.subs[sub.id] = sub.ch
	return sub
}

// Send delivers m to this subscriber only. It reports false if the message
// was dropped.
func (sub *Subscription) Send(m Message) bool {
	sub.s.mu.Lock()
	defer sub.s.mu.Unlock()
	if _, ok := sub.s.subs[sub.id]; !ok {
		return false
	}
	return sub.s.deliver(sub.id, sub.ch, m)
}

// Close unsubscribes and closes C. It is safe to call more than once.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.s.mu.Lock()
		defer sub.s.mu.Unlock()
		if _, ok := sub.s.subs[sub.id]; ok {
			delete(sub.s.subs, sub.id)
			close(sub.ch)
		}
	})
}

func (s *Session) deliver(id int, ch chan Message, m Message) bool {
	select {
	case ch <- m:
		return true
	default:
		s.logger.Warn("subscriber lagging, dropping message",
			slog.Int("subscriber", id),
			slog.String("type", string(m.Type)),
		)
		return false
	}
}

func (s *Session) Publish(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range msgs {
		for id, ch := range s.subs {
			s.deliver(id, ch, m)
		}
	}
}

// Tick is called on the session loop.
func (s *Session) Tick(u mines.TickUpdate) {
	s.Publish(Message{
		Type:       TypeTick,
		Generation: u.Generation,
		Elapsed:    u.Elapsed,
		Rate:       u.Rate,
	})
}

// Wave is called on the session loop.
func (s *Session) Wave(u mines.WaveUpdate) {
	s.Publish(Message{
		Type:       TypeWave,
		Generation: u.Generation,
		Deltas:     u.Deltas,
		Wave:       u.Index,
		DelayMs:    u.Delay.Milliseconds(),
	})
}

func (s *Session) close() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
