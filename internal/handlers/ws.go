package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-popup/internal/mines"
	"github.com/vancomm/minesweeper-popup/internal/session"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsNewGame wsCommand = "n"
)

const (
	writeWait     = 10 * time.Second
	updatesBuffer = 64
)

var errUnknownCommand = errors.New("unknown command")

// gameExecutor applies client commands to an engine. It only runs on the
// session loop.
type gameExecutor struct {
	*mines.Engine
}

// outcome is what one command produced. started is set when the command
// replaced the game.
type outcome struct {
	messages []session.Message
	started  *mines.Settings
}

func (game gameExecutor) cell(args []string, op func(x, y int) mines.Result) (outcome, error) {
	x, y, err := parseXY(args)
	if err != nil {
		return outcome{}, err
	}
	if !game.Settings().PointInBounds(x, y) {
		return outcome{}, fmt.Errorf("invalid square coordinates")
	}
	return outcome{messages: session.ResultMessages(op(x, y))}, nil
}

func (game gameExecutor) newGame(args []string) (outcome, error) {
	s, err := parseSettings(args)
	if err != nil {
		return outcome{}, err
	}
	if s.Width > MaxSide || s.Height > MaxSide {
		return outcome{}, fmt.Errorf("board must be at most %d cells on each side", MaxSide)
	}
	applied, err := game.NewGame(s)
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		messages: []session.Message{session.SnapshotMessage(game.Snapshot())},
		started:  &applied,
	}, nil
}

func (game gameExecutor) execute(line string) (outcome, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return outcome{}, nil
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]
	switch cmd {
	case wsNoop:
		return outcome{}, nil
	case wsOpen:
		return game.cell(args, game.Reveal)
	case wsFlag:
		return game.cell(args, game.ToggleFlag)
	case wsChord:
		return game.cell(args, game.Chord)
	case wsNewGame:
		return game.newGame(args)
	default:
		return outcome{}, fmt.Errorf("%w %q", errUnknownCommand, cmd)
	}
}

func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	s, ok := g.current(r)
	if !ok {
		SendErrorOrLog(w, g.logger, http.StatusNotFound, errNoSession)
		return
	}
	logger := g.logger.With(slog.String("session", s.ID.String()))

	sub := s.Subscribe(updatesBuffer)
	defer sub.Close()

	snap, err := g.snapshot(r.Context(), s)
	if err != nil {
		logger.Error("unable to snapshot game", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger.Debug("established WS connection")

	if err := writeMessage(conn, session.SnapshotMessage(snap)); err != nil {
		logger.Debug("unable to send snapshot", slog.Any("error", err))
		return
	}

	pumpDone := make(chan struct{})
	go func() {
		err := writePump(conn, sub.C)
		close(pumpDone)
		if err != nil {
			logger.Debug("write pump stopped", slog.Any("error", err))
		}
		// unblocks the read loop
		conn.Close()
	}()

	err = g.readLoop(r.Context(), conn, s, sub, pumpDone)
	sub.Close()
	<-pumpDone

	if err != nil && !websocket.IsCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.Warn("error in ws loop", slog.Any("error", err))
		return
	}
	logger.Debug("closed WS connection")
}

// readLoop executes every line the client sends. Results are published from
// the session loop so they reach subscribers before any update the command
// scheduled.
func (g GameHandler) readLoop(
	ctx context.Context,
	conn *websocket.Conn,
	s *session.Session,
	sub *session.Subscription,
	pumpDone <-chan struct{},
) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-pumpDone:
				return nil
			default:
				return err
			}
		}
		if mt != websocket.TextMessage {
			return nil
		}

		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			var started *mines.Settings
			err := s.Do(ctx, func(e *mines.Engine) {
				out, err := gameExecutor{e}.execute(line)
				if err != nil {
					sub.Send(session.ErrorMessage(err))
					return
				}
				started = out.started
				s.Publish(out.messages...)
			})
			if err != nil {
				return fmt.Errorf("session unavailable: %w", err)
			}
			if started != nil {
				g.saveSettings(ctx, *started)
			}
		}
	}
}

// writePump is the only writer on conn. It returns nil once updates is
// closed, sending a close frame first.
func writePump(conn *websocket.Conn, updates <-chan session.Message) error {
	for m := range updates {
		if err := writeMessage(conn, m); err != nil {
			return err
		}
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
		time.Now().Add(writeWait))
	return nil
}

func writeMessage(conn *websocket.Conn, m session.Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(m); err != nil {
		return fmt.Errorf("unable to write json: %w", err)
	}
	return nil
}

func parseXY(args []string) (x int, y int, err error) {
	if len(args) != 2 {
		err = fmt.Errorf("invalid args")
		return
	}
	if x, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("second argument must be an int")
		return
	}
	return
}

// parseSettings accepts either "w h m" or a single "w:h:m" seed.
func parseSettings(args []string) (mines.Settings, error) {
	switch len(args) {
	case 1:
		return mines.ParseSeed(args[0])
	case 3:
		return mines.ParseSeed(strings.Join(args, ":"))
	default:
		return mines.Settings{}, fmt.Errorf("invalid args")
	}
}
