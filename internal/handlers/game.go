package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-popup/internal/config"
	"github.com/vancomm/minesweeper-popup/internal/middleware"
	"github.com/vancomm/minesweeper-popup/internal/mines"
	"github.com/vancomm/minesweeper-popup/internal/session"
	"github.com/vancomm/minesweeper-popup/internal/settings"
)

var errNoSession = errors.New("no active game session")

type GameHandler struct {
	logger   *slog.Logger
	sessions *session.Manager
	store    settings.Store
	cookies  *config.Cookies
	ws       *config.WebSocket
}

func NewGameHandler(
	logger *slog.Logger,
	sessions *session.Manager,
	store settings.Store,
	cookies *config.Cookies,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		sessions: sessions,
		store:    store,
		cookies:  cookies,
		ws:       ws,
	}
}

func (g GameHandler) loadSettings(ctx context.Context) mines.Settings {
	s, err := settings.LoadOrDefault(ctx, g.store)
	if err != nil {
		g.logger.Warn("unable to load settings, using defaults", slog.Any("error", err))
	}
	return s
}

func (g GameHandler) saveSettings(ctx context.Context, s mines.Settings) {
	if err := g.store.Save(ctx, s); err != nil {
		g.logger.Error("unable to save settings", slog.Any("error", err))
	}
}

// current returns the session named by the request cookies.
func (g GameHandler) current(r *http.Request) (*session.Session, bool) {
	claims, ok := middleware.SessionClaims(r)
	if !ok {
		return nil, false
	}
	s, err := g.sessions.Lookup(claims.SessionID)
	if err != nil {
		g.logger.Debug("session expired", slog.String("session", claims.SessionID))
		return nil, false
	}
	return s, true
}

func (g GameHandler) snapshot(ctx context.Context, s *session.Session) (mines.Snapshot, error) {
	var snap mines.Snapshot
	err := s.Do(ctx, func(e *mines.Engine) { snap = e.Snapshot() })
	return snap, err
}

func (g GameHandler) Settings(w http.ResponseWriter, r *http.Request) {
	s := g.loadSettings(r.Context())
	SendJSONOrLog(w, g.logger, struct {
		mines.Settings
		Window WindowSize `json:"window"`
	}{s, NewWindowSize(s)})
}

// NewGame restarts the game of the current session, or opens a session if
// there is none.
func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	requested, err := dto.Settings(g.loadSettings(ctx))
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	var (
		applied mines.Settings
		snap    mines.Snapshot
	)
	s, ok := g.current(r)
	if ok {
		var gameErr error
		err = s.Do(ctx, func(e *mines.Engine) {
			if applied, gameErr = e.NewGame(requested); gameErr == nil {
				snap = e.Snapshot()
				s.Publish(session.SnapshotMessage(snap))
			}
		})
		if err == nil {
			err = gameErr
		}
	} else {
		s, applied, err = g.sessions.Create(ctx, requested)
		if err == nil {
			snap, err = g.snapshot(ctx, s)
		}
	}
	if errors.Is(err, mines.ErrInvalidConfiguration) {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		g.logger.Error("unable to start a new game", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	g.saveSettings(ctx, applied)

	if err := g.cookies.Issue(w, s.ID.String()); err != nil {
		g.logger.Error("unable to issue session cookies", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	SendJSONOrLog(w, g.logger, GameDTO{
		SessionID: s.ID.String(),
		Window:    NewWindowSize(applied),
		Game:      snap,
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.current(r)
	if !ok {
		SendErrorOrLog(w, g.logger, http.StatusNotFound, errNoSession)
		return
	}
	snap, err := g.snapshot(r.Context(), s)
	if err != nil {
		g.logger.Error("unable to snapshot game", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	SendJSONOrLog(w, g.logger, GameDTO{
		SessionID: s.ID.String(),
		Window:    NewWindowSize(snap.Settings),
		Game:      snap,
	})
}

// Close ends the current session. It succeeds even if there was none.
func (g GameHandler) Close(w http.ResponseWriter, r *http.Request) {
	if s, ok := g.current(r); ok {
		g.sessions.Close(s.ID)
	}
	g.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
