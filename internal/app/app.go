package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-popup/internal/config"
	"github.com/vancomm/minesweeper-popup/internal/middleware"
	"github.com/vancomm/minesweeper-popup/internal/session"
	"github.com/vancomm/minesweeper-popup/internal/settings"
)

type App struct {
	logger   *slog.Logger
	router   *http.ServeMux
	addr     string
	store    settings.Store
	sessions *session.Manager
	cookies  *config.Cookies
	ws       *config.WebSocket
}

func New(
	logger *slog.Logger,
	addr string,
	store settings.Store,
	sessions *session.Manager,
	cookies *config.Cookies,
	ws *config.WebSocket,
) *App {
	app := &App{
		logger:   logger,
		router:   http.NewServeMux(),
		addr:     addr,
		store:    store,
		sessions: sessions,
		cookies:  cookies,
		ws:       ws,
	}
	app.loadRoutes()
	return app
}

// Handler is the router with the shared middleware applied.
func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Session(a.logger, a.cookies),
		middleware.Logging(a.logger),
		middleware.Cors(config.AllowedOrigin),
	)
}

// Start serves until ctx is done, then shuts the server down and closes
// every session.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:        a.addr,
		Handler:     a.Handler(),
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.sessions.Run(ctx)
	})

	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", a.addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		a.logger.Info("shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
