package app

import (
	"github.com/vancomm/minesweeper-popup/internal/config"
	"github.com/vancomm/minesweeper-popup/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.sessions, a.store, a.cookies, a.ws,
	)

	base := config.BasePath()
	a.router.HandleFunc("GET "+base+"/settings", game.Settings)
	a.router.HandleFunc("POST "+base+"/game", game.NewGame)
	a.router.HandleFunc("GET "+base+"/game", game.Fetch)
	a.router.HandleFunc("DELETE "+base+"/game", game.Close)
	a.router.HandleFunc("GET "+base+"/game/connect", game.Connect)
}
