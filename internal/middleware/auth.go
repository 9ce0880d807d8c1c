package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-popup/internal/config"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

// Session attaches the session claims carried by the request cookies, if
// any. Requests with unreadable cookies get them cleared and continue
// without claims.
func Session(log *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseSessionClaims(r)
			if err != nil {
				if cookies.Present(r) {
					log.Debug("discarding session cookies", slog.Any("error", err))
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionClaims(r *http.Request) (*config.SessionClaims, bool) {
	claims, ok := r.Context().Value(CtxSessionClaims).(*config.SessionClaims)
	return claims, ok
}
