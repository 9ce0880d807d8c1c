package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-popup/internal/config"
	"github.com/vancomm/minesweeper-popup/internal/session"
	"github.com/vancomm/minesweeper-popup/internal/settings"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestApp(t *testing.T, addr string) *App {
	t.Helper()
	j, err := config.NewEphemeralJWT()
	require.NoError(t, err)
	return New(
		discard,
		addr,
		&settings.Memory{},
		session.NewManager(discard, time.Minute),
		config.NewCookies(j),
		config.NewWebSocket(),
	)
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, "")
	t.Cleanup(a.sessions.Shutdown)
	h := a.Handler()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/settings", http.StatusOK},
		{http.MethodGet, "/game", http.StatusNotFound},
		{http.MethodPost, "/game?width=4&height=4&mines=3", http.StatusOK},
		{http.MethodDelete, "/game", http.StatusNoContent},
		{http.MethodPut, "/game", http.StatusMethodNotAllowed},
		{http.MethodGet, "/leaderboard", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPreflight(t *testing.T) {
	a := newTestApp(t, "")
	t.Cleanup(a.sessions.Shutdown)

	r := httptest.NewRequest(http.MethodOptions, "/game", nil)
	r.Header.Set("Origin", "chrome-extension://popup")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, r)

	assert.Equal(t, "chrome-extension://popup", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestStartStops(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	a := newTestApp(t, addr)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + addr + "/settings")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
