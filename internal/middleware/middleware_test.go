package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-popup/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("inner"), tag("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := Logging(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestSessionClaims(t *testing.T) {
	j, err := config.NewEphemeralJWT()
	require.NoError(t, err)
	cookies := config.NewCookies(j)

	var (
		got *config.SessionClaims
		ok  bool
	)
	h := Session(discard, cookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = SessionClaims(r)
	}))

	t.Run("no cookies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, ok)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("valid cookies", func(t *testing.T) {
		issued := httptest.NewRecorder()
		require.NoError(t, cookies.Issue(issued, "abc"))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range issued.Result().Cookies() {
			r.AddCookie(c)
		}
		h.ServeHTTP(httptest.NewRecorder(), r)
		require.True(t, ok)
		assert.Equal(t, "abc", got.SessionID)
	})

	t.Run("tampered cookies", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "popup", Value: "e30.e30"})
		r.AddCookie(&http.Cookie{Name: "sign", Value: "bogus"})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.False(t, ok)
		for _, c := range rec.Result().Cookies() {
			assert.Equal(t, -1, c.MaxAge, c.Name)
		}
		assert.Len(t, rec.Result().Cookies(), 2)
	})
}

func TestCors(t *testing.T) {
	h := Cors(config.AllowedOrigin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/settings", nil)
	r.Header.Set("Origin", "chrome-extension://abcdef")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "chrome-extension://abcdef", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	r = httptest.NewRequest(http.MethodGet, "/settings", nil)
	r.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
