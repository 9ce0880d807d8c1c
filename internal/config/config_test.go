package config

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookiesRoundTrip(t *testing.T) {
	j, err := NewEphemeralJWT()
	require.NoError(t, err)
	cookies := NewCookies(j)

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(rec, "abc"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	claims, err := cookies.ParseSessionClaims(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.SessionID)
	assert.WithinDuration(t, time.Now().Add(j.Lifetime()), claims.ExpiresAt.Time, time.Minute)
}

func TestCookiesRejectForeignKey(t *testing.T) {
	ours, err := NewEphemeralJWT()
	require.NoError(t, err)
	theirs, err := NewEphemeralJWT()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, NewCookies(theirs).Issue(rec, "abc"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	_, err = NewCookies(ours).ParseSessionClaims(r)
	assert.Error(t, err)
}

func TestCookiesMissing(t *testing.T) {
	j, err := NewEphemeralJWT()
	require.NoError(t, err)
	_, err = NewCookies(j).ParseSessionClaims(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, http.ErrNoCookie)
}

func TestAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"chrome-extension://abcdefghijklmnop", true},
		{"moz-extension://1234", true},
		{"http://localhost:5173", true},
		{"http://127.0.0.1:8080", true},
		{"https://evil.example.com", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, AllowedOrigin(test.origin), test.origin)
	}
}

func TestSettingsBackend(t *testing.T) {
	t.Setenv("SETTINGS_BACKEND", "")
	b, err := NewSettingsBackend()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, b)

	t.Setenv("SETTINGS_BACKEND", "Postgres")
	b, err = NewSettingsBackend()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, b)

	t.Setenv("SETTINGS_BACKEND", "redis")
	_, err = NewSettingsBackend()
	assert.Error(t, err)
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("SESSION_TTL", "bogus")
	t.Setenv("LOG_FILE", "")
	assert.Equal(t, ":8080", Port())
	assert.Equal(t, 30*time.Minute, SessionTTL())
	assert.Nil(t, NewLogFile())

	t.Setenv("LOG_FILE", "/tmp/engine.log")
	t.Setenv("LOG_FILE_MAX_SIZE_MB", "25")
	lf := NewLogFile()
	require.NotNil(t, lf)
	assert.Equal(t, 25, lf.MaxSizeMB)
	assert.Equal(t, 3, lf.MaxBackups)
}
