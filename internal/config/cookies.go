package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	sessionCookie = "popup"
	signCookie    = "sign"
)

// Cookies splits the session token in two: header and payload readable by
// the page, signature http-only.
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

// NewCookies reads the cookie attributes from the environment. Unset
// variables fall back to host-only, insecure, Lax cookies suitable for a
// locally served popup.
func NewCookies(j *JWT) *Cookies {
	cookies := &Cookies{
		Domain:   os.Getenv("COOKIES_DOMAIN"),
		Secure:   os.Getenv("COOKIES_SECURE") == "1",
		SameSite: http.SameSiteLaxMode,
		jwt:      j,
	}

	switch strings.ToUpper(os.Getenv("COOKIES_SAMESITE")) {
	case "DEFAULT":
		cookies.SameSite = http.SameSiteDefaultMode
	case "STRICT":
		cookies.SameSite = http.SameSiteStrictMode
	case "NONE":
		cookies.SameSite = http.SameSiteNoneMode
	}

	return cookies
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{sessionCookie, signCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Path:     "/",
			Value:    "delete",
			MaxAge:   -1,
			HttpOnly: name == signCookie,
			Domain:   c.Domain,
			Secure:   c.Secure,
			SameSite: c.SameSite,
		})
	}
}

// Issue signs a token for sessionID and stores it in the response cookies.
func (c *Cookies) Issue(w http.ResponseWriter, sessionID string) error {
	token, err := c.jwt.Sign(c.jwt.NewSessionClaims(sessionID))
	if err != nil {
		return fmt.Errorf("unable to sign session token: %w", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	header, payload, signature := parts[0], parts[1], parts[2]
	expires := time.Now().Add(c.jwt.Lifetime())
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Path:     "/",
		Value:    header + "." + payload,
		Expires:  expires,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     signCookie,
		Path:     "/",
		Value:    signature,
		Expires:  expires,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	return nil
}

func (c *Cookies) ParseSessionClaims(r *http.Request) (*SessionClaims, error) {
	sessCookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, err
	}
	sigCookie, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(
		sessCookie.Value+"."+sigCookie.Value, &SessionClaims{},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.SessionID == "" {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}

// Present reports whether r carries either half of a session token.
func (c *Cookies) Present(r *http.Request) bool {
	for _, name := range []string{sessionCookie, signCookie} {
		if _, err := r.Cookie(name); err == nil {
			return true
		}
	}
	return false
}
