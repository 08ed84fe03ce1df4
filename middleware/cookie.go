package middleware

import (
	"net/http"
	"strings"
)

// SessionCookie writes and clears the session cookie:
// Max-Age=<seconds>; Path=/; SameSite=Lax; HttpOnly; Secure when served over TLS.
type SessionCookie struct {
	Name   string
	MaxAge int
}

// Read returns the cookie value, or "" when absent.
func (c SessionCookie) Read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Present reports whether the request carries the session cookie at all.
func (c SessionCookie) Present(r *http.Request) bool {
	_, err := r.Cookie(c.Name)
	return err == nil
}

// Set stores token in the session cookie.
func (c SessionCookie) Set(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   c.MaxAge,
		HttpOnly: true,
		Secure:   isTLS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear deletes the session cookie by re-setting it with Max-Age=0.
func (c SessionCookie) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isTLS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// isTLS reports whether the client connection is HTTPS, directly or behind a proxy.
func isTLS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
