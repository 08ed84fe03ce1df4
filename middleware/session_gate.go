package middleware

import (
	"context"
	"crimewatch/auth"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

type contextKey string

const claimsKey contextKey = "session_claims"

// ClaimsFromContext returns the verified identity attached by SessionGate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// WithClaims attaches claims to ctx.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// SessionGate protects the admin prefix and bounces signed-in users off the login page.
// It keeps no server-side session: the cookie token is re-verified on every gated request.
type SessionGate struct {
	verifier  auth.TokenVerifier
	cookie    SessionCookie
	loginPath string
	adminPath string
	log       *zap.SugaredLogger
}

// NewSessionGate creates the gate.
func NewSessionGate(verifier auth.TokenVerifier, cookie SessionCookie, loginPath, adminPath string, log *zap.SugaredLogger) *SessionGate {
	return &SessionGate{
		verifier:  verifier,
		cookie:    cookie,
		loginPath: loginPath,
		adminPath: strings.TrimSuffix(adminPath, "/"),
		log:       log,
	}
}

// LoginPath returns the login page path.
func (g *SessionGate) LoginPath() string {
	return g.loginPath
}

// AdminPath returns the admin landing path.
func (g *SessionGate) AdminPath() string {
	return g.adminPath
}

// Matches reports whether path is gated: the admin prefix or the login path.
func (g *SessionGate) Matches(path string) bool {
	return g.isProtected(path) || g.isLogin(path)
}

func (g *SessionGate) isProtected(path string) bool {
	return path == g.adminPath || strings.HasPrefix(path, g.adminPath+"/")
}

func (g *SessionGate) isLogin(path string) bool {
	return path == g.loginPath
}

// Handler wraps next with the gate. Paths outside the matcher pass through untouched.
func (g *SessionGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !g.Matches(path) {
			next.ServeHTTP(w, r)
			return
		}

		hasCookie := g.cookie.Present(r)
		var claims *auth.Claims
		if hasCookie {
			res := g.verifier.Verify(r.Context(), g.cookie.Read(r))
			if res.Valid {
				claims = res.Claims
			} else {
				g.log.Warnw("session token rejected",
					"path", path,
					"request_id", RequestIDFromContext(r.Context()),
					"error", res.Err,
				)
			}
		}
		authenticated := claims != nil

		switch {
		case g.isProtected(path) && !authenticated:
			if hasCookie {
				g.cookie.Clear(w, r)
			}
			http.Redirect(w, r, g.LoginURL(r.URL.RequestURI()), http.StatusFound)
		case g.isLogin(path) && authenticated:
			http.Redirect(w, r, g.adminPath, http.StatusFound)
		case g.isLogin(path) && hasCookie:
			g.cookie.Clear(w, r)
			next.ServeHTTP(w, r)
		default:
			if authenticated {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		}
	})
}

// LoginURL builds the login redirect carrying the original path and query.
func (g *SessionGate) LoginURL(requestURI string) string {
	return g.loginPath + "?" + url.Values{"redirectTo": {requestURI}}.Encode()
}

// SafeRedirect returns target when it is a local admin path, else the admin landing path.
// Used after login so redirectTo cannot point off-site.
func (g *SessionGate) SafeRedirect(target string) string {
	if target == "" || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return g.adminPath
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" || !g.isProtected(u.Path) {
		return g.adminPath
	}
	return u.RequestURI()
}
