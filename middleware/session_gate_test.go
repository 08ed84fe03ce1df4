package middleware

import (
	"context"
	"crimewatch/auth"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubVerifier struct {
	valid map[string]bool
	calls int
}

func (s *stubVerifier) Verify(_ context.Context, token string) auth.Result {
	s.calls++
	if s.valid[token] {
		c := &auth.Claims{}
		c.Subject = "admin-" + token
		return auth.Result{Valid: true, Claims: c}
	}
	return auth.Result{Err: errors.New("invalid token")}
}

func newTestGate(v auth.TokenVerifier) *SessionGate {
	return NewSessionGate(v, SessionCookie{Name: "sess", MaxAge: 3600}, "/login", "/admin", zap.NewNop().Sugar())
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			w.Header().Set("X-Subject", claims.Subject)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("page"))
	})
}

func serve(gate *SessionGate, target, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "sess", Value: cookie})
	}
	rec := httptest.NewRecorder()
	gate.Handler(okHandler()).ServeHTTP(rec, req)
	return rec
}

func clearedCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sess" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestGateRedirectsUnauthenticatedAdmin(t *testing.T) {
	v := &stubVerifier{}
	rec := serve(newTestGate(v), "/admin/reports?status=draft", "")

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	want := "/login?redirectTo=%2Fadmin%2Freports%3Fstatus%3Ddraft"
	if loc := rec.Header().Get("Location"); loc != want {
		t.Fatalf("Location = %q, want %q", loc, want)
	}
	if v.calls != 0 {
		t.Fatalf("verifier should not run without a cookie")
	}
	if clearedCookie(rec) {
		t.Fatalf("no cookie to clear")
	}
}

func TestGateClearsStaleCookieOnAdmin(t *testing.T) {
	rec := serve(newTestGate(&stubVerifier{}), "/admin", "expired")

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Location"), "/login?redirectTo=") {
		t.Fatalf("unexpected Location %q", rec.Header().Get("Location"))
	}
	if !clearedCookie(rec) {
		t.Fatalf("stale cookie was not cleared")
	}
}

func TestGatePassesAuthenticatedAdmin(t *testing.T) {
	rec := serve(newTestGate(&stubVerifier{valid: map[string]bool{"good": true}}), "/admin/api/reports", "good")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Subject"); got != "admin-good" {
		t.Fatalf("claims not attached, subject = %q", got)
	}
}

func TestGateLoginWhenAuthenticated(t *testing.T) {
	rec := serve(newTestGate(&stubVerifier{valid: map[string]bool{"good": true}}), "/login", "good")

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("got %d %q, want 302 /admin", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGateLoginClearsInvalidCookie(t *testing.T) {
	rec := serve(newTestGate(&stubVerifier{}), "/login", "garbage")

	if rec.Code != http.StatusOK || rec.Body.String() != "page" {
		t.Fatalf("login page should render, got %d %q", rec.Code, rec.Body.String())
	}
	if !clearedCookie(rec) {
		t.Fatalf("invalid cookie was not cleared")
	}
}

func TestGateLoginWithoutCookie(t *testing.T) {
	rec := serve(newTestGate(&stubVerifier{}), "/login", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie should be set")
	}
}

func TestGateIgnoresOtherPaths(t *testing.T) {
	v := &stubVerifier{}
	for _, path := range []string{"/", "/api/dashboard", "/administrator", "/login/extra"} {
		rec := serve(newTestGate(v), path, "whatever")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", path, rec.Code)
		}
	}
	if v.calls != 0 {
		t.Fatalf("verifier ran %d times on ungated paths", v.calls)
	}
}

func TestSafeRedirect(t *testing.T) {
	g := newTestGate(&stubVerifier{})
	tests := []struct {
		in, want string
	}{
		{"", "/admin"},
		{"/admin/reports?status=denied", "/admin/reports?status=denied"},
		{"https://evil.example.com/admin", "/admin"},
		{"//evil.example.com/admin", "/admin"},
		{"/api/dashboard", "/admin"},
		{"/admin", "/admin"},
	}
	for _, tt := range tests {
		if got := g.SafeRedirect(tt.in); got != tt.want {
			t.Errorf("SafeRedirect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	c := SessionCookie{Name: "sess", MaxAge: 600}
	req := httptest.NewRequest(http.MethodPost, "/auth/session", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	c.Set(rec, req, "tok")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	got := cookies[0]
	if got.Value != "tok" || got.MaxAge != 600 || got.Path != "/" || !got.HttpOnly || !got.Secure || got.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie %+v", got)
	}

	plain := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec = httptest.NewRecorder()
	c.Clear(rec, plain)
	header := rec.Header().Get("Set-Cookie")
	if !strings.Contains(header, "Max-Age=0") || strings.Contains(header, "Secure") {
		t.Fatalf("unexpected clear header %q", header)
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	var seen string
	h := RequestLogger(zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Request-ID"))
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://console.example.com"})(okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/admin/api/reports", nil)
	req.Header.Set("Origin", "https://console.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("preflight should short-circuit, got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://console.example.com" {
		t.Fatalf("origin not echoed")
	}
}

func TestCORSCredentialsOnlyForListedOrigins(t *testing.T) {
	h := CORS([]string{"*", "https://console.example.com"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/api/reports", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Fatalf("credentials allowed for unlisted origin: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/api/reports", nil)
	req.Header.Set("Origin", "https://console.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("listed origin should get credentials")
	}
}

func TestCORSUnlistedOriginWithoutWildcard(t *testing.T) {
	h := CORS([]string{"https://console.example.com"})(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/admin/api/reports", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" || rec.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatalf("unlisted origin got CORS headers: %v", rec.Header())
	}
}
