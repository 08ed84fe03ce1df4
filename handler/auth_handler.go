package handler

import (
	"crimewatch/auth"
	"crimewatch/middleware"
	"net/http"

	"go.uber.org/zap"
)

// AuthHandler exchanges identity tokens for session cookies
type AuthHandler struct {
	verifier auth.TokenVerifier
	cookie   middleware.SessionCookie
	gate     *middleware.SessionGate
	log      *zap.SugaredLogger
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(verifier auth.TokenVerifier, cookie middleware.SessionCookie, gate *middleware.SessionGate, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{verifier: verifier, cookie: cookie, gate: gate, log: log}
}

type createSessionRequest struct {
	IDToken    string `json:"idToken"`
	RedirectTo string `json:"redirectTo"`
}

type sessionResponse struct {
	RedirectTo string `json:"redirectTo"`
	Name       string `json:"name,omitempty"`
}

// CreateSession verifies a freshly obtained ID token and stores it in the session cookie.
// POST /auth/session
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := h.verifier.Verify(r.Context(), req.IDToken)
	if !res.Valid {
		h.log.Warnw("login rejected",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"ip", getClientIP(r),
			"error", res.Err,
		)
		h.cookie.Clear(w, r)
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Sign-in failed")
		return
	}

	h.cookie.Set(w, r, req.IDToken)
	h.log.Infow("admin signed in", "subject", res.Claims.Subject, "request_id", middleware.RequestIDFromContext(r.Context()))
	respondWithJSON(w, http.StatusOK, sessionResponse{
		RedirectTo: h.gate.SafeRedirect(req.RedirectTo),
		Name:       res.Claims.DisplayName(),
	})
}

// Logout clears the session cookie. POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookie.Clear(w, r)
	respondWithJSON(w, http.StatusOK, sessionResponse{RedirectTo: h.gate.LoginPath()})
}

type meResponse struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
}

// Me returns the signed-in admin. GET /admin/api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Not signed in")
		return
	}
	respondWithJSON(w, http.StatusOK, meResponse{
		Subject: claims.Subject,
		Name:    claims.DisplayName(),
		Email:   claims.Email,
	})
}
