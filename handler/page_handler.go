package handler

import (
	"net/http"
	"os"
	"path/filepath"
)

// PageHandler serves the login and console shells. With no static directory
// configured it answers with a small JSON descriptor for the front-end.
type PageHandler struct {
	staticDir string
}

// NewPageHandler creates a page handler
func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{staticDir: staticDir}
}

// Login serves the login page. GET /login (gated)
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "login.html", map[string]string{
		"page":       "login",
		"redirectTo": r.URL.Query().Get("redirectTo"),
	})
}

// Console serves the admin console. GET /admin (gated)
func (h *PageHandler) Console(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "admin.html", map[string]string{"page": "admin"})
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, name string, shell map[string]string) {
	w.Header().Set("Cache-Control", "no-store")
	if h.staticDir != "" {
		path := filepath.Join(h.staticDir, name)
		if _, err := os.Stat(path); err == nil {
			http.ServeFile(w, r, path)
			return
		}
	}
	respondWithJSON(w, http.StatusOK, shell)
}
