package routes

import (
	"crimewatch/handler"
	"crimewatch/middleware"
	"crimewatch/service"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Dependencies are the components the HTTP layer is built from
type Dependencies struct {
	API            service.ReportsAPI
	Moderation     *service.ModerationService
	Reports        *service.ReportService
	Stats          *service.StatsService
	Audits         handler.AuditReader // nil without an audit database
	Auth           *handler.AuthHandler
	Gate           *middleware.SessionGate
	StaticDir      string
	PageSize       int
	AllowedOrigins []string
	Log            *zap.SugaredLogger
}

// SetupRoutes configures all routes and wraps them with request logging, CORS and the session gate.
func SetupRoutes(deps Dependencies) http.Handler {
	router := mux.NewRouter()

	adminHandler := handler.NewAdminHandler(deps.API, deps.Moderation, deps.Audits, deps.PageSize, deps.Log)
	publicHandler := handler.NewPublicHandler(deps.Reports, deps.Stats, deps.Log)
	pageHandler := handler.NewPageHandler(deps.StaticDir)

	router.HandleFunc("/health", handler.Health).Methods("GET")

	// Session endpoints (not gated; the token itself is verified)
	router.HandleFunc("/auth/session", deps.Auth.CreateSession).Methods("POST")
	router.HandleFunc("/auth/logout", deps.Auth.Logout).Methods("POST")

	// Pages (gated)
	router.HandleFunc(deps.Gate.LoginPath(), pageHandler.Login).Methods("GET")
	router.HandleFunc(deps.Gate.AdminPath(), pageHandler.Console).Methods("GET")

	// Admin API (gated)
	admin := router.PathPrefix(deps.Gate.AdminPath() + "/api").Subrouter()
	admin.HandleFunc("/me", deps.Auth.Me).Methods("GET")
	admin.HandleFunc("/reports", adminHandler.ListReports).Methods("GET")
	admin.HandleFunc("/reports/{id}", adminHandler.GetReport).Methods("GET")
	admin.HandleFunc("/reports/{id}/status", adminHandler.UpdateStatus).Methods("POST")
	admin.HandleFunc("/reports/{id}/audit", adminHandler.GetAuditTrail).Methods("GET")

	// Public API
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", publicHandler.Dashboard).Methods("GET")
	api.HandleFunc("/map/markers", publicHandler.Markers).Methods("GET")
	api.HandleFunc("/reports", publicHandler.CreateReport).Methods("POST")
	api.HandleFunc("/reports/crime-genre/{genre}", publicHandler.ReportsByGenre).Methods("GET")

	// Console assets
	if deps.StaticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}

	var h http.Handler = router
	h = deps.Gate.Handler(h)
	h = middleware.CORS(deps.AllowedOrigins)(h)
	h = middleware.RequestLogger(deps.Log)(h)
	return h
}
