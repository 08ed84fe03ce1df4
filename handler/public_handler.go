package handler

import (
	"crimewatch/models"
	"crimewatch/service"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PublicHandler serves the anonymous endpoints: dashboards, map, submission. No auth.
type PublicHandler struct {
	reports *service.ReportService
	stats   *service.StatsService
	log     *zap.SugaredLogger
}

// NewPublicHandler creates a public handler
func NewPublicHandler(reports *service.ReportService, stats *service.StatsService, log *zap.SugaredLogger) *PublicHandler {
	return &PublicHandler{reports: reports, stats: stats, log: log}
}

// Dashboard returns the aggregates for the public dashboards.
// GET /api/dashboard?status=&type=&region=&year=
func (h *PublicHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.DashboardQuery{
		Status:  q.Get("status"),
		Types:   q["type"],
		Regions: q["region"],
	}
	for _, y := range q["year"] {
		if year, err := strconv.Atoi(y); err == nil {
			query.Years = append(query.Years, year)
		}
	}

	dashboard, err := h.stats.Dashboard(r.Context(), query)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dashboard)
}

// Markers returns the map pins. GET /api/map/markers?status=
func (h *PublicHandler) Markers(w http.ResponseWriter, r *http.Request) {
	markers, err := h.stats.Markers(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"markers": markers})
}

// CreateReport forwards an anonymous submission. POST /api/reports
func (h *PublicHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := h.reports.Create(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, report)
}

// ReportsByGenre lists approved reports of one genre. GET /api/reports/crime-genre/{genre}
func (h *PublicHandler) ReportsByGenre(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ApprovedByGenre(r.Context(), mux.Vars(r)["genre"])
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reports)
}

// Health reports liveness. GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
