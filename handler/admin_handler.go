package handler

import (
	"context"
	"crimewatch/filter"
	"crimewatch/middleware"
	"crimewatch/models"
	"crimewatch/service"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AuditReader reads the moderation trail of a report
type AuditReader interface {
	ListByReport(ctx context.Context, reportID string, limit int) ([]models.ModerationAudit, error)
}

// AdminHandler serves the admin console's JSON API. Every route sits behind the session gate.
type AdminHandler struct {
	api        service.ReportsAPI
	moderation *service.ModerationService
	audits     AuditReader // nil when no audit database is configured
	pageSize   int
	log        *zap.SugaredLogger
}

// NewAdminHandler creates an admin handler. audits may be nil.
func NewAdminHandler(api service.ReportsAPI, moderation *service.ModerationService, audits AuditReader, pageSize int, log *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{
		api:        api,
		moderation: moderation,
		audits:     audits,
		pageSize:   pageSize,
		log:        log,
	}
}

type adminReportListResponse struct {
	filter.Snapshot
	Tabs []adminTab `json:"tabs"`
}

type adminTab struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// ListReports returns one page of the filtered report view.
// GET /admin/api/reports?status=&genre=&type=&region=&year=&loadMore=
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.api.ListReports(r.Context(), "")
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	view := buildView(reports, r.URL.Query(), h.pageSize)

	tabs := make([]adminTab, 0, len(models.CanonicalStatuses))
	for _, s := range models.CanonicalStatuses {
		tabs = append(tabs, adminTab{
			Status: string(s),
			Label:  s.APIValue(),
			Count:  len(filter.Partition(reports, string(s))),
		})
	}
	respondWithJSON(w, http.StatusOK, adminReportListResponse{Snapshot: view.Snapshot(), Tabs: tabs})
}

// buildView replays the query parameters onto a fresh view in the order the console applies them.
func buildView(reports []models.Report, q url.Values, pageSize int) *filter.View {
	view := filter.NewView(pageSize)
	view.SetReports(reports)
	if tab := q.Get("status"); tab != "" {
		view.SetTab(tab)
	}
	if genre := q.Get("genre"); genre != "" {
		view.SelectGenre(genre)
	}
	for _, t := range uniqueText(q["type"]) {
		view.ToggleType(t)
	}
	for _, region := range uniqueText(q["region"]) {
		view.ToggleRegion(region)
	}
	seenYears := make(map[int]bool)
	for _, y := range q["year"] {
		year, err := strconv.Atoi(y)
		if err != nil || seenYears[year] {
			continue
		}
		seenYears[year] = true
		view.ToggleYear(year)
	}
	if n, err := strconv.Atoi(q.Get("loadMore")); err == nil {
		for i := 0; i < n && view.HasMore(); i++ {
			view.LoadMore()
		}
	}
	return view
}

// uniqueText drops repeated query values so that each one is selected once.
func uniqueText(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		k := filter.Key(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

type adminReportDetailResponse struct {
	Report      *models.Report   `json:"report"`
	StatusLabel string           `json:"statusLabel"`
	Actions     []service.Action `json:"actions"`
}

// GetReport returns one report and the actions offered for it. GET /admin/api/reports/{id}
func (h *AdminHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	report, actions, err := h.moderation.Detail(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, adminReportDetailResponse{
		Report:      report,
		StatusLabel: models.StatusLabel(report.Status),
		Actions:     actions,
	})
}

type adminStatusRequest struct {
	Action    string `json:"action"`
	ActiveTab string `json:"activeTab"`
}

type adminStatusResponse struct {
	*service.TransitionResult
	StatusLabel string `json:"statusLabel"`
}

// UpdateStatus approves or denies a report. POST /admin/api/reports/{id}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req adminStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	action, err := service.ParseAction(req.Action)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	actor := service.Actor{
		RequestID: middleware.RequestIDFromContext(r.Context()),
		IPAddress: getClientIP(r),
	}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		actor.ID = claims.Subject
		actor.Name = claims.DisplayName()
	}

	res, err := h.moderation.Transition(r.Context(), id, action, req.ActiveTab, actor)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, adminStatusResponse{
		TransitionResult: res,
		StatusLabel:      models.StatusLabel(res.Report.Status),
	})
}

// GetAuditTrail returns the moderation history of a report. GET /admin/api/reports/{id}/audit
func (h *AdminHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	if h.audits == nil {
		respondWithError(w, http.StatusNotFound, "Not Found", "Audit log is not configured")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.audits.ListByReport(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	if entries == nil {
		entries = []models.ModerationAudit{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
