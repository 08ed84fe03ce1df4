package service

import (
	"context"
	"crimewatch/models"
	"fmt"
	"sync"
)

// fakeAPI is an in-memory reports API.
type fakeAPI struct {
	mu        sync.Mutex
	reports   map[string]models.Report
	order     []string
	lastQuery string
	updates   int
	failWith  error
}

func newFakeAPI(reports ...models.Report) *fakeAPI {
	f := &fakeAPI{reports: make(map[string]models.Report)}
	for _, r := range reports {
		f.reports[r.ID] = r
		f.order = append(f.order, r.ID)
	}
	return f
}

func (f *fakeAPI) ListReports(_ context.Context, status string) ([]models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = status
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.Report, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.reports[id])
	}
	return out, nil
}

func (f *fakeAPI) GetReport(_ context.Context, id string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	r, ok := f.reports[id]
	if !ok {
		return nil, fmt.Errorf("report %s not found", id)
	}
	return &r, nil
}

func (f *fakeAPI) ListReportsByGenre(_ context.Context, genre string) ([]models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = genre
	var out []models.Report
	for _, id := range f.order {
		if f.reports[id].CrimeGenre == genre {
			out = append(out, f.reports[id])
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateReport(_ context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	r := models.Report{
		ID:         fmt.Sprintf("new-%d", len(f.order)+1),
		CrimeGenre: req.CrimeGenre,
		CrimeType:  req.CrimeType,
		Location:   req.Location,
		Region:     req.Region,
		CrimeDate:  req.CrimeDate,
		Status:     "Draft",
	}
	f.reports[r.ID] = r
	f.order = append(f.order, r.ID)
	return &r, nil
}

func (f *fakeAPI) UpdateStatus(_ context.Context, id string, status models.ReportStatus) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	r, ok := f.reports[id]
	if !ok {
		return nil, fmt.Errorf("report %s not found", id)
	}
	f.updates++
	r.Status = status.APIValue()
	f.reports[id] = r
	return &r, nil
}

type recordingAudit struct {
	entries []models.ModerationAudit
	full    bool
}

func (a *recordingAudit) Enqueue(entry models.ModerationAudit) bool {
	if a.full {
		return false
	}
	a.entries = append(a.entries, entry)
	return true
}
