package service

import (
	"context"
	"crimewatch/filter"
	"crimewatch/models"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ValidationError lists the field problems found in a submission
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// ReportService handles public report submission and listing
type ReportService struct {
	api ReportsAPI
	log *zap.SugaredLogger
}

// NewReportService creates a report service
func NewReportService(api ReportsAPI, log *zap.SugaredLogger) *ReportService {
	return &ReportService{api: api, log: log}
}

// ValidateCreateRequest checks the fields a submission cannot do without.
func ValidateCreateRequest(req *models.CreateReportRequest) error {
	var errs []models.FieldError
	required := []struct {
		field, value string
	}{
		{"crimeGenre", req.CrimeGenre},
		{"crimeType", req.CrimeType},
		{"location", req.Location},
		{"region", req.Region},
		{"crimeDate", req.CrimeDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, models.FieldError{Field: r.field, Message: "is required"})
		}
	}
	if strings.TrimSpace(req.Location) != "" {
		if _, ok := models.ParseLocation(req.Location); !ok {
			errs = append(errs, models.FieldError{Field: "location", Message: "must contain a latitude and a longitude"})
		}
	}
	if strings.TrimSpace(req.CrimeDate) != "" {
		if _, ok := models.ParseCrimeDate(req.CrimeDate); !ok {
			errs = append(errs, models.FieldError{Field: "crimeDate", Message: "is not a valid date"})
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Create validates req and forwards it to the reports API.
func (s *ReportService) Create(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}
	report, err := s.api.CreateReport(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	s.log.Infow("report submitted", "report_id", report.ID, "crime_genre", report.CrimeGenre, "region", report.Region)
	return report, nil
}

// ApprovedByGenre lists the approved reports of one crime genre.
func (s *ReportService) ApprovedByGenre(ctx context.Context, genre string) ([]models.Report, error) {
	if filter.Key(genre) == "" {
		return nil, &ValidationError{Errors: []models.FieldError{{Field: "genre", Message: "is required"}}}
	}
	reports, err := s.api.ListReportsByGenre(ctx, genre)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for genre %s: %w", genre, err)
	}
	return filter.Partition(reports, string(models.StatusApproved)), nil
}
