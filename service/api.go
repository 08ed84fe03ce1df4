package service

import (
	"context"
	"crimewatch/models"
)

// ReportsAPI is the subset of the reports API client the services depend on.
// *apiclient.Client satisfies it.
type ReportsAPI interface {
	ListReports(ctx context.Context, status string) ([]models.Report, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ListReportsByGenre(ctx context.Context, genre string) ([]models.Report, error)
	CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (*models.Report, error)
}

// AuditRecorder accepts moderation audit entries. Enqueue must not block;
// it returns false when the entry was dropped.
type AuditRecorder interface {
	Enqueue(entry models.ModerationAudit) bool
}
