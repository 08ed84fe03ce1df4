package models

import (
	"time"
)

// ReporterDetails holds the optional demographic answers given by the reporter.
// Every field is independently nullable.
type ReporterDetails struct {
	AgeGroup          *string `json:"ageGroup,omitempty"`
	Ethnicity         *string `json:"ethnicity,omitempty"`
	GenderIdentity    *string `json:"genderIdentity,omitempty"`
	SexualOrientation *string `json:"sexualOrientation,omitempty"`
}

// Report is a single citizen submission as returned by the reports API.
// Status is kept as the raw string sent by the API; use NormalizeStatus for comparisons.
// Resolved tracks the incident itself and is unrelated to moderation status.
type Report struct {
	ID              string           `json:"id"`
	CrimeGenre      string           `json:"crimeGenre"`
	CrimeType       string           `json:"crimeType"`
	Description     string           `json:"description"`
	Location        string           `json:"location"`
	Region          string           `json:"region"`
	CrimeDate       string           `json:"crimeDate,omitempty"`
	ReporterDetails *ReporterDetails `json:"reporterDetails,omitempty"`
	CreatedDate     string           `json:"createdDate,omitempty"`
	Status          string           `json:"status"`
	Resolved        bool             `json:"resolved"`
}

// IncidentYear returns the calendar year of CrimeDate, or false when the date
// is absent or cannot be parsed.
func (r Report) IncidentYear() (int, bool) {
	t, ok := ParseCrimeDate(r.CrimeDate)
	if !ok {
		return 0, false
	}
	return t.Year(), true
}

// Coordinates returns the parsed location of the report.
func (r Report) Coordinates() (Coordinates, bool) {
	return ParseLocation(r.Location)
}

// CreateReportRequest is the payload accepted by POST /api/reports
type CreateReportRequest struct {
	CrimeGenre      string           `json:"crimeGenre"`
	CrimeType       string           `json:"crimeType"`
	Description     string           `json:"description"`
	Location        string           `json:"location"`
	Region          string           `json:"region"`
	CrimeDate       string           `json:"crimeDate"`
	ReporterDetails *ReporterDetails `json:"reporterDetails,omitempty"`
	Resolved        bool             `json:"resolved"`
}

// UpdateStatusRequest is the body sent to the API when moderating a report
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// FieldError is one field-level validation message reported by the API
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIErrorPayload is the error body returned by the reports API.
type APIErrorPayload struct {
	Error   string       `json:"error,omitempty"`
	TraceID string       `json:"traceId,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// ErrorResponse is the JSON error body returned by this service
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	TraceID string `json:"traceId,omitempty"`
}

// ActorType represents who performed a moderation action
type ActorType string

const (
	ActorAdmin ActorType = "admin"
)

// ModerationAudit is an immutable record of one status transition made in the admin console.
type ModerationAudit struct {
	AuditID   string    `db:"audit_id" json:"audit_id"`
	ReportID  string    `db:"report_id" json:"report_id"`
	Action    string    `db:"action" json:"action"`
	OldStatus string    `db:"old_status" json:"old_status"`
	NewStatus string    `db:"new_status" json:"new_status"`
	ActorType ActorType `db:"actor_type" json:"actor_type"`
	ActorID   string    `db:"actor_id" json:"actor_id"`
	ActorName string    `db:"actor_name" json:"actor_name,omitempty"`
	RequestID string    `db:"request_id" json:"request_id,omitempty"`
	IPAddress string    `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
