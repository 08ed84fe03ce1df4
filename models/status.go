package models

import "strings"

// ReportStatus is a canonical moderation state of a report
type ReportStatus string

const (
	StatusDraft    ReportStatus = "draft"
	StatusApproved ReportStatus = "approved"
	StatusDenied   ReportStatus = "denied"

	// statusRejectedAlias is the legacy spelling of StatusDenied still sent by older records.
	statusRejectedAlias = "rejected"
)

// CanonicalStatuses lists the moderation states the admin console knows, in tab order.
var CanonicalStatuses = []ReportStatus{StatusDraft, StatusApproved, StatusDenied}

// NormalizeStatus lower-cases and trims a raw status, mapping "rejected" to "denied".
// Unknown values are returned lower-cased but otherwise untouched.
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == statusRejectedAlias {
		return string(StatusDenied)
	}
	return s
}

// SameStatus compares two raw statuses case-insensitively and alias-aware.
func SameStatus(a, b string) bool {
	return NormalizeStatus(a) == NormalizeStatus(b)
}

// ParseStatus returns the canonical status for raw, or false when raw is not one of them.
func ParseStatus(raw string) (ReportStatus, bool) {
	switch s := ReportStatus(NormalizeStatus(raw)); s {
	case StatusDraft, StatusApproved, StatusDenied:
		return s, true
	}
	return "", false
}

// StatusLabel returns the display form of a status. Unrecognized values are shown verbatim.
func StatusLabel(raw string) string {
	s, ok := ParseStatus(raw)
	if !ok {
		return raw
	}
	return s.APIValue()
}

// APIValue is the spelling the reports API expects in status updates (Draft, Approved, Denied).
func (s ReportStatus) APIValue() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusApproved:
		return "Approved"
	case StatusDenied:
		return "Denied"
	default:
		return string(s)
	}
}

// APIStatus returns the status string to send to the reports API for raw.
func APIStatus(raw string) string {
	if s, ok := ParseStatus(raw); ok {
		return s.APIValue()
	}
	return strings.TrimSpace(raw)
}
