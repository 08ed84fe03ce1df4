package service

import (
	"context"
	"crimewatch/models"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Action is a moderation action offered in the admin console
type Action string

const (
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
)

var (
	ErrUnknownAction    = errors.New("unknown moderation action")
	ErrActionNotOffered = errors.New("action not offered for the report's current status")
)

// ParseAction validates a raw action name.
func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case ActionApprove, ActionDeny:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
}

// Target returns the status an action moves a report to.
func (a Action) Target() models.ReportStatus {
	if a == ActionApprove {
		return models.StatusApproved
	}
	return models.StatusDenied
}

// AvailableActions returns the actions offered for a report in the given status:
// approve from draft or denied, deny from draft or approved. Unknown statuses get none.
func AvailableActions(status string) []Action {
	switch models.NormalizeStatus(status) {
	case string(models.StatusDraft):
		return []Action{ActionApprove, ActionDeny}
	case string(models.StatusDenied):
		return []Action{ActionApprove}
	case string(models.StatusApproved):
		return []Action{ActionDeny}
	}
	return []Action{}
}

func offers(status string, action Action) bool {
	for _, a := range AvailableActions(status) {
		if a == action {
			return true
		}
	}
	return false
}

// Actor identifies the admin performing a transition.
type Actor struct {
	ID        string
	Name      string
	RequestID string
	IPAddress string
}

// TransitionResult is the outcome of a successful status change.
// KeepOpen is false when the updated report no longer belongs to the active tab,
// so the open detail view must close.
type TransitionResult struct {
	Report   *models.Report `json:"report"`
	KeepOpen bool           `json:"keepOpen"`
	Actions  []Action       `json:"actions"`
}

// ModerationService approves and denies reports through the reports API
type ModerationService struct {
	api   ReportsAPI
	audit AuditRecorder
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewModerationService creates a moderation service. audit may be nil.
func NewModerationService(api ReportsAPI, audit AuditRecorder, log *zap.SugaredLogger) *ModerationService {
	return &ModerationService{
		api:   api,
		audit: audit,
		log:   log,
		now:   time.Now,
	}
}

// Detail returns a report and the actions currently offered for it.
func (s *ModerationService) Detail(ctx context.Context, id string) (*models.Report, []Action, error) {
	report, err := s.api.GetReport(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return report, AvailableActions(report.Status), nil
}

// Transition applies action to report id and returns the server's copy of the report.
// activeTab is the status tab the admin is viewing.
func (s *ModerationService) Transition(ctx context.Context, id string, action Action, activeTab string, actor Actor) (*TransitionResult, error) {
	current, err := s.api.GetReport(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	if !offers(current.Status, action) {
		return nil, fmt.Errorf("%w: %s on %q", ErrActionNotOffered, action, current.Status)
	}

	updated, err := s.api.UpdateStatus(ctx, id, action.Target())
	if err != nil {
		return nil, fmt.Errorf("failed to update report %s status: %w", id, err)
	}

	s.recordAudit(current, updated, action, actor)
	s.log.Infow("report status changed",
		"report_id", id,
		"action", action,
		"old_status", current.Status,
		"new_status", updated.Status,
		"actor_id", actor.ID,
		"request_id", actor.RequestID,
	)

	return &TransitionResult{
		Report:   updated,
		KeepOpen: models.SameStatus(updated.Status, activeTab),
		Actions:  AvailableActions(updated.Status),
	}, nil
}

func (s *ModerationService) recordAudit(before, after *models.Report, action Action, actor Actor) {
	if s.audit == nil {
		return
	}
	entry := models.ModerationAudit{
		AuditID:   uuid.NewString(),
		ReportID:  after.ID,
		Action:    string(action),
		OldStatus: models.NormalizeStatus(before.Status),
		NewStatus: models.NormalizeStatus(after.Status),
		ActorType: models.ActorAdmin,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		RequestID: actor.RequestID,
		IPAddress: actor.IPAddress,
		CreatedAt: s.now().UTC(),
	}
	if entry.ReportID == "" {
		entry.ReportID = before.ID
	}
	if !s.audit.Enqueue(entry) {
		s.log.Warnw("moderation audit entry dropped", "report_id", entry.ReportID, "audit_id", entry.AuditID)
	}
}

// ReplaceReport returns a copy of list with the report matching updated.ID swapped
// for updated. list itself is not modified.
func ReplaceReport(list []models.Report, updated models.Report) []models.Report {
	out := make([]models.Report, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
		}
	}
	return out
}
