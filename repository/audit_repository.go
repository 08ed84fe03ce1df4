package repository

import (
	"context"
	"crimewatch/models"
	"database/sql"
	"fmt"
	"strings"
)

// AuditRepository handles database operations for moderation audit entries
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertBatch writes entries in one multi-row INSERT. Entries are immutable once written.
func (r *AuditRepository) InsertBatch(ctx context.Context, entries []models.ModerationAudit) error {
	if len(entries) == 0 {
		return nil
	}

	query, args := buildAuditInsert(entries)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %d audit entries: %w", len(entries), err)
	}
	return nil
}

// auditColumns is the column order used by every audit INSERT
var auditColumns = []string{
	"audit_id", "report_id", "action", "old_status", "new_status",
	"actor_type", "actor_id", "actor_name", "request_id", "ip_address", "created_at",
}

func buildAuditInsert(entries []models.ModerationAudit) (string, []interface{}) {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(auditColumns)), ", ") + ")"
	rows := make([]string, 0, len(entries))
	args := make([]interface{}, 0, len(entries)*len(auditColumns))
	for _, e := range entries {
		rows = append(rows, placeholder)
		args = append(args,
			e.AuditID,
			e.ReportID,
			e.Action,
			e.OldStatus,
			e.NewStatus,
			string(e.ActorType),
			e.ActorID,
			nullString(e.ActorName),
			nullString(e.RequestID),
			nullString(e.IPAddress),
			e.CreatedAt,
		)
	}
	query := "INSERT INTO " + TableModerationAudit + " (" + strings.Join(auditColumns, ", ") + ") VALUES " + strings.Join(rows, ", ")
	return query, args
}

// ListByReport returns the audit trail of one report, newest first.
func (r *AuditRepository) ListByReport(ctx context.Context, reportID string, limit int) ([]models.ModerationAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT audit_id, report_id, action, old_status, new_status,
		       actor_type, actor_id, actor_name, request_id, ip_address, created_at
		FROM ` + TableModerationAudit + `
		WHERE report_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, reportID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit trail: %w", err)
	}
	defer rows.Close()

	var entries []models.ModerationAudit
	for rows.Next() {
		var (
			e                               models.ModerationAudit
			actorType                       string
			actorName, requestID, ipAddress sql.NullString
		)
		if err := rows.Scan(
			&e.AuditID,
			&e.ReportID,
			&e.Action,
			&e.OldStatus,
			&e.NewStatus,
			&actorType,
			&e.ActorID,
			&actorName,
			&requestID,
			&ipAddress,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.ActorType = models.ActorType(actorType)
		e.ActorName = actorName.String
		e.RequestID = requestID.String
		e.IPAddress = ipAddress.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit trail: %w", err)
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// TableModerationAudit is the audit table name
const TableModerationAudit = "moderation_audit"
