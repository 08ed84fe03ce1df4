package schema

import (
	"crimewatch/repository"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RequiredColumn defines a required column for a table.
type RequiredColumn struct {
	Table  string
	Column string
}

// DefaultRequiredColumns are the columns the audit repository writes.
var DefaultRequiredColumns = []RequiredColumn{
	{Table: repository.TableModerationAudit, Column: "audit_id"},
	{Table: repository.TableModerationAudit, Column: "report_id"},
	{Table: repository.TableModerationAudit, Column: "old_status"},
	{Table: repository.TableModerationAudit, Column: "new_status"},
	{Table: repository.TableModerationAudit, Column: "actor_id"},
	{Table: repository.TableModerationAudit, Column: "request_id"},
}

// ValidateRequiredColumns checks that all required columns exist and lists the missing ones.
func ValidateRequiredColumns(db *sql.DB, required []RequiredColumn, log *zap.SugaredLogger) error {
	if len(required) == 0 {
		required = DefaultRequiredColumns
	}
	var missing []string
	for _, rc := range required {
		exists, err := columnExists(db, rc.Table, rc.Column)
		if err != nil {
			return fmt.Errorf("failed to check column %s.%s: %w", rc.Table, rc.Column, err)
		}
		if !exists {
			missing = append(missing, rc.Table+"."+rc.Column)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns (run migrations to fix): %s", strings.Join(missing, ", "))
	}
	log.Infow("[SCHEMA] required columns verified", "count", len(required))
	return nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM information_schema.COLUMNS
		 WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
