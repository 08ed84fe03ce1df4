// Package schema: safe database initialization. Creates only missing tables and columns, never drops.
package schema

import (
	"crimewatch/repository"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// InitializeDatabase ensures the audit table exists and carries every required column.
// Existing tables are never dropped or recreated.
func InitializeDatabase(db *sql.DB, log *zap.SugaredLogger) error {
	if err := EnsureModerationAudit(db, log); err != nil {
		return err
	}
	return ValidateRequiredColumns(db, DefaultRequiredColumns, log)
}

// EnsureModerationAudit creates moderation_audit when missing, or adds any missing columns.
func EnsureModerationAudit(db *sql.DB, log *zap.SugaredLogger) error {
	table := repository.TableModerationAudit
	exists, err := tableExists(db, table)
	if err != nil {
		return fmt.Errorf("failed to check if table %s exists: %w", table, err)
	}
	if !exists {
		if _, err := db.Exec(createModerationAuditTable); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
		log.Infow("[SCHEMA] created table", "table", table)
		return nil
	}

	for _, col := range auditColumnSpecs {
		if err := ensureColumn(db, table, col.name, col.spec, log); err != nil {
			return err
		}
	}
	log.Infow("[SCHEMA] table exists", "table", table)
	return nil
}

// auditColumnSpecs are the columns added later than the first release of the table
var auditColumnSpecs = []struct {
	name, spec string
}{
	{"actor_name", "VARCHAR(255) NULL COMMENT 'Display name from the identity token'"},
	{"request_id", "VARCHAR(64) NULL COMMENT 'X-Request-ID of the moderating request'"},
	{"ip_address", "VARCHAR(64) NULL COMMENT 'Client IP of the moderating request'"},
}

const createModerationAuditTable = `
CREATE TABLE IF NOT EXISTS moderation_audit (
    audit_id CHAR(36) PRIMARY KEY COMMENT 'UUID assigned when the transition succeeded',
    report_id VARCHAR(64) NOT NULL COMMENT 'Report id in the reports API',
    action VARCHAR(20) NOT NULL COMMENT 'approve or deny',
    old_status VARCHAR(50) NOT NULL COMMENT 'Normalized status before the change',
    new_status VARCHAR(50) NOT NULL COMMENT 'Normalized status returned by the API',
    actor_type VARCHAR(20) NOT NULL COMMENT 'admin or system',
    actor_id VARCHAR(255) NOT NULL COMMENT 'Token subject of the admin',
    actor_name VARCHAR(255) NULL COMMENT 'Display name from the identity token',
    request_id VARCHAR(64) NULL COMMENT 'X-Request-ID of the moderating request',
    ip_address VARCHAR(64) NULL COMMENT 'Client IP of the moderating request',
    created_at TIMESTAMP(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) COMMENT 'Transition time (UTC)',
    INDEX idx_audit_report (report_id, created_at DESC),
    INDEX idx_audit_actor (actor_id),
    INDEX idx_audit_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

func tableExists(db *sql.DB, table string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`,
		table,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func ensureColumn(db *sql.DB, table, column, spec string, log *zap.SugaredLogger) error {
	exists, err := columnExists(db, table, column)
	if err != nil {
		return fmt.Errorf("failed to check column %s.%s: %w", table, column, err)
	}
	if exists {
		return nil
	}
	// MySQL has no ADD COLUMN IF NOT EXISTS
	query := "ALTER TABLE " + table + " ADD COLUMN " + column + " " + spec
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}
	log.Infow("[SCHEMA] added missing column", "table", table, "column", column)
	return nil
}
