package events

import (
	"context"
	"database/sql"
	"fmt"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS roster_audit_log (
	id          UUID PRIMARY KEY,
	event_type  TEXT NOT NULL,
	activity    TEXT NOT NULL,
	email       TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
)`

// AuditLog appends roster events to a Postgres table. Rosters are never rebuilt from it.
type AuditLog struct {
	db *sql.DB
}

func NewAuditLog(db *sql.DB) *AuditLog {
	return &AuditLog{db: db}
}

// EnsureSchema creates the audit table when it does not exist.
func (a *AuditLog) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("create roster_audit_log: %w", err)
	}
	return nil
}

func (a *AuditLog) Publish(ctx context.Context, event RosterEvent) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO roster_audit_log (id, event_type, activity, email, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID,
		string(event.Type),
		event.Activity,
		event.Email,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("audit insert %s: %w", event.ID, err)
	}
	return nil
}
