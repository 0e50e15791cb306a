package postgres

import (
	"context"
	"fmt"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS faucet_audit_logs (
	id            UUID PRIMARY KEY,
	action        TEXT        NOT NULL,
	resource_type TEXT        NOT NULL,
	resource_id   TEXT        NOT NULL DEFAULT '',
	details       JSONB,
	ip_address    TEXT        NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_faucet_audit_logs_created_at ON faucet_audit_logs (created_at DESC);
`

// EnsureSchema creates the audit table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("creating audit schema: %w", err)
	}
	return nil
}
