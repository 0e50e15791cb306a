package postgres

import "context"

// HealthCheck implements ports.HealthChecker for the audit database. It
// queries the audit table itself, so a dropped table reports unhealthy too.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates an audit database health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping runs a trivial read against the audit table.
func (h *HealthCheck) Ping(ctx context.Context) error {
	_, err := h.pool.Exec(ctx, "SELECT 1 FROM faucet_audit_logs LIMIT 1")
	return err
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "postgres"
}
