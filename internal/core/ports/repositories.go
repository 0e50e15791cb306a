package ports

import (
	"context"

	"zeckit-faucet/internal/core/domain"
)

// LedgerStore is the append-only dispense history.
type LedgerStore interface {
	// Append adds the record and flushes the whole history to storage.
	// On a write failure the in-memory append is kept.
	Append(record domain.TransactionRecord) error
	// All returns a copy of every record in insertion order.
	All() []domain.TransactionRecord
	// Recent returns up to limit records, newest first.
	Recent(limit int) []domain.TransactionRecord
	Len() int
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]domain.AuditLog, error)
}
