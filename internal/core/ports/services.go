package ports

import (
	"context"
	"time"

	"zeckit-faucet/internal/core/domain"

	"github.com/shopspring/decimal"
)

// TokenService handles JWT token operations for admin routes.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
	Recent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

// WalletService is the single owner of the faucet wallet. Sends take
// exclusive access; queries share access.
type WalletService interface {
	Open(ctx context.Context) error
	Send(ctx context.Context, to string, amount decimal.Decimal, memo string) (string, error)
	Balance(ctx context.Context) (domain.Balance, error)
	UnifiedAddress(ctx context.Context) (string, error)
	Stats() WalletStats
	Recent(limit int) []domain.TransactionRecord
	Sync(ctx context.Context) error
	Status() domain.WalletStatus
	Close() error
}

// WalletStats is an aggregate over the ledger.
type WalletStats struct {
	Count     int
	TotalSent decimal.Decimal
	Last      *time.Time
}

// FaucetService composes validation, wallet and ledger behind the
// request-level operations.
type FaucetService interface {
	Dispense(ctx context.Context, req DispenseRequest) (*DispenseResult, error)
	Health(ctx context.Context) (*HealthInfo, error)
	Stats(ctx context.Context) (*FaucetStats, error)
	History(limit int) []domain.TransactionRecord
	Address(ctx context.Context) (string, domain.Balance, error)
	Sync(ctx context.Context) error
}

// DispenseRequest holds input for a funds request. A nil Amount selects the
// configured default.
type DispenseRequest struct {
	Address  string
	Amount   *decimal.Decimal
	Memo     string
	ClientIP string
}

// DispenseResult is returned after a successful send.
type DispenseResult struct {
	TxID       string
	Address    string
	Amount     decimal.Decimal
	NewBalance decimal.Decimal
	Timestamp  time.Time
}

// HealthInfo is the wallet part of the health report.
type HealthInfo struct {
	Balance decimal.Decimal
}

// FaucetStats is the stats view.
type FaucetStats struct {
	Address       string
	Balance       domain.Balance
	TotalRequests int
	TotalSent     decimal.Decimal
	LastRequest   *time.Time
	Uptime        time.Duration
}
