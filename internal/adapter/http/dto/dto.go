package dto

import (
	"time"

	"zeckit-faucet/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Service metadata reported by the root, health and stats endpoints.
const (
	ServiceName        = "ZecKit Faucet"
	ServiceVersion     = "0.3.0"
	ServiceDescription = "Zcash Regtest Development Faucet (Rust + ZingoLib)"
	Network            = "regtest"
	WalletBackend      = "zingolib"
)

// History limit bounds for GET /history.
const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000
)

// FaucetRequest is the request body for POST /request. Amount may be sent
// as a JSON number or string; nil selects the configured default.
type FaucetRequest struct {
	Address string           `json:"address" binding:"required,zcash_addr"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Memo    *string          `json:"memo,omitempty" binding:"omitempty,max=512"`
}

// FaucetResponse is the response body for a successful dispense.
type FaucetResponse struct {
	Success    bool    `json:"success"`
	TxID       string  `json:"txid"`
	Address    string  `json:"address"`
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
	Timestamp  string  `json:"timestamp"`
	Network    string  `json:"network"`
	Message    string  `json:"message"`
}

// AddressResponse is the response body for GET /address.
type AddressResponse struct {
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
	Network string  `json:"network"`
}

// StatsResponse is the response body for GET /stats.
type StatsResponse struct {
	FaucetAddress      string  `json:"faucet_address"`
	CurrentBalance     float64 `json:"current_balance"`
	OrchardBalance     float64 `json:"orchard_balance"`
	TransparentBalance float64 `json:"transparent_balance"`
	TotalRequests      int     `json:"total_requests"`
	TotalSent          float64 `json:"total_sent"`
	LastRequest        *string `json:"last_request"`
	UptimeSeconds      int64   `json:"uptime_seconds"`
	Network            string  `json:"network"`
	WalletBackend      string  `json:"wallet_backend"`
	Version            string  `json:"version"`
}

// HistoryResponse is the response body for GET /history.
type HistoryResponse struct {
	Count        int                        `json:"count"`
	Limit        int                        `json:"limit"`
	Transactions []domain.TransactionRecord `json:"transactions"`
}

// DependencyStatus is the health of one external dependency.
type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status        string                      `json:"status"`
	WalletBackend string                      `json:"wallet_backend"`
	Network       string                      `json:"network"`
	Balance       float64                     `json:"balance"`
	Timestamp     string                      `json:"timestamp"`
	Version       string                      `json:"version"`
	Error         string                      `json:"error,omitempty"`
	Dependencies  map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// RootResponse is the response body for GET /.
type RootResponse struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Description   string            `json:"description"`
	Network       string            `json:"network"`
	WalletBackend string            `json:"wallet_backend"`
	Endpoints     map[string]string `json:"endpoints"`
}

// SyncResponse is the response body for POST /admin/sync.
type SyncResponse struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

// RateLimitResetResponse is the response body for DELETE /admin/ratelimit/:ip.
type RateLimitResetResponse struct {
	Success   bool   `json:"success"`
	ClientIP  string `json:"client_ip"`
	Timestamp string `json:"timestamp"`
}

// AuditListResponse is the response body for GET /admin/audit.
type AuditListResponse struct {
	Count   int               `json:"count"`
	Entries []domain.AuditLog `json:"entries"`
}

// ZEC converts an exact amount to the float form used in JSON bodies.
func ZEC(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// FormatTime renders t as RFC 3339 in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ClampHistoryLimit applies the default and clamps to [1, MaxHistoryLimit].
func ClampHistoryLimit(limit *int) int {
	if limit == nil {
		return DefaultHistoryLimit
	}
	switch {
	case *limit < 1:
		return 1
	case *limit > MaxHistoryLimit:
		return MaxHistoryLimit
	}
	return *limit
}
