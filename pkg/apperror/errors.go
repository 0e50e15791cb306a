package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"error"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Error codes, one per failure kind.
const (
	CodeInvalidAddress      = "ADDR_001"
	CodeWrongNetwork        = "ADDR_002"
	CodeOracleError         = "ADDR_003"
	CodeMalformedResponse   = "ADDR_004"
	CodeOracleUnreachable   = "ADDR_005"
	CodeInvalidAmount       = "FCT_001"
	CodeInsufficientBalance = "FCT_002"
	CodeTransactionFailed   = "FCT_003"
	CodeHistoryWriteFailed  = "FCT_004"
	CodeValidation          = "VAL_001"
	CodeRateLimitExceeded   = "RATE_001"
	CodeWalletUnavailable   = "WAL_001"
	CodeCorruptHistory      = "WAL_002"
	CodeNoBackendDetected   = "ENV_001"
	CodeUnauthorized        = "AUTH_001"
	CodeInternal            = "SYS_001"
)

// HasCode reports whether err is (or wraps) an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ---- Address validation (ADDR) ----

func ErrInvalidAddress(address string) *AppError {
	return New(CodeInvalidAddress, fmt.Sprintf("Invalid address: %s", address), http.StatusBadRequest)
}

func ErrWrongNetwork(address string) *AppError {
	return New(CodeWrongNetwork, fmt.Sprintf("Address is not a regtest address: %s", address), http.StatusBadRequest)
}

func ErrOracleError(message string) *AppError {
	return New(CodeOracleError, fmt.Sprintf("Address validation failed: %s", message), http.StatusBadRequest)
}

func ErrMalformedResponse(err error) *AppError {
	return Wrap(CodeMalformedResponse, "Malformed response from full node", http.StatusBadGateway, err)
}

func ErrOracleUnreachable(err error) *AppError {
	return Wrap(CodeOracleUnreachable, "Full node RPC unreachable", http.StatusServiceUnavailable, err)
}

// ---- Faucet business logic (FCT) ----

func ErrInvalidAmount(message string) *AppError {
	return New(CodeInvalidAmount, message, http.StatusBadRequest)
}

func ErrInsufficientBalance(available, requested string) *AppError {
	return New(CodeInsufficientBalance,
		fmt.Sprintf("Insufficient balance: have %s ZEC, need %s ZEC", available, requested),
		http.StatusServiceUnavailable)
}

func ErrTransactionFailed(err error) *AppError {
	return Wrap(CodeTransactionFailed, "Transaction failed", http.StatusInternalServerError, err)
}

// ErrHistoryWriteFailed reports a broadcast transaction that is missing from
// the history. The txid is part of the message so callers can still track it.
func ErrHistoryWriteFailed(txid string, err error) *AppError {
	return Wrap(CodeHistoryWriteFailed,
		fmt.Sprintf("Transaction %s sent but history could not be saved", txid),
		http.StatusInternalServerError, err)
}

// ---- Validation (VAL) ----

func Validation(message string) *AppError {
	return New(CodeValidation, fmt.Sprintf("Validation error: %s", message), http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Wallet (WAL) ----

func ErrWalletUnavailable(err error) *AppError {
	return Wrap(CodeWalletUnavailable, "Wallet unavailable", http.StatusInternalServerError, err)
}

func ErrCorruptHistory(err error) *AppError {
	return Wrap(CodeCorruptHistory, "Transaction history is corrupt", http.StatusInternalServerError, err)
}

// ---- Environment (ENV) ----

func ErrNoBackendDetected() *AppError {
	return New(CodeNoBackendDetected, "No backend detected: neither zaino nor lightwalletd is running", http.StatusServiceUnavailable)
}

// ---- Authentication (AUTH) ----

func ErrUnauthorized() *AppError {
	return New(CodeUnauthorized, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}
