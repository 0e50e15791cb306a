package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zeckit-faucet/config"
	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/pkg/apperror"
	"zeckit-faucet/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FaucetServiceImpl implements ports.FaucetService.
type FaucetServiceImpl struct {
	wallet    ports.WalletService
	validator ports.AddressValidator
	bounds    config.RequestBounds
	startedAt time.Time
	now       func() time.Time
	log       zerolog.Logger
}

// NewFaucetService creates a new FaucetServiceImpl. Uptime counts from the
// moment of construction.
func NewFaucetService(
	wallet ports.WalletService,
	validator ports.AddressValidator,
	bounds config.RequestBounds,
	log zerolog.Logger,
) *FaucetServiceImpl {
	return &FaucetServiceImpl{
		wallet:    wallet,
		validator: validator,
		bounds:    bounds,
		startedAt: time.Now(),
		now:       time.Now,
		log:       logger.Component(log, "faucet"),
	}
}

// Dispense validates the address against the full node, applies the amount
// bounds and sends. The address is checked before the amount.
func (s *FaucetServiceImpl) Dispense(ctx context.Context, req ports.DispenseRequest) (*ports.DispenseResult, error) {
	address, err := s.validator.Validate(ctx, req.Address)
	if err != nil {
		s.log.Warn().Err(err).
			Str("address", logger.Truncate(req.Address, 12)).
			Str("client_ip", req.ClientIP).
			Msg("address rejected")
		return nil, mapValidationError(req.Address, err)
	}

	amount := s.bounds.Default
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !s.bounds.Contains(amount) {
		return nil, apperror.ErrInvalidAmount(fmt.Sprintf("Amount must be between %s and %s ZEC",
			s.bounds.Min.String(), s.bounds.Max.String()))
	}

	txid, err := s.wallet.Send(ctx, address, amount, req.Memo)
	if err != nil {
		return nil, err
	}

	newBalance := decimal.Zero
	bal, err := s.wallet.Balance(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("txid", txid).Msg("balance after send unavailable")
	} else {
		newBalance = bal.TotalZEC()
	}

	return &ports.DispenseResult{
		TxID:       txid,
		Address:    address,
		Amount:     amount,
		NewBalance: newBalance,
		Timestamp:  s.now().UTC(),
	}, nil
}

// Health reports the wallet's total balance.
func (s *FaucetServiceImpl) Health(ctx context.Context) (*ports.HealthInfo, error) {
	bal, err := s.wallet.Balance(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.HealthInfo{Balance: bal.TotalZEC()}, nil
}

// Stats combines the live balance with the ledger aggregate.
func (s *FaucetServiceImpl) Stats(ctx context.Context) (*ports.FaucetStats, error) {
	addr, err := s.wallet.UnifiedAddress(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := s.wallet.Balance(ctx)
	if err != nil {
		return nil, err
	}

	agg := s.wallet.Stats()
	return &ports.FaucetStats{
		Address:       addr,
		Balance:       bal,
		TotalRequests: agg.Count,
		TotalSent:     agg.TotalSent,
		LastRequest:   agg.Last,
		Uptime:        s.now().Sub(s.startedAt),
	}, nil
}

// History returns up to limit records, newest first.
func (s *FaucetServiceImpl) History(limit int) []domain.TransactionRecord {
	return s.wallet.Recent(limit)
}

// Address returns the faucet's receiving address and balance.
func (s *FaucetServiceImpl) Address(ctx context.Context) (string, domain.Balance, error) {
	addr, err := s.wallet.UnifiedAddress(ctx)
	if err != nil {
		return "", domain.Balance{}, err
	}
	bal, err := s.wallet.Balance(ctx)
	if err != nil {
		return "", domain.Balance{}, err
	}
	return addr, bal, nil
}

// Sync forces a wallet sync.
func (s *FaucetServiceImpl) Sync(ctx context.Context) error {
	return s.wallet.Sync(ctx)
}

// mapValidationError translates full-node sentinels into client-facing errors.
func mapValidationError(address string, err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrAddressRejected):
		return apperror.ErrInvalidAddress(address)
	case errors.Is(err, domain.ErrWrongNetwork):
		return apperror.ErrWrongNetwork(address)
	case errors.Is(err, domain.ErrOracleRPC):
		return apperror.ErrOracleError(unwrapMessage(err))
	case errors.Is(err, domain.ErrOracleMalformed):
		return apperror.ErrMalformedResponse(err)
	case errors.Is(err, domain.ErrOracleUnreachable):
		return apperror.ErrOracleUnreachable(err)
	}
	return apperror.InternalError(err)
}

// unwrapMessage drops the sentinel prefix so the node's own message is shown.
func unwrapMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrOracleRPC.Error()+": ")
}
