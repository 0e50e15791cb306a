package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/pkg/apperror"
	"zeckit-faucet/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var errWalletNotReady = errors.New("wallet is not ready")

// WalletServiceImpl implements ports.WalletService. It is the single owner of
// the wallet engine: sends and syncs hold the write lock, queries share the
// read lock.
type WalletServiceImpl struct {
	mu     sync.RWMutex
	status atomic.Value // domain.WalletStatus

	engine ports.WalletEngine
	ledger ports.LedgerStore
	log    zerolog.Logger
}

// NewWalletService creates a WalletServiceImpl in the Uninitialized state.
func NewWalletService(engine ports.WalletEngine, ledger ports.LedgerStore, log zerolog.Logger) *WalletServiceImpl {
	s := &WalletServiceImpl{
		engine: engine,
		ledger: ledger,
		log:    logger.Component(log, "wallet"),
	}
	s.status.Store(domain.WalletUninitialized)
	return s
}

// Status returns the current lifecycle state.
func (s *WalletServiceImpl) Status() domain.WalletStatus {
	return s.status.Load().(domain.WalletStatus)
}

func (s *WalletServiceImpl) setStatus(st domain.WalletStatus) {
	s.status.Store(st)
}

// Open opens or creates the wallet and runs the initial full sync.
func (s *WalletServiceImpl) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setStatus(domain.WalletInitializing)

	created, err := s.engine.Open(ctx)
	if err != nil {
		s.setStatus(domain.WalletUninitialized)
		return apperror.ErrWalletUnavailable(fmt.Errorf("open wallet: %w", err))
	}
	if created {
		s.log.Info().Msg("created new wallet")
	} else {
		s.log.Info().Msg("loaded existing wallet")
	}

	if err := s.engine.Sync(ctx); err != nil {
		s.setStatus(domain.WalletUninitialized)
		return apperror.ErrWalletUnavailable(fmt.Errorf("initial sync: %w", err))
	}

	s.setStatus(domain.WalletReady)
	s.log.Info().Int("history_records", s.ledger.Len()).Msg("wallet ready")
	return nil
}

// Send builds and broadcasts a transaction from the Orchard pool and records
// it in the ledger. The broadcast and the ledger write are not atomic: when
// the write fails the txid is still returned alongside HistoryWriteFailed.
// Cancelling ctx does not interrupt a send once it has started.
func (s *WalletServiceImpl) Send(ctx context.Context, to string, amount decimal.Decimal, memo string) (string, error) {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Status().CanServe() {
		return "", apperror.ErrWalletUnavailable(errWalletNotReady)
	}
	s.setStatus(domain.WalletSending)
	defer s.setStatus(domain.WalletReady)

	zats := domain.ZatoshisFromZEC(amount)
	if zats == 0 {
		return "", apperror.ErrInvalidAmount("Amount must be at least 0.00000001 ZEC")
	}

	bal, err := s.engine.Balance(ctx)
	if err != nil {
		return "", apperror.ErrWalletUnavailable(fmt.Errorf("balance before send: %w", err))
	}
	if bal.Orchard < zats {
		s.log.Warn().
			Uint64("orchard", bal.Orchard).
			Uint64("requested", zats).
			Msg("insufficient orchard balance")
		return "", apperror.ErrInsufficientBalance(bal.OrchardZEC().String(), amount.String())
	}

	res, err := s.engine.Send(ctx, to, zats, memo)
	if err != nil {
		return "", apperror.ErrTransactionFailed(err)
	}
	if res.Error != "" {
		return "", apperror.ErrTransactionFailed(errors.New(res.Error))
	}
	if res.TxID == "" {
		return "", apperror.ErrTransactionFailed(errors.New("no txid in send result"))
	}

	record := domain.NewTransactionRecord(to, amount, res.TxID, memo)
	if err := s.ledger.Append(record); err != nil {
		s.log.Error().Err(err).
			Str("txid", res.TxID).
			Str("to", logger.Truncate(to, 12)).
			Msg("transaction broadcast but not recorded")
		return res.TxID, apperror.ErrHistoryWriteFailed(res.TxID, err)
	}

	s.log.Info().
		Str("txid", res.TxID).
		Str("amount", amount.String()).
		Str("to", logger.Truncate(to, 12)).
		Msg("sent")
	return res.TxID, nil
}

// Balance queries the live per-pool balance.
func (s *WalletServiceImpl) Balance(ctx context.Context) (domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.Status().CanServe() {
		return domain.Balance{}, apperror.ErrWalletUnavailable(errWalletNotReady)
	}
	bal, err := s.engine.Balance(ctx)
	if err != nil {
		return domain.Balance{}, apperror.ErrWalletUnavailable(err)
	}
	return bal, nil
}

// UnifiedAddress returns the wallet's receiving address.
func (s *WalletServiceImpl) UnifiedAddress(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.Status().CanServe() {
		return "", apperror.ErrWalletUnavailable(errWalletNotReady)
	}
	addr, err := s.engine.UnifiedAddress(ctx)
	if err != nil {
		return "", apperror.ErrWalletUnavailable(err)
	}
	return addr, nil
}

// Stats aggregates the ledger on every call.
func (s *WalletServiceImpl) Stats() ports.WalletStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.ledger.All()
	stats := ports.WalletStats{Count: len(records), TotalSent: decimal.Zero}
	for _, r := range records {
		stats.TotalSent = stats.TotalSent.Add(r.Amount)
	}
	if n := len(records); n > 0 {
		last := records[n-1].Timestamp
		stats.Last = &last
	}
	return stats
}

// Recent returns up to limit records, newest first.
func (s *WalletServiceImpl) Recent(limit int) []domain.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Recent(limit)
}

// Sync runs a full wallet sync under exclusive access. Like Send, it runs
// to completion once started.
func (s *WalletServiceImpl) Sync(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Status().CanServe() {
		return apperror.ErrWalletUnavailable(errWalletNotReady)
	}
	if err := s.engine.Sync(ctx); err != nil {
		return apperror.ErrWalletUnavailable(fmt.Errorf("sync: %w", err))
	}
	s.log.Info().Msg("wallet synced")
	return nil
}

// Close waits for any in-flight operation and moves to Closed.
func (s *WalletServiceImpl) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatus(domain.WalletClosed)
	s.log.Info().Msg("wallet closed")
	return nil
}
