package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/pkg/apperror"
	"zeckit-faucet/pkg/logger"

	"github.com/rs/zerolog"
)

// Polling bounds. All waits are fixed-interval.
const (
	SyncMaxAttempts      = 120
	SyncInterval         = time.Second
	SettleDelay          = 3 * time.Second
	ConfirmInclusionWait = 30 * time.Second
	ConfirmObserveWait   = 5 * time.Second
)

// shieldThreshold is the minimum pool balance, in zatoshis, the shield check acts on.
const shieldThreshold = domain.ZatoshisPerZEC

// backend is a light-client backend the wallet can sync against.
type backend struct {
	container string
	uri       string
}

// Checked in order; the two are mutually exclusive in a running devnet.
var backends = []backend{
	{container: "zeckit-zaino", uri: "http://zaino:9067"},
	{container: "zeckit-lightwalletd", uri: "http://lightwalletd:9067"},
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the real-time Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// EngineFactory builds a wallet engine bound to a backend URI.
type EngineFactory func(backendURI string) ports.WalletEngine

// ShieldReport is the result of VerifyShield.
type ShieldReport struct {
	Backend string
	Synced  bool
	Before  domain.Balance
	After   *domain.Balance
	TxID    string
	Outcome domain.Outcome
	Skipped bool
	Note    string
}

// ReadinessMonitor runs the bounded polling protocols used to decide when
// the devnet is usable.
type ReadinessMonitor struct {
	orch  ports.Orchestrator
	sleep Sleeper
	log   zerolog.Logger
}

// NewReadinessMonitor creates a monitor that sleeps in real time.
func NewReadinessMonitor(orch ports.Orchestrator, log zerolog.Logger) *ReadinessMonitor {
	return &ReadinessMonitor{
		orch:  orch,
		sleep: SleepContext,
		log:   logger.Component(log, "readiness"),
	}
}

// WithSleeper replaces the wait function.
func (m *ReadinessMonitor) WithSleeper(s Sleeper) *ReadinessMonitor {
	m.sleep = s
	return m
}

// DetectBackend returns the URI of the running light-client backend. It
// makes a single pass with no retry.
func (m *ReadinessMonitor) DetectBackend(ctx context.Context) (string, error) {
	for _, b := range backends {
		running, err := m.orch.IsServiceRunning(ctx, b.container)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", b.container, err)
		}
		if running {
			m.log.Info().Str("container", b.container).Str("uri", b.uri).Msg("backend detected")
			return b.uri, nil
		}
	}
	return "", apperror.ErrNoBackendDetected()
}

// WaitForSync polls the wallet status until a balance report is available
// and no sync is running. Reaching the attempt ceiling is not an error: it
// logs and returns false. Only context cancellation is returned as an error.
func (m *ReadinessMonitor) WaitForSync(ctx context.Context, engine ports.WalletEngine) (bool, error) {
	for attempt := 1; attempt <= SyncMaxAttempts; attempt++ {
		status, err := engine.Status(ctx)
		if err == nil && domain.BalanceAvailable(status) {
			m.log.Info().Int("attempts", attempt).Msg("wallet synced")
			return true, nil
		}
		if attempt == SyncMaxAttempts {
			break
		}
		if err := m.sleep(ctx, SyncInterval); err != nil {
			return false, err
		}
	}
	m.log.Warn().Int("attempts", SyncMaxAttempts).Msg("sync wait timed out, continuing")
	return false, nil
}

// ConfirmSend waits for inclusion and observation, then compares the
// balance to the pre-send snapshot. Confirmation means the Orchard pool grew
// or the transparent pool shrank.
func (m *ReadinessMonitor) ConfirmSend(ctx context.Context, engine ports.WalletEngine, before domain.Balance) (domain.Outcome, domain.Balance, error) {
	if err := m.sleep(ctx, ConfirmInclusionWait); err != nil {
		return domain.OutcomeFailed, domain.Balance{}, err
	}
	if err := m.sleep(ctx, ConfirmObserveWait); err != nil {
		return domain.OutcomeFailed, domain.Balance{}, err
	}

	after, err := engine.Balance(ctx)
	if err != nil {
		return domain.OutcomeFailed, domain.Balance{}, fmt.Errorf("balance after send: %w", err)
	}

	if after.Orchard > before.Orchard || after.Transparent < before.Transparent {
		m.log.Info().
			Uint64("orchard_before", before.Orchard).
			Uint64("orchard_after", after.Orchard).
			Msg("send confirmed")
		return domain.OutcomeConfirmed, after, nil
	}
	m.log.Warn().Msg("sent but not yet reflected in balance")
	return domain.OutcomeNotYetConfirmed, after, nil
}

// VerifyShield checks that the wallet can move transparent funds into the
// Orchard pool, shielding when enough transparent funds are present.
func (m *ReadinessMonitor) VerifyShield(ctx context.Context, newEngine EngineFactory) (*ShieldReport, error) {
	uri, err := m.DetectBackend(ctx)
	if err != nil {
		return nil, err
	}
	report := &ShieldReport{Backend: uri}
	engine := newEngine(uri)

	synced, err := m.WaitForSync(ctx, engine)
	if err != nil {
		return nil, err
	}
	report.Synced = synced

	if err := m.sleep(ctx, SettleDelay); err != nil {
		return nil, err
	}

	before, err := engine.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("balance before shield: %w", err)
	}
	report.Before = before

	switch {
	case before.Transparent >= shieldThreshold:
		res, err := engine.Shield(ctx)
		if err != nil {
			report.Outcome = domain.ClassifyOutcome(err.Error())
			report.Note = err.Error()
			return report, nil
		}
		if res.TxID == "" {
			report.Outcome = domain.ClassifyOutcome(res.Error + " " + res.Diagnostic)
			report.Note = strings.TrimSpace(res.Error + " " + res.Diagnostic)
			return report, nil
		}
		report.TxID = res.TxID
		outcome, after, err := m.ConfirmSend(ctx, engine, before)
		if err != nil {
			return nil, err
		}
		report.Outcome = outcome
		report.After = &after
	case before.Orchard >= shieldThreshold:
		report.Outcome = domain.OutcomeConfirmed
		report.Note = "funds already shielded"
	default:
		report.Outcome = domain.OutcomeNotYetConfirmed
		report.Skipped = true
		report.Note = "insufficient balance to shield"
	}

	m.log.Info().
		Str("outcome", string(report.Outcome)).
		Str("backend", uri).
		Bool("skipped", report.Skipped).
		Msg("shield verification finished")
	return report, nil
}
