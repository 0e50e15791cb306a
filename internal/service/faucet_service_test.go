package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"zeckit-faucet/config"
	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/internal/core/ports/mocks"
	"zeckit-faucet/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type faucetTestDeps struct {
	svc       *FaucetServiceImpl
	wallet    *mocks.MockWalletService
	validator *mocks.MockAddressValidator
	ctrl      *gomock.Controller
}

func testBounds() config.RequestBounds {
	return config.RequestBounds{
		Min:     decimal.RequireFromString("0.01"),
		Max:     decimal.RequireFromString("100"),
		Default: decimal.RequireFromString("10"),
	}
}

func setupFaucetService(t *testing.T) *faucetTestDeps {
	ctrl := gomock.NewController(t)
	d := &faucetTestDeps{
		wallet:    mocks.NewMockWalletService(ctrl),
		validator: mocks.NewMockAddressValidator(ctrl),
		ctrl:      ctrl,
	}
	d.svc = NewFaucetService(d.wallet, d.validator, testBounds(), newTestLogger())
	return d
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ==================== Dispense ====================

func TestFaucetService_Dispense_DefaultAmount(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()
	fixed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	d.svc.now = func() time.Time { return fixed }

	d.validator.EXPECT().Validate(ctx, "tmInput").Return("tmCanonical", nil)
	d.wallet.EXPECT().Send(ctx, "tmCanonical", decimal.RequireFromString("10"), "").Return("tx1", nil)
	d.wallet.EXPECT().Balance(ctx).Return(domain.Balance{Orchard: 90 * domain.ZatoshisPerZEC}, nil)

	res, err := d.svc.Dispense(ctx, ports.DispenseRequest{Address: "tmInput"})
	require.NoError(t, err)
	assert.Equal(t, "tx1", res.TxID)
	assert.Equal(t, "tmCanonical", res.Address)
	assert.Equal(t, "10", res.Amount.String())
	assert.Equal(t, "90", res.NewBalance.String())
	assert.Equal(t, fixed, res.Timestamp)
}

func TestFaucetService_Dispense_ExplicitAmountAndMemo(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.validator.EXPECT().Validate(ctx, "tm1").Return("tm1", nil)
	d.wallet.EXPECT().Send(ctx, "tm1", decimal.RequireFromString("2.5"), "hello").Return("tx2", nil)
	d.wallet.EXPECT().Balance(ctx).Return(domain.Balance{}, nil)

	res, err := d.svc.Dispense(ctx, ports.DispenseRequest{
		Address: "tm1",
		Amount:  decimalPtr("2.5"),
		Memo:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "2.5", res.Amount.String())
}

func TestFaucetService_Dispense_AmountOutOfBounds(t *testing.T) {
	for _, amt := range []string{"0.001", "100.01", "0", "-1"} {
		t.Run(amt, func(t *testing.T) {
			d := setupFaucetService(t)
			ctx := context.Background()

			d.validator.EXPECT().Validate(ctx, "tm1").Return("tm1", nil)

			_, err := d.svc.Dispense(ctx, ports.DispenseRequest{Address: "tm1", Amount: decimalPtr(amt)})
			assertAppError(t, err, apperror.CodeInvalidAmount)
			assert.Contains(t, err.Error(), "Amount must be between 0.01 and 100 ZEC")
		})
	}
}

func TestFaucetService_Dispense_BoundsInclusive(t *testing.T) {
	for _, amt := range []string{"0.01", "100"} {
		t.Run(amt, func(t *testing.T) {
			d := setupFaucetService(t)
			ctx := context.Background()

			d.validator.EXPECT().Validate(ctx, "tm1").Return("tm1", nil)
			d.wallet.EXPECT().Send(ctx, "tm1", decimal.RequireFromString(amt), "").Return("tx", nil)
			d.wallet.EXPECT().Balance(ctx).Return(domain.Balance{}, nil)

			_, err := d.svc.Dispense(ctx, ports.DispenseRequest{Address: "tm1", Amount: decimalPtr(amt)})
			require.NoError(t, err)
		})
	}
}

func TestFaucetService_Dispense_AddressCheckedFirst(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.validator.EXPECT().Validate(ctx, "bad").Return("", fmt.Errorf("%w: bad", domain.ErrAddressRejected))

	_, err := d.svc.Dispense(ctx, ports.DispenseRequest{Address: "bad", Amount: decimalPtr("1000")})
	assertAppError(t, err, apperror.CodeInvalidAddress)
}

func TestFaucetService_Dispense_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"invalid", fmt.Errorf("%w: x", domain.ErrAddressRejected), apperror.CodeInvalidAddress},
		{"wrong network", fmt.Errorf("%w: x", domain.ErrWrongNetwork), apperror.CodeWrongNetwork},
		{"rpc error", fmt.Errorf("%w: %s", domain.ErrOracleRPC, "method not found"), apperror.CodeOracleError},
		{"malformed", fmt.Errorf("%w: no result", domain.ErrOracleMalformed), apperror.CodeMalformedResponse},
		{"unreachable", fmt.Errorf("%w: refused", domain.ErrOracleUnreachable), apperror.CodeOracleUnreachable},
		{"unknown", errors.New("boom"), apperror.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupFaucetService(t)
			ctx := context.Background()

			d.validator.EXPECT().Validate(ctx, "tm1").Return("", tt.err)

			_, err := d.svc.Dispense(ctx, ports.DispenseRequest{Address: "tm1"})
			assertAppError(t, err, tt.code)
		})
	}
}

func TestFaucetService_Dispense_OracleMessage(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.validator.EXPECT().Validate(ctx, "tm1").Return("", fmt.Errorf("%w: %s", domain.ErrOracleRPC, "method not found"))

	_, err := d.svc.Dispense(ctx, ports.DispenseRequest{Address: "tm1"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Address validation failed: method not found", appErr.Message)
}

func TestFaucetService_Dispense_SendError(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.validator.EXPECT().Validate(ctx, "tm1").Return("tm1", nil)
	d.wallet.EXPECT().Send(ctx, "tm1", gomock.Any(), "").Return("", apperror.ErrInsufficientBalance("0", "10"))

	_, err := d.svc.Dispense(ctx, ports.DispenseRequest{Address: "tm1"})
	assertAppError(t, err, apperror.CodeInsufficientBalance)
}

func TestFaucetService_Dispense_BalanceAfterSendUnavailable(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.validator.EXPECT().Validate(ctx, "tm1").Return("tm1", nil)
	d.wallet.EXPECT().Send(ctx, "tm1", gomock.Any(), "").Return("tx", nil)
	d.wallet.EXPECT().Balance(ctx).Return(domain.Balance{}, errors.New("engine busy"))

	res, err := d.svc.Dispense(ctx, ports.DispenseRequest{Address: "tm1"})
	require.NoError(t, err)
	assert.Equal(t, "tx", res.TxID)
	assert.True(t, res.NewBalance.IsZero())
}

// ==================== Queries ====================

func TestFaucetService_Stats(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	last := start.Add(time.Minute)
	d.svc.startedAt = start
	d.svc.now = func() time.Time { return start.Add(90 * time.Second) }

	bal := domain.Balance{Transparent: 1, Orchard: 2}
	d.wallet.EXPECT().UnifiedAddress(ctx).Return("uregtest1faucet", nil)
	d.wallet.EXPECT().Balance(ctx).Return(bal, nil)
	d.wallet.EXPECT().Stats().Return(ports.WalletStats{Count: 4, TotalSent: decimal.NewFromInt(40), Last: &last})

	stats, err := d.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "uregtest1faucet", stats.Address)
	assert.Equal(t, bal, stats.Balance)
	assert.Equal(t, 4, stats.TotalRequests)
	assert.Equal(t, "40", stats.TotalSent.String())
	require.NotNil(t, stats.LastRequest)
	assert.True(t, stats.LastRequest.Equal(last))
	assert.Equal(t, 90*time.Second, stats.Uptime)
}

func TestFaucetService_Stats_NoHistory(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.wallet.EXPECT().UnifiedAddress(ctx).Return("u", nil)
	d.wallet.EXPECT().Balance(ctx).Return(domain.Balance{}, nil)
	d.wallet.EXPECT().Stats().Return(ports.WalletStats{TotalSent: decimal.Zero})

	stats, err := d.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Nil(t, stats.LastRequest)
	assert.Equal(t, 0, stats.TotalRequests)
}

func TestFaucetService_Stats_WalletError(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.wallet.EXPECT().UnifiedAddress(ctx).Return("", apperror.ErrWalletUnavailable(errors.New("x")))

	_, err := d.svc.Stats(ctx)
	assertAppError(t, err, apperror.CodeWalletUnavailable)
}

func TestFaucetService_Health(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.wallet.EXPECT().Balance(ctx).Return(domain.Balance{Transparent: 50_000_000, Orchard: 100_000_000}, nil)

	info, err := d.svc.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.5", info.Balance.String())
}

func TestFaucetService_AddressAndHistory(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.wallet.EXPECT().UnifiedAddress(ctx).Return("uregtest1faucet", nil)
	d.wallet.EXPECT().Balance(ctx).Return(domain.Balance{Orchard: 3}, nil)

	addr, bal, err := d.svc.Address(ctx)
	require.NoError(t, err)
	assert.Equal(t, "uregtest1faucet", addr)
	assert.Equal(t, uint64(3), bal.Total())

	records := []domain.TransactionRecord{{TxID: "b"}, {TxID: "a"}}
	d.wallet.EXPECT().Recent(2).Return(records)
	assert.Equal(t, records, d.svc.History(2))
}

func TestFaucetService_Sync(t *testing.T) {
	d := setupFaucetService(t)
	ctx := context.Background()

	d.wallet.EXPECT().Sync(ctx).Return(nil)
	assert.NoError(t, d.svc.Sync(ctx))
}
