package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ZatoshisPerZEC is the fixed scale between the smallest unit and one ZEC.
const ZatoshisPerZEC = 100_000_000

const zecExponent = 8

// Balance holds per-pool amounts in zatoshis.
type Balance struct {
	Transparent uint64 `json:"transparent"`
	Sapling     uint64 `json:"sapling"`
	Orchard     uint64 `json:"orchard"`
}

// Total returns the sum across all pools.
func (b Balance) Total() uint64 {
	return b.Transparent + b.Sapling + b.Orchard
}

func (b Balance) TotalZEC() decimal.Decimal       { return ZECFromZatoshis(b.Total()) }
func (b Balance) TransparentZEC() decimal.Decimal { return ZECFromZatoshis(b.Transparent) }
func (b Balance) SaplingZEC() decimal.Decimal     { return ZECFromZatoshis(b.Sapling) }
func (b Balance) OrchardZEC() decimal.Decimal     { return ZECFromZatoshis(b.Orchard) }

// ZECFromZatoshis converts an integer zatoshi amount into ZEC exactly.
func ZECFromZatoshis(z uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(z), -zecExponent)
}

// ZatoshisFromZEC converts a ZEC amount to zatoshis, truncating toward zero.
// Negative amounts yield zero.
func ZatoshisFromZEC(amount decimal.Decimal) uint64 {
	if !amount.IsPositive() {
		return 0
	}
	return amount.Shift(zecExponent).Truncate(0).BigInt().Uint64()
}
