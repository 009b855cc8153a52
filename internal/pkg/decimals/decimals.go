// Package decimals converts smallest-unit integer amounts to exact decimal
// strings. Token decimals go up to 18 and raw amounts past 2^63, so the math
// stays in big.Int / decimal.Decimal, never binary floating point.
package decimals

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// FromRaw scales a smallest-unit amount by 10^-decimals without loss.
// FromRaw(1, 18) is exactly 0.000000000000000001.
func FromRaw(raw *big.Int, tokenDecimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(tokenDecimals))
}

// Format renders a smallest-unit amount as an exact decimal string,
// with no trailing zeros ("1.5", not "1.500000").
func Format(raw *big.Int, tokenDecimals uint8) string {
	return FromRaw(raw, tokenDecimals).String()
}

// IsZero reports whether the amount formats to exactly zero.
func IsZero(raw *big.Int) bool {
	return raw == nil || raw.Sign() == 0
}

// UsdValue multiplies an exact token amount by a float USD unit price.
// The price side is inherently approximate (provider floats); the amount
// side must not be.
func UsdValue(raw *big.Int, tokenDecimals uint8, usdUnitPrice float64) decimal.Decimal {
	if IsZero(raw) || usdUnitPrice == 0 {
		return decimal.Zero
	}
	return FromRaw(raw, tokenDecimals).Mul(decimal.NewFromFloat(usdUnitPrice))
}
