package decimals

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSmallestUnit(t *testing.T) {
	assert.Equal(t, "0.000000000000000001", Format(big.NewInt(1), 18))
}

func TestFormatNoTrailingZeros(t *testing.T) {
	raw, ok := new(big.Int).SetString("1234500000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1.2345", Format(raw, 18))
}

func TestFormatZeroDecimals(t *testing.T) {
	assert.Equal(t, "42", Format(big.NewInt(42), 0))
}

func TestFormatNil(t *testing.T) {
	assert.Equal(t, "0", Format(nil, 18))
}

func TestFormatRoundTrip(t *testing.T) {
	cases := []struct {
		raw      string
		decimals uint8
	}{
		{"1", 18},
		{"1000000", 6},
		{"123456789012345678901234567890", 18},
		{"999999999999999999", 18},
		{"1", 0},
		{"500000000", 8},
	}
	for _, tc := range cases {
		raw, ok := new(big.Int).SetString(tc.raw, 10)
		require.True(t, ok)

		formatted := Format(raw, tc.decimals)
		parsed, err := decimal.NewFromString(formatted)
		require.NoError(t, err, "formatted value %q must parse back", formatted)

		rescaled := parsed.Shift(int32(tc.decimals))
		assert.True(t, rescaled.IsInteger(), "rescaling %q by 10^%d must be integral", formatted, tc.decimals)
		assert.Equal(t, tc.raw, rescaled.String(),
			"raw=%s decimals=%d must survive a format round trip", tc.raw, tc.decimals)
	}
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(nil))
	assert.True(t, IsZero(big.NewInt(0)))
	assert.False(t, IsZero(big.NewInt(1)))
}

func TestUsdValue(t *testing.T) {
	// 2 ETH at $2000.
	twoEth, ok := new(big.Int).SetString("2000000000000000000", 10)
	require.True(t, ok)
	assert.True(t, UsdValue(twoEth, 18, 2000).Equal(decimal.NewFromInt(4000)))

	// 100 USDC at $1.
	assert.True(t, UsdValue(big.NewInt(100_000_000), 6, 1).Equal(decimal.NewFromInt(100)))

	// Zero price yields zero value.
	assert.True(t, UsdValue(twoEth, 18, 0).IsZero())
}
