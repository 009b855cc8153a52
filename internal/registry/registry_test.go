package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stablepay/internal/config"
	"stablepay/internal/domain/entity"
)

func testConfig() *config.Config {
	return &config.Config{
		Chains: []config.ChainConfig{
			{
				ChainID: 137, Name: "Polygon", NativeSymbol: "POL", NativeDecimals: 18,
				RPCURL: "http://localhost:8546",
			},
			{
				ChainID: 1, Name: "Ethereum", NativeSymbol: "ETH", NativeDecimals: 18,
				RPCURL: "http://localhost:8545",
				Tokens: []entity.TokenInfo{
					{ChainID: 1, Address: "0xA0b8", Symbol: "USDC", Decimals: 6},
				},
			},
		},
	}
}

func TestChainLookup(t *testing.T) {
	reg := FromConfig(testConfig())

	desc, ok := reg.Chain(1)
	require.True(t, ok)
	assert.Equal(t, "Ethereum", desc.Name)
	assert.Equal(t, "ETH", desc.NativeSymbol)

	_, ok = reg.Chain(999)
	assert.False(t, ok)
}

func TestTokensLookup(t *testing.T) {
	reg := FromConfig(testConfig())

	require.Len(t, reg.Tokens(1), 1)
	assert.Equal(t, "USDC", reg.Tokens(1)[0].Symbol)
	assert.Empty(t, reg.Tokens(137))
	assert.Empty(t, reg.Tokens(999))
}

func TestChainIDsSortedAndCopied(t *testing.T) {
	reg := FromConfig(testConfig())

	ids := reg.ChainIDs()
	assert.Equal(t, []uint64{1, 137}, ids)

	ids[0] = 42
	assert.Equal(t, []uint64{1, 137}, reg.ChainIDs(), "callers must not mutate the registry")
}
