// Package port defines the interfaces wired between services and their
// collaborators, so provider-specific implementations stay interchangeable.
package port

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"

	"stablepay/internal/domain/entity"
)

// ChainClient is a read-only client against one chain's RPC endpoint.
// Implementations are stateless per call and safe for concurrent use.
type ChainClient interface {
	// NativeBalance fetches the native currency balance in smallest units.
	NativeBalance(ctx context.Context, walletAddress string) (*big.Int, error)

	// TokenBalance fetches an ERC-20 balance in smallest units.
	TokenBalance(ctx context.Context, tokenAddress, walletAddress string) (*big.Int, error)

	// Descriptor returns the chain this client is connected to.
	Descriptor() entity.ChainDescriptor
}

// ChainClientProvider hands out (and caches) clients per chain ID.
type ChainClientProvider interface {
	Client(chainID uint64) (ChainClient, error)
}

// PriceSource fetches the current USD price for a provider-specific coin ID.
type PriceSource interface {
	USDPrice(ctx context.Context, providerID string) (float64, error)
}

// PriceOracle resolves a token symbol to a USD price. It never fails: on any
// provider error it degrades to a static fallback price, or zero for symbols
// without one.
type PriceOracle interface {
	GetUSDPrice(ctx context.Context, symbol string) float64
}

// ChainScanner fetches all non-zero balances for one wallet on one chain.
type ChainScanner interface {
	ScanChain(ctx context.Context, chainID uint64, walletAddress string) ([]entity.BalanceRecord, error)
}

// BalanceAggregator produces the unified multi-chain balance view.
// A nil chainIDs slice means "all configured chains"; an explicitly empty
// slice is a caller error.
type BalanceAggregator interface {
	AggregateBalances(ctx context.Context, walletAddress string, chainIDs []uint64) (*entity.AggregateResult, error)
}

// FxRateSource resolves the USD->INR conversion rate. Like the price oracle
// it degrades to a static fallback instead of failing.
type FxRateSource interface {
	UsdToInr(ctx context.Context) decimal.Decimal
}
