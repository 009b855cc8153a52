package service

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"stablepay/internal/app/port"
	"stablepay/internal/config"
	"stablepay/internal/domain/entity"
	"stablepay/internal/registry"
)

const (
	testAddress  = "0x00000000000000000000000000000000DeaDBeef"
	usdcAddrEth  = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	usdcAddrPoly = "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"
)

func testConfig() *config.Config {
	return &config.Config{
		Chains: []config.ChainConfig{
			{
				ChainID: 1, Name: "Ethereum",
				NativeSymbol: "ETH", NativeName: "Ether", NativeDecimals: 18,
				RPCURL: "http://localhost:8545",
				Tokens: []entity.TokenInfo{
					{ChainID: 1, Address: usdcAddrEth, Symbol: "USDC", Name: "USD Coin", Decimals: 6},
				},
			},
			{
				ChainID: 137, Name: "Polygon",
				NativeSymbol: "POL", NativeName: "Polygon Ecosystem Token", NativeDecimals: 18,
				RPCURL: "http://localhost:8546",
				Tokens: []entity.TokenInfo{
					{ChainID: 137, Address: usdcAddrPoly, Symbol: "USDC", Name: "USD Coin", Decimals: 6},
				},
			},
		},
	}
}

func testRegistry() *registry.Registry {
	return registry.FromConfig(testConfig())
}

// fakeChainClient serves canned balances and counts reads.
type fakeChainClient struct {
	desc      entity.ChainDescriptor
	native    *big.Int
	nativeErr error
	tokens    map[string]*big.Int
	tokenErrs map[string]error

	mu    sync.Mutex
	calls int
}

func (f *fakeChainClient) NativeBalance(_ context.Context, _ string) (*big.Int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.nativeErr != nil {
		return nil, f.nativeErr
	}
	return f.native, nil
}

func (f *fakeChainClient) TokenBalance(_ context.Context, tokenAddress, _ string) (*big.Int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, failed := f.tokenErrs[tokenAddress]; failed {
		return nil, err
	}
	if bal, ok := f.tokens[tokenAddress]; ok {
		return bal, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChainClient) Descriptor() entity.ChainDescriptor { return f.desc }

func (f *fakeChainClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeClientProvider hands out fake clients; chains absent from the map fail
// as a dial error would.
type fakeClientProvider struct {
	clients map[uint64]*fakeChainClient
}

func (p *fakeClientProvider) Client(chainID uint64) (port.ChainClient, error) {
	if c, ok := p.clients[chainID]; ok {
		return c, nil
	}
	return nil, &entity.RPCError{ChainID: chainID, Op: "dial", Err: fmt.Errorf("connection refused")}
}

func (p *fakeClientProvider) totalCalls() int {
	total := 0
	for _, c := range p.clients {
		total += c.callCount()
	}
	return total
}

// fakePriceSource resolves provider coin IDs from a table and counts
// requests; absent IDs fail like a provider error.
type fakePriceSource struct {
	prices map[string]float64

	mu    sync.Mutex
	calls int
}

func (f *fakePriceSource) USDPrice(_ context.Context, providerID string) (float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if price, ok := f.prices[providerID]; ok {
		return price, nil
	}
	return 0, fmt.Errorf("provider has no price for %q", providerID)
}

func (f *fakePriceSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeOracle maps symbols straight to prices.
type fakeOracle struct {
	prices map[string]float64
}

func (f *fakeOracle) GetUSDPrice(_ context.Context, symbol string) float64 {
	return f.prices[symbol]
}

// fakeScanner returns canned records per chain.
type fakeScanner struct {
	records map[uint64][]entity.BalanceRecord
	errs    map[uint64]error
}

func (f *fakeScanner) ScanChain(_ context.Context, chainID uint64, _ string) ([]entity.BalanceRecord, error) {
	if err, failed := f.errs[chainID]; failed {
		return nil, err
	}
	return f.records[chainID], nil
}

func testOracleConfig() config.PriceOracleConfig {
	return config.PriceOracleConfig{
		CacheTTLMinutes: 5,
		SymbolMapping: map[string]string{
			"ETH":  "ethereum",
			"POL":  "matic-network",
			"USDC": "usd-coin",
		},
		FallbackPrices: map[string]float64{
			"USDC": 1.0,
		},
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }
