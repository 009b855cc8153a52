package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stablepay/internal/app/port"
	"stablepay/internal/domain/entity"
	"stablepay/internal/pkg/decimals"
	"stablepay/internal/registry"
	"stablepay/pkg/metrics"
)

// balanceAggregator implements port.BalanceAggregator: fan out the scanner
// across chains, enrich every record with a USD price, sort and total. The
// only errors it returns are caller-input validation; a chain that is down
// simply contributes nothing.
type balanceAggregator struct {
	scanner       port.ChainScanner
	oracle        port.PriceOracle
	cache         *ResultCache
	reg           *registry.Registry
	maxConcurrent int
	logger        *zap.Logger
}

// NewBalanceAggregator creates the aggregator.
func NewBalanceAggregator(
	scanner port.ChainScanner,
	oracle port.PriceOracle,
	cache *ResultCache,
	reg *registry.Registry,
	maxConcurrentChains int,
	logger *zap.Logger,
) port.BalanceAggregator {
	return &balanceAggregator{
		scanner:       scanner,
		oracle:        oracle,
		cache:         cache,
		reg:           reg,
		maxConcurrent: maxConcurrentChains,
		logger:        logger.Named("BalanceAggregator"),
	}
}

// AggregateBalances produces the unified balance view for one wallet.
// A nil chainIDs slice means all configured chains.
func (a *balanceAggregator) AggregateBalances(ctx context.Context, walletAddress string, chainIDs []uint64) (*entity.AggregateResult, error) {
	if !common.IsHexAddress(walletAddress) {
		return nil, entity.ErrBadAddress
	}
	if chainIDs == nil {
		chainIDs = a.reg.ChainIDs()
	}
	chainIDs = dedupeSorted(chainIDs)
	if len(chainIDs) == 0 {
		return nil, entity.ErrNoChains
	}

	key := cacheKey(walletAddress, chainIDs)
	if cached, found := a.cache.Get(key); found {
		return cached, nil
	}

	start := time.Now()
	gen := a.cache.BeginFetch(key)

	var mu sync.Mutex
	var records []entity.BalanceRecord

	eg, scanCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.maxConcurrent)
	for _, chainID := range chainIDs {
		eg.Go(func() error {
			chainRecords, err := a.scanner.ScanChain(scanCtx, chainID, walletAddress)
			if err != nil {
				// Chain skipped; the rest of the aggregation proceeds.
				a.logger.Warn("Chain scan failed, returning partial results",
					zap.Uint64("chainID", chainID),
					zap.String("address", walletAddress),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			records = append(records, chainRecords...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	a.enrich(ctx, records)

	sort.Slice(records, func(i, j int) bool {
		if cmp := records[i].UsdValue.Cmp(records[j].UsdValue); cmp != 0 {
			return cmp > 0
		}
		return records[i].Symbol < records[j].Symbol
	})

	total := decimal.Zero
	for i := range records {
		total = total.Add(records[i].UsdValue)
	}

	result := &entity.AggregateResult{
		Address:       walletAddress,
		ChainIDs:      chainIDs,
		Balances:      records,
		TotalUsdValue: total,
		FetchedAt:     time.Now().UTC(),
	}

	if !a.cache.CompleteFetch(key, gen, result) {
		a.logger.Debug("Aggregation superseded by a newer fetch, not cached",
			zap.String("key", key))
	}
	metrics.AggregationDuration.Observe(time.Since(start).Seconds())

	a.logger.Info("Aggregation complete",
		zap.String("address", walletAddress),
		zap.Int("chainCount", len(chainIDs)),
		zap.Int("balanceCount", len(records)),
		zap.String("totalUsd", total.String()),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// enrich resolves one price per distinct symbol and applies it.
func (a *balanceAggregator) enrich(ctx context.Context, records []entity.BalanceRecord) {
	prices := make(map[string]float64)
	for i := range records {
		sym := strings.ToUpper(records[i].Symbol)
		price, seen := prices[sym]
		if !seen {
			price = a.oracle.GetUSDPrice(ctx, sym)
			prices[sym] = price
		}
		records[i].UsdUnitPrice = decimal.NewFromFloat(price)
		records[i].UsdValue = decimals.UsdValue(records[i].Raw, records[i].Decimals, price)
	}
}

func cacheKey(walletAddress string, sortedChainIDs []uint64) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(walletAddress))
	for _, id := range sortedChainIDs {
		fmt.Fprintf(&sb, "|%d", id)
	}
	return sb.String()
}

func dedupeSorted(chainIDs []uint64) []uint64 {
	out := make([]uint64, 0, len(chainIDs))
	seen := make(map[uint64]struct{}, len(chainIDs))
	for _, id := range chainIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
