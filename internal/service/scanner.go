package service

import (
	"context"
	"math/big"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stablepay/internal/app/port"
	"stablepay/internal/domain/entity"
	"stablepay/internal/pkg/decimals"
	"stablepay/internal/registry"
)

// balanceScanner implements port.ChainScanner. All reads for one chain run
// in parallel; each read that fails is logged and excluded in isolation, so
// one token's RPC failure never aborts the rest of the scan.
type balanceScanner struct {
	reg     *registry.Registry
	clients port.ChainClientProvider
	logger  *zap.Logger
}

// NewBalanceScanner creates a scanner over the chain registry and client set.
func NewBalanceScanner(reg *registry.Registry, clients port.ChainClientProvider, logger *zap.Logger) port.ChainScanner {
	return &balanceScanner{
		reg:     reg,
		clients: clients,
		logger:  logger.Named("BalanceScanner"),
	}
}

// ScanChain fetches the native balance plus every registered token balance
// for one wallet on one chain, dropping anything that formats to zero.
func (s *balanceScanner) ScanChain(ctx context.Context, chainID uint64, walletAddress string) ([]entity.BalanceRecord, error) {
	desc, ok := s.reg.Chain(chainID)
	if !ok {
		return nil, &entity.UnsupportedChainError{ChainID: chainID}
	}

	client, err := s.clients.Client(chainID)
	if err != nil {
		return nil, err
	}

	tokens := s.reg.Tokens(chainID)

	// Slot per request: index 0 native, then one per token. Goroutines write
	// only their own slot; failures leave it nil.
	slots := make([]*entity.BalanceRecord, len(tokens)+1)
	var mu sync.Mutex

	eg, scanCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		raw, err := client.NativeBalance(scanCtx, walletAddress)
		if err != nil {
			s.logger.Warn("Native balance read failed, excluding from scan",
				zap.Uint64("chainID", chainID),
				zap.String("address", walletAddress),
				zap.Error(err))
			return nil
		}
		rec := s.buildRecord(desc, entity.TokenInfo{
			ChainID:  chainID,
			Address:  entity.ZeroAddress,
			Symbol:   desc.NativeSymbol,
			Name:     desc.NativeName,
			Decimals: desc.NativeDecimals,
		}, raw, true)
		if rec != nil {
			mu.Lock()
			slots[0] = rec
			mu.Unlock()
		}
		return nil
	})

	for i, token := range tokens {
		slot := i + 1
		eg.Go(func() error {
			raw, err := client.TokenBalance(scanCtx, token.Address, walletAddress)
			if err != nil {
				s.logger.Warn("Token balance read failed, excluding from scan",
					zap.Uint64("chainID", chainID),
					zap.String("token", token.Symbol),
					zap.String("address", walletAddress),
					zap.Error(err))
				return nil
			}
			rec := s.buildRecord(desc, token, raw, false)
			if rec != nil {
				mu.Lock()
				slots[slot] = rec
				mu.Unlock()
			}
			return nil
		})
	}

	// Goroutines never return an error; Wait only surfaces ctx cancellation.
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	records := make([]entity.BalanceRecord, 0, len(slots))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// buildRecord formats one raw read, or returns nil for zero balances.
func (s *balanceScanner) buildRecord(desc entity.ChainDescriptor, token entity.TokenInfo, raw *big.Int, isNative bool) *entity.BalanceRecord {
	if decimals.IsZero(raw) {
		return nil
	}
	return &entity.BalanceRecord{
		ChainID:      desc.ChainID,
		ChainName:    desc.Name,
		TokenAddress: token.Address,
		Symbol:       token.Symbol,
		Name:         token.Name,
		Decimals:     token.Decimals,
		IsNative:     isNative,
		Raw:          raw,
		Formatted:    decimals.Format(raw, token.Decimals),
	}
}
