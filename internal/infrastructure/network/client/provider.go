package client

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stablepay/internal/app/port"
	"stablepay/internal/config"
	"stablepay/internal/domain/entity"
	"stablepay/internal/registry"
)

// evmClientProvider implements port.ChainClientProvider. Clients are dialed
// lazily and cached per chain so repeated scans reuse connections.
type evmClientProvider struct {
	reg            *registry.Registry
	clients        map[uint64]port.ChainClient
	mu             sync.Mutex
	connectTimeout time.Duration
	callTimeout    time.Duration
	rateLimit      rate.Limit
	burst          int
	logger         *zap.Logger
}

// NewEVMClientProvider creates a provider over the configured chain registry.
func NewEVMClientProvider(reg *registry.Registry, cfg config.RpcClientConfig, logger *zap.Logger) port.ChainClientProvider {
	return &evmClientProvider{
		reg:            reg,
		clients:        make(map[uint64]port.ChainClient),
		connectTimeout: time.Duration(cfg.ConnectTimeoutMs) * time.Millisecond,
		callTimeout:    time.Duration(cfg.CallTimeoutMs) * time.Millisecond,
		rateLimit:      rate.Limit(cfg.RateLimit),
		burst:          cfg.BurstLimit,
		logger:         logger.Named("EVMClientProvider"),
	}
}

// Client returns the cached client for a chain, dialing on first use.
func (p *evmClientProvider) Client(chainID uint64) (port.ChainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[chainID]; ok {
		return c, nil
	}

	desc, ok := p.reg.Chain(chainID)
	if !ok {
		return nil, &entity.UnsupportedChainError{ChainID: chainID}
	}

	p.logger.Info("Dialing chain RPC endpoint",
		zap.Uint64("chainID", chainID),
		zap.String("chain", desc.Name))

	limiter := rate.NewLimiter(p.rateLimit, p.burst)
	c, err := NewEVMClient(desc, p.connectTimeout, p.callTimeout, limiter, p.logger)
	if err != nil {
		p.logger.Error("Failed to create EVM client",
			zap.Uint64("chainID", chainID), zap.Error(err))
		return nil, err
	}

	p.clients[chainID] = c
	return c, nil
}
