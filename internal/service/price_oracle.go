package service

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"stablepay/internal/app/port"
	"stablepay/internal/config"
	"stablepay/pkg/metrics"
)

// priceOracle implements port.PriceOracle. Balance display must degrade, not
// fail, so every provider problem resolves to the static fallback table (or
// zero). A failed request is not retried; the next lookup after TTL expiry
// tries again. Concurrent lookups for one symbol share a single request.
type priceOracle struct {
	source   port.PriceSource
	mapping  map[string]string
	fallback map[string]float64
	prices   *cache.Cache
	flight   singleflight.Group
	logger   *zap.Logger
}

// NewPriceOracle creates the oracle over a price source.
func NewPriceOracle(cfg config.PriceOracleConfig, source port.PriceSource, logger *zap.Logger) port.PriceOracle {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute

	mapping := make(map[string]string, len(cfg.SymbolMapping))
	for sym, id := range cfg.SymbolMapping {
		mapping[strings.ToUpper(sym)] = id
	}
	fallback := make(map[string]float64, len(cfg.FallbackPrices))
	for sym, price := range cfg.FallbackPrices {
		fallback[strings.ToUpper(sym)] = price
	}

	return &priceOracle{
		source:   source,
		mapping:  mapping,
		fallback: fallback,
		prices:   cache.New(ttl, 2*ttl),
		logger:   logger.Named("PriceOracle"),
	}
}

// GetUSDPrice resolves a token symbol to a USD price.
func (o *priceOracle) GetUSDPrice(ctx context.Context, symbol string) float64 {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return 0
	}

	if cached, found := o.prices.Get(sym); found {
		if price, ok := cached.(float64); ok {
			metrics.PriceLookups.WithLabelValues("cache_hit").Inc()
			return price
		}
	}

	providerID, mapped := o.mapping[sym]
	if !mapped {
		// Unmapped symbols skip the network entirely.
		return o.fallbackPrice(sym, "symbol not mapped to a provider id")
	}

	price, err, _ := o.flight.Do(sym, func() (interface{}, error) {
		p, err := o.source.USDPrice(ctx, providerID)
		if err != nil {
			return nil, err
		}
		o.prices.Set(sym, p, cache.DefaultExpiration)
		return p, nil
	})
	if err != nil {
		return o.fallbackPrice(sym, err.Error())
	}

	metrics.PriceLookups.WithLabelValues("fetched").Inc()
	return price.(float64)
}

func (o *priceOracle) fallbackPrice(sym, reason string) float64 {
	if price, ok := o.fallback[sym]; ok {
		o.logger.Warn("Price lookup degraded to fallback table",
			zap.String("symbol", sym), zap.String("reason", reason))
		metrics.PriceLookups.WithLabelValues("fallback").Inc()
		return price
	}
	o.logger.Warn("Price lookup degraded to zero",
		zap.String("symbol", sym), zap.String("reason", reason))
	metrics.PriceLookups.WithLabelValues("zero").Inc()
	return 0
}
