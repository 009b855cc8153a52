package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"stablepay/internal/app/port"
	"stablepay/internal/config"
)

const fxCacheKey = "usd_inr"

// fxRateClient implements port.FxRateSource against an exchangerate-api
// style endpoint ({"rates": {"INR": n}}). Withdrawals settle in INR, so the
// rate degrades to the configured fallback rather than ever failing.
type fxRateClient struct {
	client   *fasthttp.Client
	breaker  *gobreaker.CircuitBreaker
	baseURL  string
	timeout  time.Duration
	fallback decimal.Decimal
	rates    *cache.Cache
	flight   singleflight.Group
	logger   *zap.Logger
}

type fxRatesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// NewFxRateClient creates the USD->INR rate source.
func NewFxRateClient(cfg config.FxRatesConfig, logger *zap.Logger) port.FxRateSource {
	l := logger.Named("FxRateClient")
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return &fxRateClient{
		client:   &fasthttp.Client{},
		breaker:  newProviderBreaker("FxRates", l),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		timeout:  time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		fallback: decimal.NewFromFloat(cfg.FallbackInrRate),
		rates:    cache.New(ttl, 2*ttl),
		logger:   l,
	}
}

// UsdToInr returns the current USD->INR rate, cached per TTL. A failed or
// malformed provider response resolves to the static fallback rate.
func (c *fxRateClient) UsdToInr(ctx context.Context) decimal.Decimal {
	if cached, found := c.rates.Get(fxCacheKey); found {
		return cached.(decimal.Decimal)
	}

	rate, err, _ := c.flight.Do(fxCacheKey, func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		c.logger.Warn("FX rate lookup failed, using fallback rate",
			zap.String("fallback", c.fallback.String()), zap.Error(err))
		return c.fallback
	}
	return rate.(decimal.Decimal)
}

func (c *fxRateClient) fetch(ctx context.Context) (decimal.Decimal, error) {
	requestURL := c.baseURL + "/latest/USD"

	result, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := doGet(ctx, c.client, requestURL, c.timeout, nil)
		if err != nil {
			return nil, err
		}

		var payload fxRatesResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal FX response: %w", err)
		}
		inr, ok := payload.Rates["INR"]
		if !ok || inr <= 0 {
			return nil, fmt.Errorf("FX response missing a positive INR rate")
		}
		return decimal.NewFromFloat(inr), nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	rate := result.(decimal.Decimal)
	c.rates.Set(fxCacheKey, rate, cache.DefaultExpiration)
	return rate, nil
}
