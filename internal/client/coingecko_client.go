package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"stablepay/internal/app/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// coinGeckoClient implements port.PriceSource against the CoinGecko simple
// price endpoint. Responses are untrusted: anything that does not decode to
// a positive price is reported as an error and the oracle falls back.
type coinGeckoClient struct {
	client  *fasthttp.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// simplePriceResponse is the {"<coin-id>": {"usd": <n>}} payload shape.
type simplePriceResponse map[string]struct {
	Usd float64 `json:"usd"`
}

// NewCoinGeckoClient creates a price source over the given base URL.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) port.PriceSource {
	l := logger.Named("CoinGeckoClient")
	return &coinGeckoClient{
		client:  &fasthttp.Client{},
		breaker: newProviderBreaker("CoinGecko", l),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  l,
	}
}

// USDPrice fetches the current USD price for one provider coin ID.
func (c *coinGeckoClient) USDPrice(ctx context.Context, providerID string) (float64, error) {
	if providerID == "" {
		return 0, fmt.Errorf("providerID cannot be empty")
	}

	requestURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(providerID))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := doGet(ctx, c.client, requestURL, c.timeout, c.headers())
		if err != nil {
			return nil, err
		}

		var payload simplePriceResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal price response: %w", err)
		}
		entry, ok := payload[providerID]
		if !ok {
			return nil, fmt.Errorf("price response missing coin id %q", providerID)
		}
		if entry.Usd <= 0 {
			return nil, fmt.Errorf("price response has non-positive usd price for %q", providerID)
		}
		return entry.Usd, nil
	})
	if err != nil {
		c.logger.Warn("Price request failed",
			zap.String("providerID", providerID), zap.Error(err))
		return 0, err
	}
	return result.(float64), nil
}

func (c *coinGeckoClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"x-cg-demo-api-key": c.apiKey}
}
