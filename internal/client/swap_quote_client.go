package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"stablepay/internal/config"
)

// SwapQuoteRequest identifies one sell->buy conversion to be quoted.
type SwapQuoteRequest struct {
	ChainID    uint64
	SellToken  string
	BuyToken   string
	SellAmount string // smallest units, decimal string
}

// SwapQuote is the subset of a 0x-style quote the product consumes.
type SwapQuote struct {
	SellToken    string `json:"sellToken"`
	BuyToken     string `json:"buyToken"`
	SellAmount   string `json:"sellAmount"`
	BuyAmount    string `json:"buyAmount"`
	Price        string `json:"price"`
	To           string `json:"to"`
	Data         string `json:"data"`
	Value        string `json:"value"`
	EstimatedGas string `json:"estimatedGas"`
}

// SwapQuoteClient is a pass-through to an external DEX-aggregator quote API.
// It formats the request and validates the response shape; there is no
// orchestration, retrying or state on this side.
type SwapQuoteClient struct {
	client  *fasthttp.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewSwapQuoteClient creates the quote client.
func NewSwapQuoteClient(cfg config.SwapConfig, logger *zap.Logger) *SwapQuoteClient {
	l := logger.Named("SwapQuoteClient")
	return &SwapQuoteClient{
		client:  &fasthttp.Client{},
		breaker: newProviderBreaker("SwapQuotes", l),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.ApiKey,
		timeout: time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		logger:  l,
	}
}

// GetQuote fetches a swap quote for the given pair and amount.
func (c *SwapQuoteClient) GetQuote(ctx context.Context, req SwapQuoteRequest) (*SwapQuote, error) {
	if req.SellToken == "" || req.BuyToken == "" || req.SellAmount == "" {
		return nil, fmt.Errorf("sellToken, buyToken and sellAmount are required")
	}
	// Amounts above uint64 are legal, so validate digits rather than parse.
	if !isDigits(req.SellAmount) {
		return nil, fmt.Errorf("sellAmount must be an integer amount in smallest units")
	}

	q := url.Values{}
	q.Set("chainId", strconv.FormatUint(req.ChainID, 10))
	q.Set("sellToken", req.SellToken)
	q.Set("buyToken", req.BuyToken)
	q.Set("sellAmount", req.SellAmount)
	requestURL := fmt.Sprintf("%s/swap/v1/quote?%s", c.baseURL, q.Encode())

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["0x-api-key"] = c.apiKey
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := doGet(ctx, c.client, requestURL, c.timeout, headers)
		if err != nil {
			return nil, err
		}

		var quote SwapQuote
		if err := json.Unmarshal(body, &quote); err != nil {
			return nil, fmt.Errorf("failed to unmarshal swap quote: %w", err)
		}
		if quote.BuyAmount == "" || quote.Price == "" {
			return nil, fmt.Errorf("swap quote response missing buyAmount or price")
		}
		return &quote, nil
	})
	if err != nil {
		c.logger.Warn("Swap quote request failed",
			zap.Uint64("chainID", req.ChainID),
			zap.String("sellToken", req.SellToken),
			zap.String("buyToken", req.BuyToken),
			zap.Error(err))
		return nil, err
	}
	return result.(*SwapQuote), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
