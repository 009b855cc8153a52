package restapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stablepay/internal/app/port"
	"stablepay/internal/client"
	"stablepay/internal/domain/entity"
)

// Handler serves the balance, price, FX and swap-quote endpoints.
type Handler struct {
	aggregator port.BalanceAggregator
	oracle     port.PriceOracle
	fx         port.FxRateSource
	swaps      *client.SwapQuoteClient
	logger     *zap.Logger
}

// NewHandler creates the API handler set.
func NewHandler(
	aggregator port.BalanceAggregator,
	oracle port.PriceOracle,
	fx port.FxRateSource,
	swaps *client.SwapQuoteClient,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		aggregator: aggregator,
		oracle:     oracle,
		fx:         fx,
		swaps:      swaps,
		logger:     logger.Named("Handler"),
	}
}

// GetBalances handles GET /api/v1/balances?address=0x…&chains=1,137.
// Partial data (some chains or tokens missing) is still a 200; only
// malformed caller input produces an error status.
func (h *Handler) GetBalances(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address query parameter is required"})
		return
	}

	var chainIDs []uint64
	if raw, present := c.GetQuery("chains"); present {
		chainIDs = make([]uint64, 0)
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "chains must be a comma-separated list of chain IDs"})
				return
			}
			chainIDs = append(chainIDs, id)
		}
	}

	result, err := h.aggregator.AggregateBalances(c.Request.Context(), address, chainIDs)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrBadAddress), errors.Is(err, entity.ErrNoChains):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			// Context cancellation is the only other path out.
			h.logger.Error("Aggregation failed", zap.String("address", address), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "aggregation did not complete"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPrice handles GET /api/v1/prices/:symbol. Never fails; unknown symbols
// resolve to zero.
func (h *Handler) GetPrice(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	price := h.oracle.GetUSDPrice(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "usd": price})
}

// GetInrRate handles GET /api/v1/rates/inr.
func (h *Handler) GetInrRate(c *gin.Context) {
	rate := h.fx.UsdToInr(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"base": "USD", "quote": "INR", "rate": rate})
}

// GetSwapQuote handles GET /api/v1/swap/quote. Pure pass-through to the
// external aggregator API.
func (h *Handler) GetSwapQuote(c *gin.Context) {
	chainID, err := strconv.ParseUint(c.DefaultQuery("chainId", "1"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chainId must be numeric"})
		return
	}

	quote, err := h.swaps.GetQuote(c.Request.Context(), client.SwapQuoteRequest{
		ChainID:    chainID,
		SellToken:  c.Query("sellToken"),
		BuyToken:   c.Query("buyToken"),
		SellAmount: c.Query("sellAmount"),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}
