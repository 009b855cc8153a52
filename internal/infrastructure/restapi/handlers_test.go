package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stablepay/internal/client"
	"stablepay/internal/config"
	"stablepay/internal/domain/entity"
)

type fakeAggregator struct {
	result *entity.AggregateResult
	err    error

	gotAddress  string
	gotChainIDs []uint64
}

func (f *fakeAggregator) AggregateBalances(_ context.Context, address string, chainIDs []uint64) (*entity.AggregateResult, error) {
	f.gotAddress = address
	f.gotChainIDs = chainIDs
	return f.result, f.err
}

type fakeOracle struct{ prices map[string]float64 }

func (f *fakeOracle) GetUSDPrice(_ context.Context, symbol string) float64 {
	return f.prices[symbol]
}

type fakeFx struct{ rate decimal.Decimal }

func (f *fakeFx) UsdToInr(_ context.Context) decimal.Decimal { return f.rate }

func newTestRouter(agg *fakeAggregator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	swaps := client.NewSwapQuoteClient(config.SwapConfig{
		BaseURL: "http://localhost:0", RequestTimeoutMillis: 100,
	}, zap.NewNop())
	handler := NewHandler(agg,
		&fakeOracle{prices: map[string]float64{"ETH": 2000}},
		&fakeFx{rate: decimal.NewFromFloat(83.1)},
		swaps, zap.NewNop())
	return SetupRouter(handler, zap.NewNop())
}

func TestGetBalancesOK(t *testing.T) {
	agg := &fakeAggregator{result: &entity.AggregateResult{
		Address:       "0x00000000000000000000000000000000DeaDBeef",
		ChainIDs:      []uint64{1},
		TotalUsdValue: decimal.NewFromInt(4100),
		FetchedAt:     time.Now().UTC(),
	}}
	router := newTestRouter(agg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/balances?address=0x00000000000000000000000000000000DeaDBeef&chains=1,137", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0x00000000000000000000000000000000DeaDBeef", agg.gotAddress)
	assert.Equal(t, []uint64{1, 137}, agg.gotChainIDs)
}

func TestGetBalancesNoChainsParamPassesNil(t *testing.T) {
	agg := &fakeAggregator{result: &entity.AggregateResult{}}
	router := newTestRouter(agg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/balances?address=0x00000000000000000000000000000000DeaDBeef", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, agg.gotChainIDs, "absent chains param means all configured chains")
}

func TestGetBalancesMissingAddress(t *testing.T) {
	router := newTestRouter(&fakeAggregator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBalancesBadChainsParam(t *testing.T) {
	router := newTestRouter(&fakeAggregator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/balances?address=0x00000000000000000000000000000000DeaDBeef&chains=one,two", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBalancesValidationErrorsAre400(t *testing.T) {
	for _, err := range []error{entity.ErrBadAddress, entity.ErrNoChains} {
		router := newTestRouter(&fakeAggregator{err: err})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
			"/api/v1/balances?address=0x00000000000000000000000000000000DeaDBeef", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetPrice(t *testing.T) {
	router := newTestRouter(&fakeAggregator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/prices/eth", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ETH", body["symbol"])
	assert.Equal(t, 2000.0, body["usd"])
}

func TestGetInrRate(t *testing.T) {
	router := newTestRouter(&fakeAggregator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rates/inr", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "USD", body["base"])
	assert.Equal(t, "INR", body["quote"])
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeAggregator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
