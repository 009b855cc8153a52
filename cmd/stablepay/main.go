package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stablepay/internal/client"
	"stablepay/internal/config"
	evmclient "stablepay/internal/infrastructure/network/client"
	"stablepay/internal/infrastructure/restapi"
	"stablepay/internal/pkg/logger"
	"stablepay/internal/registry"
	"stablepay/internal/service"
	"stablepay/pkg/metrics"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	logger.RedirectSlog(zapLogger)

	zapLogger.Info("Configuration loaded",
		zap.String("path", cfgPath),
		zap.Int("chainCount", len(cfg.Chains)))

	metrics.MustRegisterMetrics()

	reg := registry.FromConfig(cfg)
	clientProvider := evmclient.NewEVMClientProvider(reg, cfg.RpcClient, zapLogger)

	priceSource := client.NewCoinGeckoClient(
		cfg.PriceOracle.BaseURL,
		cfg.PriceOracle.ApiKey,
		time.Duration(cfg.PriceOracle.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	oracle := service.NewPriceOracle(cfg.PriceOracle, priceSource, zapLogger)

	scanner := service.NewBalanceScanner(reg, clientProvider, zapLogger)
	resultCache := service.NewResultCache(
		time.Duration(cfg.ResultCache.TTLSeconds)*time.Second, zapLogger)
	aggregator := service.NewBalanceAggregator(
		scanner, oracle, resultCache, reg, cfg.Aggregator.MaxConcurrentChains, zapLogger)

	fxRates := client.NewFxRateClient(cfg.FxRates, zapLogger)
	swapQuotes := client.NewSwapQuoteClient(cfg.Swap, zapLogger)

	handler := restapi.NewHandler(aggregator, oracle, fxRates, swapQuotes, zapLogger)
	router := restapi.SetupRouter(handler, zapLogger)

	registerPprof(router)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

// registerPprof exposes the pprof endpoints. Protect these in production.
func registerPprof(router *gin.Engine) {
	group := router.Group("/debug/pprof")
	{
		group.GET("/", gin.WrapF(pprof.Index))
		group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		group.GET("/profile", gin.WrapF(pprof.Profile))
		group.GET("/symbol", gin.WrapF(pprof.Symbol))
		group.GET("/trace", gin.WrapF(pprof.Trace))
		group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}
}
