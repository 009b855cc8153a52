package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"stablepay/internal/domain/entity"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Chains      []ChainConfig     `yaml:"chains"`
	RpcClient   RpcClientConfig   `yaml:"rpcClient"`
	PriceOracle PriceOracleConfig `yaml:"priceOracle"`
	FxRates     FxRatesConfig     `yaml:"fxRates"`
	Swap        SwapConfig        `yaml:"swap"`
	ResultCache ResultCacheConfig `yaml:"resultCache"`
	Aggregator  AggregatorConfig  `yaml:"aggregator"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// ChainConfig describes one supported network and its token registry.
type ChainConfig struct {
	ChainID        uint64             `yaml:"chainID"`
	Name           string             `yaml:"name"`
	NativeSymbol   string             `yaml:"nativeSymbol"`
	NativeName     string             `yaml:"nativeName"`
	NativeDecimals uint8              `yaml:"nativeDecimals"`
	RPCURL         string             `yaml:"rpcUrl"`
	Tokens         []entity.TokenInfo `yaml:"tokens"`
}

// RpcClientConfig holds configuration shared by the per-chain RPC clients.
type RpcClientConfig struct {
	ConnectTimeoutMs int64 `yaml:"connectTimeoutMs"`
	CallTimeoutMs    int64 `yaml:"callTimeoutMs"`
	RateLimit        int   `yaml:"rateLimit"`
	BurstLimit       int   `yaml:"burstLimit"`
}

// PriceOracleConfig holds the price provider configuration.
type PriceOracleConfig struct {
	BaseURL              string             `yaml:"baseURL"`
	ApiKey               string             `yaml:"apiKey"`
	RequestTimeoutMillis int64              `yaml:"requestTimeoutMillis"`
	CacheTTLMinutes      int                `yaml:"cacheTTLMinutes"`
	SymbolMapping        map[string]string  `yaml:"symbolMapping"`  // symbol -> provider coin id
	FallbackPrices       map[string]float64 `yaml:"fallbackPrices"` // symbol -> static USD price
}

// FxRatesConfig holds the USD->INR rate provider configuration.
type FxRatesConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	CacheTTLMinutes      int     `yaml:"cacheTTLMinutes"`
	FallbackInrRate      float64 `yaml:"fallbackInrRate"`
}

// SwapConfig holds the swap-quote aggregator API configuration.
type SwapConfig struct {
	BaseURL              string `yaml:"baseURL"`
	ApiKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// ResultCacheConfig controls aggregate-result memoization.
type ResultCacheConfig struct {
	TTLSeconds int `yaml:"ttlSeconds"`
}

// AggregatorConfig holds tuning knobs for the balance aggregator.
type AggregatorConfig struct {
	MaxConcurrentChains int `yaml:"maxConcurrentChains"`
}

// Load reads the YAML configuration file from the given path, unmarshals it
// and applies defaults for anything not set.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	cfg.applyDefaults()

	if len(cfg.Chains) == 0 {
		return nil, fmt.Errorf("config %s declares no chains", path)
	}
	seen := make(map[uint64]struct{}, len(cfg.Chains))
	for i := range cfg.Chains {
		ch := &cfg.Chains[i]
		if ch.RPCURL == "" {
			return nil, fmt.Errorf("chain %d (%s) has no rpcUrl", ch.ChainID, ch.Name)
		}
		if _, dup := seen[ch.ChainID]; dup {
			return nil, fmt.Errorf("chain %d is configured twice", ch.ChainID)
		}
		seen[ch.ChainID] = struct{}{}
		if ch.NativeDecimals == 0 {
			ch.NativeDecimals = 18
		}
		// Registry entries carry their chain ID even though the YAML nests
		// them under the chain.
		for j := range ch.Tokens {
			ch.Tokens[j].ChainID = ch.ChainID
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.RpcClient.ConnectTimeoutMs == 0 {
		cfg.RpcClient.ConnectTimeoutMs = 10000
	}
	if cfg.RpcClient.CallTimeoutMs == 0 {
		cfg.RpcClient.CallTimeoutMs = 10000
	}
	if cfg.RpcClient.RateLimit <= 0 {
		cfg.RpcClient.RateLimit = 50
	}
	if cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = 100
	}

	if cfg.PriceOracle.BaseURL == "" {
		cfg.PriceOracle.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.PriceOracle.RequestTimeoutMillis == 0 {
		cfg.PriceOracle.RequestTimeoutMillis = 10000
	}
	if cfg.PriceOracle.CacheTTLMinutes == 0 {
		cfg.PriceOracle.CacheTTLMinutes = 5
	}
	if cfg.PriceOracle.SymbolMapping == nil {
		cfg.PriceOracle.SymbolMapping = defaultSymbolMapping()
	}
	if cfg.PriceOracle.FallbackPrices == nil {
		cfg.PriceOracle.FallbackPrices = defaultFallbackPrices()
	}

	if cfg.FxRates.BaseURL == "" {
		cfg.FxRates.BaseURL = "https://api.exchangerate-api.com/v4"
	}
	if cfg.FxRates.RequestTimeoutMillis == 0 {
		cfg.FxRates.RequestTimeoutMillis = 10000
	}
	if cfg.FxRates.CacheTTLMinutes == 0 {
		cfg.FxRates.CacheTTLMinutes = 60
	}
	if cfg.FxRates.FallbackInrRate == 0 {
		cfg.FxRates.FallbackInrRate = 83.5
	}

	if cfg.Swap.BaseURL == "" {
		cfg.Swap.BaseURL = "https://api.0x.org"
	}
	if cfg.Swap.RequestTimeoutMillis == 0 {
		cfg.Swap.RequestTimeoutMillis = 15000
	}

	if cfg.ResultCache.TTLSeconds == 0 {
		// Balances go stale much faster than prices, but re-polling on every
		// UI refresh is wasted RPC traffic.
		cfg.ResultCache.TTLSeconds = 20
	}
	if cfg.Aggregator.MaxConcurrentChains <= 0 {
		cfg.Aggregator.MaxConcurrentChains = 8
	}
}

func defaultSymbolMapping() map[string]string {
	return map[string]string{
		"ETH":   "ethereum",
		"WETH":  "weth",
		"MATIC": "matic-network",
		"POL":   "matic-network",
		"BNB":   "binancecoin",
		"USDC":  "usd-coin",
		"USDT":  "tether",
		"DAI":   "dai",
		"WBTC":  "wrapped-bitcoin",
		"ARB":   "arbitrum",
		"OP":    "optimism",
		"LINK":  "chainlink",
		"UNI":   "uniswap",
		"AAVE":  "aave",
	}
}

func defaultFallbackPrices() map[string]float64 {
	return map[string]float64{
		"USDC": 1.0,
		"USDT": 1.0,
		"DAI":  1.0,
	}
}
