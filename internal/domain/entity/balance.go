package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// BalanceRecord is one non-zero asset balance found during a scan.
// Formatted is the exact decimal rendering of Raw scaled by 10^-Decimals;
// UsdValue = Formatted * UsdUnitPrice.
type BalanceRecord struct {
	ChainID      uint64          `json:"chainId"`
	ChainName    string          `json:"chainName"`
	TokenAddress string          `json:"address"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Decimals     uint8           `json:"decimals"`
	IsNative     bool            `json:"isNative"`
	Raw          *big.Int        `json:"-"`
	Formatted    string          `json:"formattedBalance"`
	UsdUnitPrice decimal.Decimal `json:"usdUnitPrice"`
	UsdValue     decimal.Decimal `json:"usdValue"`
}
