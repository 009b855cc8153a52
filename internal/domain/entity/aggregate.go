package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregateResult is the unified multi-chain balance view for one wallet.
// TotalUsdValue is the exact sum of the record USD values.
type AggregateResult struct {
	Address       string          `json:"address"`
	ChainIDs      []uint64        `json:"chainIds"`
	Balances      []BalanceRecord `json:"balances"`
	TotalUsdValue decimal.Decimal `json:"totalUsdValue"`
	FetchedAt     time.Time       `json:"fetchedAt"`
}
