package entity

// TokenInfo is a token registry entry: one supported ERC-20 per chain.
type TokenInfo struct {
	ChainID  uint64 `yaml:"-" json:"chainId"`
	Address  string `yaml:"address" json:"address"`
	Name     string `yaml:"name" json:"name"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	Decimals uint8  `yaml:"decimals" json:"decimals"`
}
