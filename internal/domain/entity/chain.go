package entity

// ZeroAddress is used as the token address of a chain's native asset.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// ChainDescriptor holds the static configuration of a supported EVM network.
// Loaded once at startup, never mutated afterwards.
type ChainDescriptor struct {
	ChainID        uint64 `yaml:"chainID" json:"chainId"`
	Name           string `yaml:"name" json:"name"`
	NativeSymbol   string `yaml:"nativeSymbol" json:"nativeSymbol"`
	NativeName     string `yaml:"nativeName" json:"nativeName"`
	NativeDecimals uint8  `yaml:"nativeDecimals" json:"nativeDecimals"`
	RPCURL         string `yaml:"rpcUrl" json:"-"`
}
