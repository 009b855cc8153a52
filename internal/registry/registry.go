// Package registry holds the static chain and token tables the scanner and
// aggregator resolve against. Built once from config at startup; all lookups
// are read-only afterwards.
package registry

import (
	"sort"

	"stablepay/internal/config"
	"stablepay/internal/domain/entity"
)

// Registry resolves chain descriptors and per-chain token registries by key.
type Registry struct {
	chains map[uint64]entity.ChainDescriptor
	tokens map[uint64][]entity.TokenInfo
	order  []uint64
}

// FromConfig builds the registry from the loaded configuration.
func FromConfig(cfg *config.Config) *Registry {
	r := &Registry{
		chains: make(map[uint64]entity.ChainDescriptor, len(cfg.Chains)),
		tokens: make(map[uint64][]entity.TokenInfo, len(cfg.Chains)),
	}
	for _, ch := range cfg.Chains {
		r.chains[ch.ChainID] = entity.ChainDescriptor{
			ChainID:        ch.ChainID,
			Name:           ch.Name,
			NativeSymbol:   ch.NativeSymbol,
			NativeName:     ch.NativeName,
			NativeDecimals: ch.NativeDecimals,
			RPCURL:         ch.RPCURL,
		}
		r.tokens[ch.ChainID] = ch.Tokens
		r.order = append(r.order, ch.ChainID)
	}
	sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
	return r
}

// Chain returns the descriptor for a chain ID.
func (r *Registry) Chain(chainID uint64) (entity.ChainDescriptor, bool) {
	d, ok := r.chains[chainID]
	return d, ok
}

// Tokens returns the registered tokens for a chain. Missing chains yield nil.
func (r *Registry) Tokens(chainID uint64) []entity.TokenInfo {
	return r.tokens[chainID]
}

// ChainIDs returns all configured chain IDs in ascending order.
func (r *Registry) ChainIDs() []uint64 {
	out := make([]uint64, len(r.order))
	copy(out, r.order)
	return out
}
