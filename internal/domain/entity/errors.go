package entity

import (
	"errors"
	"fmt"
)

// The aggregator only ever fails on caller input; everything downstream
// (RPC outages, price provider errors) degrades to partial data instead.
var (
	ErrNoChains   = errors.New("no chains requested")
	ErrBadAddress = errors.New("malformed wallet address")
)

// UnsupportedChainError marks a chain ID absent from the static registry.
// The aggregator treats it as "chain skipped", never as a fatal error.
type UnsupportedChainError struct {
	ChainID uint64
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("chain %d is not configured", e.ChainID)
}

// RPCError wraps a single failed balance read against a chain endpoint.
// One failed read is excluded from the scan result, never aborting it.
type RPCError struct {
	ChainID uint64
	Op      string
	Err     error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s on chain %d: %v", e.Op, e.ChainID, e.Err)
}

func (e *RPCError) Unwrap() error { return e.Err }
