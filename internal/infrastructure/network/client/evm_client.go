package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stablepay/internal/app/port"
	"stablepay/internal/domain/entity"
	"stablepay/pkg/metrics"
)

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
}

// EVMClient implements port.ChainClient for EVM-compatible chains.
type EVMClient struct {
	ethClient   *ethclient.Client
	desc        entity.ChainDescriptor
	callTimeout time.Duration
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewEVMClient dials the chain's configured endpoint and returns a client.
// The limiter is shared by every read issued through this client.
func NewEVMClient(
	desc entity.ChainDescriptor,
	connectTimeout, callTimeout time.Duration,
	limiter *rate.Limiter,
	logger *zap.Logger,
) (port.ChainClient, error) {
	initParsedERC20ABI()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	ethClient, err := ethclient.DialContext(ctx, desc.RPCURL)
	if err != nil {
		return nil, &entity.RPCError{ChainID: desc.ChainID, Op: "dial", Err: err}
	}

	return &EVMClient{
		ethClient:   ethClient,
		desc:        desc,
		callTimeout: callTimeout,
		limiter:     limiter,
		logger:      logger.Named("EVMClient").With(zap.Uint64("chainID", desc.ChainID)),
	}, nil
}

// NativeBalance fetches the native currency balance via eth_getBalance.
func (c *EVMClient) NativeBalance(ctx context.Context, walletAddress string) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &entity.RPCError{ChainID: c.desc.ChainID, Op: "eth_getBalance", Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	start := time.Now()
	balance, err := c.ethClient.BalanceAt(callCtx, common.HexToAddress(walletAddress), nil)
	metrics.ObserveRPCCall(c.desc.ChainID, "eth_getBalance", time.Since(start), err)
	if err != nil {
		return nil, &entity.RPCError{ChainID: c.desc.ChainID, Op: "eth_getBalance", Err: err}
	}
	return balance, nil
}

// TokenBalance fetches an ERC-20 balance via a balanceOf eth_call.
func (c *EVMClient) TokenBalance(ctx context.Context, tokenAddress, walletAddress string) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &entity.RPCError{ChainID: c.desc.ChainID, Op: "balanceOf", Err: err}
	}

	callData, err := parsedERC20ABI.Pack("balanceOf", common.HexToAddress(walletAddress))
	if err != nil {
		return nil, &entity.RPCError{ChainID: c.desc.ChainID, Op: "balanceOf", Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	contract := common.HexToAddress(tokenAddress)
	start := time.Now()
	raw, err := c.ethClient.CallContract(callCtx, ethereum.CallMsg{To: &contract, Data: callData}, nil)
	metrics.ObserveRPCCall(c.desc.ChainID, "balanceOf", time.Since(start), err)
	if err != nil {
		return nil, &entity.RPCError{ChainID: c.desc.ChainID, Op: "balanceOf", Err: err}
	}

	// Some proxies return empty bytes for contracts without code at the
	// queried block; treat that as a zero holding.
	if len(raw) == 0 {
		return big.NewInt(0), nil
	}

	unpacked, err := parsedERC20ABI.Unpack("balanceOf", raw)
	if err != nil {
		return nil, &entity.RPCError{ChainID: c.desc.ChainID, Op: "balanceOf",
			Err: fmt.Errorf("unpack result for %s: %w", tokenAddress, err)}
	}
	if len(unpacked) == 0 {
		return nil, &entity.RPCError{ChainID: c.desc.ChainID, Op: "balanceOf",
			Err: fmt.Errorf("empty unpack result for %s", tokenAddress)}
	}
	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, &entity.RPCError{ChainID: c.desc.ChainID, Op: "balanceOf",
			Err: fmt.Errorf("unexpected balanceOf result type %T for %s", unpacked[0], tokenAddress)}
	}
	return balance, nil
}

// Descriptor returns the chain descriptor for this client.
func (c *EVMClient) Descriptor() entity.ChainDescriptor {
	return c.desc
}
