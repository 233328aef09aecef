// Package eth builds, prices, signs and broadcasts evm transactions.
package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend chain node access, satisfied by *ethclient.Client
type Backend interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Signer wallet side evm signer with an active chain
type Signer interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SwitchChain(ctx context.Context, chainID *big.Int) error
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Dial connect backend of chain with configured gateway
func Dial(ctx context.Context, chain tokens.Chain) (*ethclient.Client, error) {
	gateway := params.GetGatewayConfig(chain.String())
	if gateway == nil || len(gateway.APIAddress) == 0 {
		return nil, fmt.Errorf("no gateway config for %v", chain)
	}
	var lastErr error
	for _, url := range gateway.APIAddress {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			log.Warn("dial evm gateway failed", "chain", chain, "url", url, "err", err)
			lastErr = err
			continue
		}
		return client, nil
	}
	return nil, lastErr
}
