package grpc

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/mempool"
	coretypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
)

var requestTimeout = 10 * time.Second

// TxHash hex hash of encoded tx, as reported by tendermint
func TxHash(txBytes []byte) string {
	return fmt.Sprintf("%X", tmtypes.Tx(txBytes).Hash())
}

// BroadcastTxSync broadcast encoded tx once in sync mode.
// A tx already sitting in the mempool cache counts as accepted.
func BroadcastTxSync(ctx context.Context, clientCtx ClientContext, txBytes []byte) (string, error) {
	requestCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	txHash := TxHash(txBytes)
	res, err := clientCtx.Client().BroadcastTxSync(requestCtx, txBytes)
	if err != nil {
		if errors.Is(err, requestCtx.Err()) {
			return txHash, errors.WithStack(err)
		}
		if err := convertTendermintError(err); !sdkerrors.ErrTxInMempoolCache.Is(err) {
			return txHash, errors.WithStack(err)
		}
		return txHash, nil
	}
	switch res.Code {
	case 0, sdkerrors.ErrTxInMempoolCache.ABCICode():
		return txHash, nil
	default:
		return txHash, &tokens.BroadcastTxError{
			Code:      res.Code,
			Codespace: res.Codespace,
			Log:       res.Log,
			Hash:      txHash,
		}
	}
}

// AwaitTx polls every interval until the tx is included in a block.
// Running out of time is reported as *tokens.TimeoutError since the outcome
// is unknown, a cancelled ctx returns its error.
func AwaitTx(
	ctx context.Context,
	clientCtx ClientContext,
	txHash string,
	interval, timeout time.Duration,
) (*coretypes.ResultTx, error) {
	txHashBytes, err := hex.DecodeString(txHash)
	if err != nil {
		return nil, errors.Wrap(err, "tx hash is not a valid hex")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 1; ; polls++ {
		resultTx, err := getIncludedTx(timeoutCtx, clientCtx, txHashBytes)
		switch {
		case err != nil:
			return nil, err
		case resultTx != nil:
			log.Debug("cosmos tx included", "hash", txHash, "height", resultTx.Height, "polls", polls)
			return resultTx, nil
		}

		if timeoutCtx.Err() == nil {
			select {
			case <-timeoutCtx.Done():
			case <-ticker.C:
				continue
			}
		}
		if ctx.Err() != nil {
			return nil, errors.WithStack(ctx.Err())
		}
		log.Warn("await cosmos tx timeout", "hash", txHash, "timeout", timeout, "polls", polls)
		return nil, &tokens.TimeoutError{Hash: txHash, Timeout: timeout.String()}
	}
}

// getIncludedTx returns nil without error while the tx is unknown to the node
// or not yet in a block, a failed execution is a *tokens.BroadcastTxError
func getIncludedTx(ctx context.Context, clientCtx ClientContext, hash []byte) (*coretypes.ResultTx, error) {
	requestCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resultTx, err := clientCtx.Client().Tx(requestCtx, hash, false)
	if err != nil {
		log.Trace("query cosmos tx failed", "hash", fmt.Sprintf("%X", hash), "err", err)
		return nil, nil
	}
	if res := resultTx.TxResult; res.Code != 0 {
		return nil, &tokens.BroadcastTxError{
			Code:      res.Code,
			Codespace: res.Codespace,
			Log:       res.Log,
			Hash:      fmt.Sprintf("%X", hash),
		}
	}
	if resultTx.Height == 0 {
		return nil, nil
	}
	return resultTx, nil
}

// the idea behind this function is to map it similarly to how cosmos sdk does it in the link below
// so the users can match against cosmos sdk error types.
// https://github.com/cosmos/cosmos-sdk/blob/v0.45.2/client/broadcast.go#L49
func convertTendermintError(err error) error {
	if err == nil {
		return nil
	}
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, strings.ToLower(mempool.ErrTxInCache.Error())):
		return sdkerrors.ErrTxInMempoolCache.Wrap(err.Error())
	case strings.Contains(errStr, sdkerrors.ErrMempoolIsFull.Error()):
		return sdkerrors.ErrMempoolIsFull.Wrap(err.Error())
	case strings.Contains(errStr, sdkerrors.ErrTxTooLarge.Error()):
		return sdkerrors.ErrTxTooLarge.Wrap(err.Error())
	default:
		return err
	}
}
