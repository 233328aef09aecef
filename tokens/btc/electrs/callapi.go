// Package electrs get or post RPC queries to electrs server.
package electrs

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/rpc/client"
	"github.com/anyswap/CrossChain-Wallet/tokens"
)

// GetLatestBlockNumber call /blocks/tip/height
func GetLatestBlockNumber(ctx context.Context, urls []string) (result uint64, err error) {
	err = tokens.RESTGet(ctx, &result, urls, "/blocks/tip/height")
	return result, err
}

// GetTransactionByHash call /tx/{txHash}
func GetTransactionByHash(ctx context.Context, urls []string, txHash string) (*ElectTx, error) {
	var result ElectTx
	if err := tokens.RESTGet(ctx, &result, urls, "/tx/"+txHash); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetElectTransactionStatus call /tx/{txHash}/status
func GetElectTransactionStatus(ctx context.Context, urls []string, txHash string) (*ElectTxStatus, error) {
	var result ElectTxStatus
	if err := tokens.RESTGet(ctx, &result, urls, "/tx/"+txHash+"/status"); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindUtxos call /address/{add}/utxo (confirmed first, then big value first)
func FindUtxos(ctx context.Context, urls []string, addr string) (result []*ElectUtxo, err error) {
	if err = tokens.RESTGet(ctx, &result, urls, "/address/"+addr+"/utxo"); err != nil {
		return nil, err
	}
	valid := result[:0]
	for _, utxo := range result {
		if utxo.Txid != nil && utxo.Vout != nil && utxo.Value != nil {
			valid = append(valid, utxo)
		}
	}
	sort.Sort(SortableElectUtxoSlice(valid))
	return valid, nil
}

// PostTransaction call post to /tx, returns the txid
func PostTransaction(ctx context.Context, urls []string, txHex string) (txHash string, err error) {
	for _, apiAddress := range urls {
		var hash string
		err = client.RPCRawPostWithContext(ctx, &hash, client.JoinURLPath(apiAddress, "/tx"), txHex)
		if err == nil {
			return strings.TrimSpace(hash), nil
		}
	}
	return "", tokens.WrapRPCQueryError(err, "POST", "/tx")
}

// EstimateFeePerByte call /fee-estimates, rounds the rate up to whole units per byte
func EstimateFeePerByte(ctx context.Context, urls []string, blocks int) (fee int64, err error) {
	var result map[string]float64
	if err = tokens.RESTGet(ctx, &result, urls, "/fee-estimates"); err != nil {
		return 0, err
	}
	rate, exist := result[fmt.Sprintf("%d", blocks)]
	if !exist {
		return 0, fmt.Errorf("no fee estimate for %d blocks", blocks)
	}
	return int64(math.Ceil(rate)), nil
}
