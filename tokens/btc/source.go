package btc

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/btc/electrs"
	"github.com/btcsuite/btcutil"
)

// DefaultEstimateFeeBlocks confirmation target of fee estimation
const DefaultEstimateFeeBlocks = 6

// UtxoSource chain data needed to build and broadcast utxo transactions
type UtxoSource interface {
	FindUtxos(ctx context.Context, address string) ([]*Utxo, error)
	EstimateFeeRate(ctx context.Context) (btcutil.Amount, error)
	PostTransaction(ctx context.Context, txHex string) (string, error)
}

// ElectrsSource utxo source backed by electrs (esplora) rest api
type ElectrsSource struct {
	Chain tokens.Chain
	URLs  []string
}

// NewElectrsSource new electrs source from gateway config
func NewElectrsSource(chain tokens.Chain) (*ElectrsSource, error) {
	gateway := params.GetGatewayConfig(chain.String())
	if gateway == nil || len(gateway.APIAddress) == 0 {
		return nil, fmt.Errorf("no gateway config for %v", chain)
	}
	return &ElectrsSource{Chain: chain, URLs: gateway.APIAddress}, nil
}

// FindUtxos find utxos of address, confirmed first then big value first
func (s *ElectrsSource) FindUtxos(ctx context.Context, address string) ([]*Utxo, error) {
	script, err := GetPayToAddrScript(s.Chain, address)
	if err != nil {
		return nil, err
	}
	electUtxos, err := electrs.FindUtxos(ctx, s.URLs, address)
	if err != nil {
		return nil, err
	}
	utxos := make([]*Utxo, 0, len(electUtxos))
	for _, utxo := range electUtxos {
		utxos = append(utxos, &Utxo{
			Hash:      *utxo.Txid,
			Index:     *utxo.Vout,
			Value:     btcutil.Amount(*utxo.Value),
			Script:    script,
			Confirmed: utxo.IsConfirmed(),
		})
	}
	return utxos, nil
}

// EstimateFeeRate estimate fee rate per byte, at least 1
func (s *ElectrsSource) EstimateFeeRate(ctx context.Context) (btcutil.Amount, error) {
	rate, err := electrs.EstimateFeePerByte(ctx, s.URLs, DefaultEstimateFeeBlocks)
	if err != nil {
		return 0, err
	}
	if rate < 1 {
		rate = 1
	}
	return btcutil.Amount(rate), nil
}

// PostTransaction broadcast raw tx
func (s *ElectrsSource) PostTransaction(ctx context.Context, txHex string) (string, error) {
	if _, err := hex.DecodeString(txHex); err != nil {
		return "", tokens.ErrWrongRawTx
	}
	return electrs.PostTransaction(ctx, s.URLs, txHex)
}
