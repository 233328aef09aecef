// Package tron builds trx and trc20 transfers through the node http api.
package tron

import (
	"context"
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
)

// Adapter simulates and broadcasts tron intents
type Adapter struct {
	API API
}

// NewAdapter new adapter
func NewAdapter(api API) *Adapter {
	return &Adapter{API: api}
}

// Simulate prices bandwidth and, for trc20, energy capped at the fee limit
func (a *Adapter) Simulate(ctx context.Context, intent *message.TronIntent) (*tokens.Simulation, error) {
	config := params.GetTronConfig()
	tx, call, err := BuildTx(ctx, a.API, intent, config.FeeLimit)
	if err != nil {
		return nil, err
	}
	bandwidth, err := EstimateBandwidth(tx)
	if err != nil {
		return nil, err
	}
	fee := big.NewInt(bandwidth * config.BandwidthPrice)
	var energy int64
	if call != nil {
		if energy, err = a.API.EstimateEnergy(ctx, call); err != nil {
			return nil, fmt.Errorf("%w: %v", tokens.ErrEstimateGasFailed, err)
		}
		energyFee := energy * config.EnergyPrice
		if energyFee > config.FeeLimit {
			energyFee = config.FeeLimit
		}
		fee.Add(fee, big.NewInt(energyFee))
	}
	log.Debug("simulate tron tx", "kind", intent.Kind, "bandwidth", bandwidth, "energy", energy, "fee", fee)
	network := tokens.MustGetNetwork(tokens.TRON)
	return &tokens.Simulation{
		Chain:    tokens.TRON,
		Symbol:   network.GetGasAsset().Ticker,
		Decimals: network.GasDecimals,
		Amount:   fee,
		Gas:      uint64(bandwidth + energy),
	}, nil
}

// SignAndBroadcast rebuilds the tx with a fresh reference block, signs and broadcasts it
func (a *Adapter) SignAndBroadcast(ctx context.Context, signer Signer, intent *message.TronIntent, _ *tokens.Simulation) (*tokens.TxResult, error) {
	tx, _, err := BuildTx(ctx, a.API, intent, params.GetTronConfig().FeeLimit)
	if err != nil {
		return nil, err
	}
	txHash, err := SignTx(ctx, signer, tx, intent.From)
	if err != nil {
		return nil, err
	}
	txHex, err := MarshalTx(tx)
	if err != nil {
		return nil, err
	}
	if err = a.API.BroadcastHex(ctx, txHex); err != nil {
		return nil, err
	}
	log.Info("broadcast tron tx success", "txid", txHash, "from", intent.From, "to", intent.To)
	result := tokens.NewTxResult(tokens.TRON, intent.From, txHash)
	result.Deposited = intent.Deposited
	return result, nil
}
