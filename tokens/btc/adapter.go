package btc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
)

// Signer signs every input of an unsigned tx, prevOuts are in input order
type Signer interface {
	SignTx(ctx context.Context, tx *wire.MsgTx, prevOuts []*Utxo) (*wire.MsgTx, error)
}

// Adapter simulates and broadcasts utxo intents
type Adapter struct {
	Source UtxoSource
}

// NewAdapter new adapter
func NewAdapter(source UtxoSource) *Adapter {
	return &Adapter{Source: source}
}

func (a *Adapter) build(ctx context.Context, intent *message.UtxoIntent, feeRate btcutil.Amount) (*BuildResult, error) {
	if !intent.Amount.IsInt64() {
		return nil, fmt.Errorf("%w: %v", tokens.ErrInvalidAmount, intent.Amount)
	}
	utxos, err := a.Source.FindUtxos(ctx, intent.From)
	if err != nil {
		return nil, err
	}
	return BuildTx(&BuildTxArgs{
		Chain:     intent.Chain,
		From:      intent.From,
		Utxos:     utxos,
		Amount:    btcutil.Amount(intent.Amount.Int64()),
		Recipient: intent.Recipient,
		FeeRate:   feeRate,
		Memo:      intent.Memo,
	})
}

func (a *Adapter) feeRate(ctx context.Context, intent *message.UtxoIntent) (btcutil.Amount, error) {
	if intent.FeeRate != nil && intent.FeeRate.Sign() > 0 {
		if !intent.FeeRate.IsInt64() {
			return 0, fmt.Errorf("%w: fee rate %v", tokens.ErrInvalidAmount, intent.FeeRate)
		}
		return btcutil.Amount(intent.FeeRate.Int64()), nil
	}
	return a.Source.EstimateFeeRate(ctx)
}

// Simulate builds the tx skeleton and reports its fee
func (a *Adapter) Simulate(ctx context.Context, intent *message.UtxoIntent) (*tokens.Simulation, error) {
	rate, err := a.feeRate(ctx, intent)
	if err != nil {
		return nil, err
	}
	result, err := a.build(ctx, intent, rate)
	if err != nil {
		return nil, err
	}
	network := tokens.MustGetNetwork(intent.Chain)
	return &tokens.Simulation{
		Chain:    intent.Chain,
		Symbol:   network.GetGasAsset().Ticker,
		Decimals: network.GasDecimals,
		Amount:   big.NewInt(int64(result.Fee)),
		FeeRate:  big.NewInt(int64(rate)),
	}, nil
}

// SignAndBroadcast rebuilds the tx at the simulated fee rate, signs and broadcasts it once
func (a *Adapter) SignAndBroadcast(ctx context.Context, signer Signer, intent *message.UtxoIntent, sim *tokens.Simulation) (*tokens.TxResult, error) {
	rate := btcutil.Amount(0)
	if sim != nil && sim.FeeRate != nil {
		rate = btcutil.Amount(sim.FeeRate.Int64())
	}
	if rate <= 0 {
		var err error
		if rate, err = a.feeRate(ctx, intent); err != nil {
			return nil, err
		}
	}
	result, err := a.build(ctx, intent, rate)
	if err != nil {
		return nil, err
	}
	signedTx, err := signer.SignTx(ctx, result.Tx, result.Inputs)
	if err != nil {
		return nil, err
	}
	txHex, err := SerializeTx(signedTx)
	if err != nil {
		return nil, err
	}
	wantHash := signedTx.TxHash().String()
	txHash, err := a.Source.PostTransaction(ctx, txHex)
	if err != nil {
		log.Warn("post utxo tx failed", "chain", intent.Chain, "hash", wantHash, "err", err)
		return nil, err
	}
	if txHash != wantHash {
		log.Warn("post utxo tx returned unexpected hash", "chain", intent.Chain, "want", wantHash, "have", txHash)
	}
	log.Info("post utxo tx success", "chain", intent.Chain, "hash", wantHash, "fee", result.Fee, "sweep", result.Sweep)
	txResult := tokens.NewTxResult(intent.Chain, intent.From, wantHash)
	txResult.Deposited = depositedOf(intent, result)
	return txResult, nil
}

// a sweep sends less than the intent amount, report what was committed
func depositedOf(intent *message.UtxoIntent, result *BuildResult) *tokens.Deposited {
	if intent.Deposited == nil {
		return nil
	}
	if !result.Sweep {
		return intent.Deposited
	}
	return &tokens.Deposited{
		Asset:  intent.Deposited.Asset,
		Amount: tokens.ToDeposit(big.NewInt(int64(result.Amount)), tokens.MustGetNetwork(intent.Chain).GasDecimals),
	}
}
