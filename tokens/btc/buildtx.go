package btc

import (
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
)

// Utxo unspent output owned by the sender
type Utxo struct {
	Hash      string
	Index     uint32
	Value     btcutil.Amount
	Script    []byte `json:",omitempty"` // previous output script, used by signers
	Confirmed bool
}

// BuildTxArgs build tx args
type BuildTxArgs struct {
	Chain     tokens.Chain
	From      string
	Utxos     []*Utxo
	Amount    btcutil.Amount
	Recipient string
	FeeRate   btcutil.Amount // per byte
	Memo      string
}

// BuildResult unsigned transaction skeleton
type BuildResult struct {
	Tx        *wire.MsgTx
	Inputs    []*Utxo
	Fee       btcutil.Amount
	Amount    btcutil.Amount // value sent to recipient
	Change    btcutil.Amount
	Recipient string
	Memo      string
	Sweep     bool
}

// FeeCosts per item fee costs at a fee rate
type FeeCosts struct {
	Input  btcutil.Amount
	Output btcutil.Amount
	Memo   btcutil.Amount
}

// CalcFeeCosts calc input, output and memo costs
func CalcFeeCosts(feeRate btcutil.Amount, memo string) *FeeCosts {
	cfg := params.GetUTXOConfig()
	costs := &FeeCosts{
		Input:  btcutil.Amount(cfg.InputBytes) * feeRate,
		Output: btcutil.Amount(cfg.OutputBytes) * feeRate,
	}
	if memo != "" {
		costs.Memo = btcutil.Amount(cfg.MemoBaseBytes+uint64(len(memo))) * feeRate
	}
	return costs
}

// FullFee fee of spending numInputs inputs to two value outputs and the memo
func (c *FeeCosts) FullFee(numInputs int) btcutil.Amount {
	return btcutil.Amount(numInputs)*c.Input + 2*c.Output + c.Memo
}

// BuildTx build unsigned tx.
// If all utxos only just cover the fee the call fails, if they cover the fee
// but not amount plus fee every utxo is swept to the recipient without change,
// otherwise inputs are selected in order until amount plus fee is covered.
func BuildTx(args *BuildTxArgs) (*BuildResult, error) {
	if args.Amount <= 0 || args.Amount > btcutil.MaxSatoshi {
		return nil, fmt.Errorf("%w: %v", tokens.ErrInvalidAmount, args.Amount)
	}
	if args.FeeRate <= 0 {
		return nil, fmt.Errorf("%w: fee rate %v", tokens.ErrInvalidAmount, args.FeeRate)
	}
	toScript, err := GetPayToAddrScript(args.Chain, args.Recipient)
	if err != nil {
		return nil, err
	}
	var memoScript []byte
	if args.Memo != "" {
		memoScript, err = NullDataScript(args.Memo)
		if err != nil {
			return nil, err
		}
	}

	utxos := make([]*Utxo, 0, len(args.Utxos))
	var available btcutil.Amount
	for _, utxo := range args.Utxos {
		if !isValidValue(utxo.Value) {
			continue
		}
		utxos = append(utxos, utxo)
		available += utxo.Value
	}

	costs := CalcFeeCosts(args.FeeRate, args.Memo)
	fullFee := costs.FullFee(len(utxos))
	if available <= fullFee {
		return nil, fmt.Errorf("%w: available %v <= fee %v", tokens.ErrInsufficientFunds, available, fullFee)
	}

	result := &BuildResult{
		Tx:        wire.NewMsgTx(wire.TxVersion),
		Recipient: args.Recipient,
		Memo:      args.Memo,
	}

	if available <= args.Amount+fullFee {
		result.Sweep = true
		result.Inputs = utxos
		result.Fee = fullFee
		result.Amount = available - fullFee
		log.Debug("build utxo tx sweep", "chain", args.Chain, "from", args.From, "available", available, "fee", fullFee)
	} else {
		fee := 2*costs.Output + costs.Memo
		var acc btcutil.Amount
		for _, utxo := range utxos {
			acc += utxo.Value
			fee += costs.Input
			result.Inputs = append(result.Inputs, utxo)
			if acc >= args.Amount+fee {
				break
			}
		}
		result.Fee = fee
		result.Amount = args.Amount
		result.Change = acc - args.Amount - fee
	}

	for _, utxo := range result.Inputs {
		txIn, errf := NewTxIn(utxo.Hash, utxo.Index)
		if errf != nil {
			return nil, errf
		}
		result.Tx.AddTxIn(txIn)
	}
	result.Tx.AddTxOut(NewTxOut(int64(result.Amount), toScript))
	if !result.Sweep {
		changeScript, errf := GetPayToAddrScript(args.Chain, args.From)
		if errf != nil {
			return nil, errf
		}
		result.Tx.AddTxOut(NewTxOut(int64(result.Change), changeScript))
	}
	if memoScript != nil {
		result.Tx.AddTxOut(NewTxOut(0, memoScript))
	}
	return result, nil
}
