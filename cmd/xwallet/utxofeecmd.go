package main

import (
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/tokens/btc"
	"github.com/btcsuite/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	feeRateFlag = &cli.Int64Flag{
		Name:  "feerate",
		Usage: "fee rate in satoshi per byte",
		Value: 10,
	}
	inputsFlag = &cli.IntFlag{
		Name:  "inputs",
		Usage: "number of inputs",
		Value: 1,
	}
	feeMemoFlag = &cli.StringFlag{
		Name:  "memo",
		Usage: "memo carried by the transaction",
	}

	utxoFeeCommand = &cli.Command{
		Name:   "utxofee",
		Usage:  "calc fee of an utxo transaction",
		Action: calcUtxoFee,
		Flags: []cli.Flag{
			feeRateFlag,
			inputsFlag,
			feeMemoFlag,
		},
	}
)

func calcUtxoFee(ctx *cli.Context) error {
	feeRate := btcutil.Amount(ctx.Int64(feeRateFlag.Name))
	numInputs := ctx.Int(inputsFlag.Name)
	if feeRate <= 0 || numInputs <= 0 {
		return fmt.Errorf("fee rate and inputs must be positive")
	}
	costs := btc.CalcFeeCosts(feeRate, ctx.String(feeMemoFlag.Name))
	fmt.Printf("input: %d\noutput: %d\nmemo: %d\nfee: %d\n",
		int64(costs.Input), int64(costs.Output), int64(costs.Memo), int64(costs.FullFee(numInputs)))
	return nil
}
