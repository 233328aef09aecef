// Package ripple builds and submits native xrp payments.
package ripple

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
)

// Adapter simulates and submits xrp intents
type Adapter struct {
	API API
}

// NewAdapter new adapter
func NewAdapter(api API) *Adapter {
	return &Adapter{API: api}
}

func checkIntent(intent *message.XrpIntent) (int64, error) {
	if intent.Amount == nil || intent.Amount.Sign() <= 0 || !intent.Amount.IsInt64() {
		return 0, fmt.Errorf("%w: %v", tokens.ErrInvalidAmount, intent.Amount)
	}
	if !IsValidAddress(intent.From) {
		return 0, fmt.Errorf("%w: %v", tokens.ErrInvalidAddress, intent.From)
	}
	if !IsValidAddress(intent.Destination) {
		return 0, fmt.Errorf("%w: %v", tokens.ErrInvalidAddress, intent.Destination)
	}
	return intent.Amount.Int64(), nil
}

// checkBalances sender keeps its reserve, an unfunded destination must receive at least the reserve
func (a *Adapter) checkBalances(ctx context.Context, intent *message.XrpIntent, amount, fee int64) (*AccountInfo, error) {
	reserve := params.GetXRPConfig().AccountReserve
	sender, err := a.API.GetAccountInfo(ctx, intent.From)
	if err != nil {
		return nil, err
	}
	if need := amount + fee + reserve; sender.Balance < need {
		return nil, fmt.Errorf("%w: balance %v < %v drops", tokens.ErrInsufficientFunds, sender.Balance, need)
	}
	destination, _, err := GetAddressAndTag(intent.Destination)
	if err != nil {
		return nil, err
	}
	_, err = a.API.GetAccountInfo(ctx, destination)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		if amount < reserve {
			return nil, fmt.Errorf("%w: destination %v is not funded, must send at least %v drops",
				tokens.ErrInsufficientFunds, intent.Destination, reserve)
		}
	case err != nil:
		return nil, err
	}
	return sender, nil
}

// Simulate reports the configured fee after balance checks
func (a *Adapter) Simulate(ctx context.Context, intent *message.XrpIntent) (*tokens.Simulation, error) {
	amount, err := checkIntent(intent)
	if err != nil {
		return nil, err
	}
	fee := params.GetXRPConfig().DefaultFee
	if _, err = a.checkBalances(ctx, intent, amount, fee); err != nil {
		return nil, err
	}
	network := tokens.MustGetNetwork(tokens.XRP)
	return &tokens.Simulation{
		Chain:    tokens.XRP,
		Symbol:   network.GetGasAsset().Ticker,
		Decimals: network.GasDecimals,
		Amount:   big.NewInt(fee),
	}, nil
}

// SignAndBroadcast builds the payment at the current sequence, signs and submits it
func (a *Adapter) SignAndBroadcast(ctx context.Context, signer Signer, intent *message.XrpIntent, sim *tokens.Simulation) (*tokens.TxResult, error) {
	amount, err := checkIntent(intent)
	if err != nil {
		return nil, err
	}
	fee := params.GetXRPConfig().DefaultFee
	if sim != nil && sim.Amount != nil && sim.Amount.IsInt64() && sim.Amount.Sign() > 0 {
		fee = sim.Amount.Int64()
	}
	sender, err := a.checkBalances(ctx, intent, amount, fee)
	if err != nil {
		return nil, err
	}
	destination, tag, err := GetAddressAndTag(intent.Destination)
	if err != nil {
		return nil, err
	}
	if intent.DestinationTag != nil {
		tag = intent.DestinationTag
	}
	var lastLedger uint32
	if sender.LedgerCurrentIndex > 0 {
		lastLedger = sender.LedgerCurrentIndex + lastLedgerOffset
	}
	tx, err := NewUnsignedPaymentTransaction(&PaymentArgs{
		Account:        intent.From,
		Destination:    destination,
		DestinationTag: tag,
		Amount:         amount,
		Fee:            fee,
		Sequence:       sender.Sequence,
		LastLedger:     lastLedger,
		Memo:           intent.Memo,
	})
	if err != nil {
		return nil, err
	}
	txHash, blob, err := SignTransaction(ctx, signer, tx)
	if err != nil {
		return nil, err
	}
	res, err := a.API.Submit(ctx, blob)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		log.Warn("submit xrp tx failed", "hash", txHash, "result", res.EngineResult, "message", res.EngineResultMessage)
		broadcastErr := &tokens.BroadcastTxError{Codespace: res.EngineResult, Log: res.EngineResultMessage, Hash: txHash}
		if res.EngineResultCode > 0 {
			broadcastErr.Code = uint32(res.EngineResultCode)
		}
		return nil, broadcastErr
	}
	log.Info("submit xrp tx success", "hash", txHash, "result", res.EngineResult, "sequence", sender.Sequence)
	result := tokens.NewTxResult(tokens.XRP, intent.From, txHash)
	result.Deposited = intent.Deposited
	return result, nil
}
