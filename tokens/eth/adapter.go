package eth

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
)

// Adapter simulates and broadcasts evm intents of one chain
type Adapter struct {
	Chain   tokens.Chain
	Backend Backend

	network *tokens.Network
	now     func() time.Time
}

// NewAdapter new adapter
func NewAdapter(chain tokens.Chain, backend Backend) (*Adapter, error) {
	network, err := tokens.GetNetwork(chain)
	if err != nil {
		return nil, err
	}
	if network.Family != tokens.EVMFamily {
		return nil, fmt.Errorf("%w: %v is not an evm chain", tokens.ErrUnknownChain, chain)
	}
	return &Adapter{Chain: chain, Backend: backend, network: network, now: time.Now}, nil
}

func (a *Adapter) checkIntent(intent *message.EvmIntent) error {
	if intent.Chain != a.Chain {
		return tokens.NewIncorrectNetworkError(a.Chain, intent.Chain)
	}
	return nil
}

func chainOfID(chainID *big.Int) tokens.Chain {
	for _, network := range tokens.AllNetworks() {
		if network.Family == tokens.EVMFamily && network.GetEVMChainID().Cmp(chainID) == 0 {
			return network.Chain
		}
	}
	return tokens.Chain(fmt.Sprintf("EVM:%v", chainID))
}

// ensureChain asks the signer to switch when its active chain differs
func (a *Adapter) ensureChain(ctx context.Context, signer Signer) (*big.Int, error) {
	want := a.network.GetEVMChainID()
	active, err := signer.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrProviderUnavailable, err)
	}
	if active.Cmp(want) == 0 {
		return want, nil
	}
	log.Info("request evm chain switch", "chain", a.Chain, "active", active, "want", want)
	if err = signer.SwitchChain(ctx, want); err != nil {
		log.Warn("evm chain switch failed", "chain", a.Chain, "err", err)
		return nil, tokens.NewIncorrectNetworkError(a.Chain, chainOfID(active))
	}
	if active, err = signer.ChainID(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrProviderUnavailable, err)
	}
	if active.Cmp(want) != 0 {
		return nil, tokens.NewIncorrectNetworkError(a.Chain, chainOfID(active))
	}
	return want, nil
}

// Simulate prechecks allowance and network, then prices the tx
func (a *Adapter) Simulate(ctx context.Context, signer Signer, intent *message.EvmIntent) (*tokens.Simulation, error) {
	if err := a.checkIntent(intent); err != nil {
		return nil, err
	}
	if err := a.checkAllowance(ctx, intent.Allowance); err != nil {
		return nil, err
	}
	if _, err := a.ensureChain(ctx, signer); err != nil {
		return nil, err
	}
	req, err := BuildTxRequest(intent, a.now())
	if err != nil {
		return nil, err
	}
	price, err := a.gasPrice(ctx)
	if err != nil {
		return nil, err
	}
	gas, err := a.estimateGas(ctx, req)
	if err != nil {
		return nil, err
	}
	fee := new(big.Int).Mul(price.FeeCap, new(big.Int).SetUint64(gas))
	if err = a.checkBalance(ctx, req, fee); err != nil {
		return nil, err
	}
	log.Debug("simulate evm tx", "chain", a.Chain, "kind", intent.Kind, "gas", gas, "feeCap", price.FeeCap, "tipCap", price.TipCap)
	return &tokens.Simulation{
		Chain:     a.Chain,
		Symbol:    a.network.GetGasAsset().Ticker,
		Decimals:  a.network.GasDecimals,
		Amount:    fee,
		Gas:       gas,
		GasPrice:  price.FeeCap,
		GasTipCap: price.TipCap,
	}, nil
}

// SignAndBroadcast builds the tx with the simulated pricing, signs and sends it
func (a *Adapter) SignAndBroadcast(ctx context.Context, signer Signer, intent *message.EvmIntent, sim *tokens.Simulation) (*tokens.TxResult, error) {
	if err := a.checkIntent(intent); err != nil {
		return nil, err
	}
	chainID, err := a.ensureChain(ctx, signer)
	if err != nil {
		return nil, err
	}
	req, err := BuildTxRequest(intent, a.now())
	if err != nil {
		return nil, err
	}

	var price *GasPrice
	var gas uint64
	if sim != nil && sim.GasPrice != nil && sim.Gas > 0 {
		price = &GasPrice{FeeCap: sim.GasPrice, TipCap: sim.GasTipCap}
		gas = sim.Gas
	} else {
		if price, err = a.gasPrice(ctx); err != nil {
			return nil, err
		}
		if gas, err = a.estimateGas(ctx, req); err != nil {
			return nil, err
		}
	}

	nonce, err := a.Backend.PendingNonceAt(ctx, req.From)
	if err != nil {
		return nil, tokens.WrapRPCQueryError(err, "eth_getTransactionCount", req.From, "pending")
	}

	rawTx := NewTx(chainID, nonce, req, gas, price)
	log.Trace("build evm raw tx", "chain", a.Chain, "from", req.From, "to", req.To,
		"nonce", nonce, "value", req.Value, "gas", gas, "feeCap", price.FeeCap, "tipCap", price.TipCap)

	signedTx, err := signer.SignTx(ctx, rawTx, chainID)
	if err != nil {
		return nil, mapProviderError(err)
	}
	if err = checkSigned(signedTx, chainID, req.From); err != nil {
		return nil, err
	}

	txHash := signedTx.Hash().Hex()
	if err = a.Backend.SendTransaction(ctx, signedTx); err != nil {
		log.Info("SendTransaction failed", "chain", a.Chain, "hash", txHash, "err", err)
		return nil, mapProviderError(err)
	}
	log.Info("SendTransaction success", "chain", a.Chain, "hash", txHash, "nonce", nonce)

	result := tokens.NewTxResult(a.Chain, intent.From, txHash)
	result.Deposited = intent.Deposited
	return result, nil
}
