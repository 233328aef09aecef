package wallet

import (
	"context"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
)

// Dispatcher renders messages for the family of a context and routes them
// to the family builder. Providers embed it.
type Dispatcher struct {
	backends Backends
}

// NewDispatcher new dispatcher
func NewDispatcher(backends Backends) *Dispatcher {
	return &Dispatcher{backends: backends}
}

func checkContext(wctx Context, account *tokens.Account) error {
	if wctx == nil {
		return ErrUnknownContextKind
	}
	if account == nil {
		return fmt.Errorf("%w: missing account", tokens.ErrAccountNotFound)
	}
	want := wctx.Kind().Family()
	if want == tokens.UnknownFamily {
		return fmt.Errorf("%w: %v", ErrUnknownContextKind, wctx.Kind())
	}
	if want != tokens.FamilyOf(account.Chain) {
		return fmt.Errorf("%w: %v context of %v account", ErrContextMismatch, wctx.Kind(), account.Chain)
	}
	return nil
}

// Simulate simulate message sent from account
func (d *Dispatcher) Simulate(
	ctx context.Context, wctx Context, account *tokens.Account,
	msg message.Message, inbound *tokens.InboundAddress,
) (*tokens.Simulation, error) {
	if err := checkContext(wctx, account); err != nil {
		return nil, err
	}
	sim, err := d.simulate(ctx, wctx, account, msg, inbound)
	if err != nil {
		log.Debug("simulate message failed", "message", msg.Name(), "account", account, "err", err)
		return nil, err
	}
	return sim, nil
}

func (d *Dispatcher) simulate(
	ctx context.Context, wctx Context, account *tokens.Account,
	msg message.Message, inbound *tokens.InboundAddress,
) (*tokens.Simulation, error) {
	chain, from := account.Chain, account.Address
	switch c := wctx.(type) {
	case *UtxoContext:
		intent, err := msg.ToUtxo(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		adapter, err := d.backends.Utxo(ctx, chain)
		if err != nil {
			return nil, err
		}
		return adapter.Simulate(ctx, intent)
	case *CosmosContext:
		intent, err := msg.ToCosmos(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		client, err := d.backends.Cosmos(ctx, chain)
		if err != nil {
			return nil, err
		}
		return client.Simulate(ctx, c.Signing, intent)
	case *EvmContext:
		intent, err := msg.ToEvm(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		adapter, err := d.backends.Evm(ctx, chain)
		if err != nil {
			return nil, err
		}
		return adapter.Simulate(ctx, c.Signer, intent)
	case *TronContext:
		intent, err := msg.ToTron(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		adapter, err := d.backends.Tron(ctx)
		if err != nil {
			return nil, err
		}
		return adapter.Simulate(ctx, intent)
	case *XrpContext:
		intent, err := msg.ToXrp(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		adapter, err := d.backends.Xrp(ctx)
		if err != nil {
			return nil, err
		}
		return adapter.Simulate(ctx, intent)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownContextKind, wctx)
	}
}

// SignAndBroadcast sign message with the context signer and broadcast it
func (d *Dispatcher) SignAndBroadcast(
	ctx context.Context, wctx Context, account *tokens.Account, sim *tokens.Simulation,
	msg message.Message, inbound *tokens.InboundAddress,
) (*tokens.TxResult, error) {
	if err := checkContext(wctx, account); err != nil {
		return nil, err
	}
	if sim != nil && sim.Chain != "" && sim.Chain != account.Chain {
		return nil, fmt.Errorf("%w: simulated on %v, signing on %v", tokens.ErrSimulationMismatch, sim.Chain, account.Chain)
	}
	result, err := d.signAndBroadcast(ctx, wctx, account, sim, msg, inbound)
	if err != nil {
		log.Warn("sign and broadcast failed", "message", msg.Name(), "account", account, "err", err)
		return nil, err
	}
	log.Info("sign and broadcast success", "message", msg.Name(), "account", account, "txhash", result.TxHash)
	return result, nil
}

func (d *Dispatcher) signAndBroadcast(
	ctx context.Context, wctx Context, account *tokens.Account, sim *tokens.Simulation,
	msg message.Message, inbound *tokens.InboundAddress,
) (*tokens.TxResult, error) {
	chain, from := account.Chain, account.Address
	switch c := wctx.(type) {
	case *UtxoContext:
		intent, err := msg.ToUtxo(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		adapter, err := d.backends.Utxo(ctx, chain)
		if err != nil {
			return nil, err
		}
		return adapter.SignAndBroadcast(ctx, c.Signer, intent, sim)
	case *CosmosContext:
		intent, err := msg.ToCosmos(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		client, err := d.backends.Cosmos(ctx, chain)
		if err != nil {
			return nil, err
		}
		return client.SignAndBroadcast(ctx, c.Signing, intent, sim)
	case *EvmContext:
		intent, err := msg.ToEvm(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		adapter, err := d.backends.Evm(ctx, chain)
		if err != nil {
			return nil, err
		}
		return adapter.SignAndBroadcast(ctx, c.Signer, intent, sim)
	case *TronContext:
		intent, err := msg.ToTron(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		adapter, err := d.backends.Tron(ctx)
		if err != nil {
			return nil, err
		}
		return adapter.SignAndBroadcast(ctx, c.Signer, intent, sim)
	case *XrpContext:
		intent, err := msg.ToXrp(chain, from, inbound)
		if err != nil {
			return nil, err
		}
		adapter, err := d.backends.Xrp(ctx)
		if err != nil {
			return nil, err
		}
		return adapter.SignAndBroadcast(ctx, c.Signer, intent, sim)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownContextKind, wctx)
	}
}
