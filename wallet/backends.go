package wallet

import (
	"context"
	"sync"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/btc"
	"github.com/anyswap/CrossChain-Wallet/tokens/cosmos"
	"github.com/anyswap/CrossChain-Wallet/tokens/eth"
	"github.com/anyswap/CrossChain-Wallet/tokens/ripple"
	"github.com/anyswap/CrossChain-Wallet/tokens/tron"
)

// Backends family builders bound to chain endpoints
type Backends interface {
	Utxo(ctx context.Context, chain tokens.Chain) (*btc.Adapter, error)
	Cosmos(ctx context.Context, chain tokens.Chain) (*cosmos.Client, error)
	Evm(ctx context.Context, chain tokens.Chain) (*eth.Adapter, error)
	Tron(ctx context.Context) (*tron.Adapter, error)
	Xrp(ctx context.Context) (*ripple.Adapter, error)
}

// GatewayBackends dials builders from the gateway config and caches them
// until Reset is called.
type GatewayBackends struct {
	adapters sync.Map // key is chain
}

// NewGatewayBackends new gateway backends
func NewGatewayBackends() *GatewayBackends {
	return &GatewayBackends{}
}

// Reset drop cached builders, called after gateways are reloaded
func (b *GatewayBackends) Reset() {
	b.adapters.Range(func(k, _ interface{}) bool {
		b.adapters.Delete(k)
		return true
	})
}

// load returns the cached builder or dials a new one outside any lock,
// the first stored builder wins.
func (b *GatewayBackends) load(chain tokens.Chain, dial func() (interface{}, error)) (interface{}, error) {
	if v, exist := b.adapters.Load(chain); exist {
		return v, nil
	}
	v, err := dial()
	if err != nil {
		log.Warn("dial chain backend failed", "chain", chain, "err", err)
		return nil, err
	}
	actual, _ := b.adapters.LoadOrStore(chain, v)
	return actual, nil
}

// Utxo implements Backends
func (b *GatewayBackends) Utxo(_ context.Context, chain tokens.Chain) (*btc.Adapter, error) {
	v, err := b.load(chain, func() (interface{}, error) {
		source, err := btc.NewElectrsSource(chain)
		if err != nil {
			return nil, err
		}
		return btc.NewAdapter(source), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*btc.Adapter), nil
}

// Cosmos implements Backends
func (b *GatewayBackends) Cosmos(_ context.Context, chain tokens.Chain) (*cosmos.Client, error) {
	v, err := b.load(chain, func() (interface{}, error) {
		return cosmos.Dial(chain)
	})
	if err != nil {
		return nil, err
	}
	return v.(*cosmos.Client), nil
}

// Evm implements Backends
func (b *GatewayBackends) Evm(ctx context.Context, chain tokens.Chain) (*eth.Adapter, error) {
	v, err := b.load(chain, func() (interface{}, error) {
		client, err := eth.Dial(ctx, chain)
		if err != nil {
			return nil, err
		}
		return eth.NewAdapter(chain, client)
	})
	if err != nil {
		return nil, err
	}
	return v.(*eth.Adapter), nil
}

// Tron implements Backends
func (b *GatewayBackends) Tron(context.Context) (*tron.Adapter, error) {
	v, err := b.load(tokens.TRON, func() (interface{}, error) {
		api, err := tron.DialHTTP()
		if err != nil {
			return nil, err
		}
		return tron.NewAdapter(api), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*tron.Adapter), nil
}

// Xrp implements Backends
func (b *GatewayBackends) Xrp(context.Context) (*ripple.Adapter, error) {
	v, err := b.load(tokens.XRP, func() (interface{}, error) {
		api, err := ripple.DialRPC()
		if err != nil {
			return nil, err
		}
		return ripple.NewAdapter(api), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ripple.Adapter), nil
}
