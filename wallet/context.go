// Package wallet connects wallet providers to the chain family builders.
//
// A provider enumerates accounts, each carrying a Context that holds the
// family specific signer. The Dispatcher renders a message for the account's
// family and routes it to the matching builder.
package wallet

import (
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/btc"
	"github.com/anyswap/CrossChain-Wallet/tokens/cosmos"
	"github.com/anyswap/CrossChain-Wallet/tokens/eth"
	"github.com/anyswap/CrossChain-Wallet/tokens/ripple"
	"github.com/anyswap/CrossChain-Wallet/tokens/tron"
)

// Kind context kind
type Kind int

// context kinds
const (
	UtxoKind Kind = iota + 1
	CosmosKind
	EvmKind
	TronKind
	XrpKind
)

func (k Kind) String() string {
	switch k {
	case UtxoKind:
		return "utxo"
	case CosmosKind:
		return "cosmos"
	case EvmKind:
		return "evm"
	case TronKind:
		return "tron"
	case XrpKind:
		return "xrp"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Family chain family served by contexts of this kind
func (k Kind) Family() tokens.Family {
	switch k {
	case UtxoKind:
		return tokens.UTXOFamily
	case CosmosKind:
		return tokens.CosmosFamily
	case EvmKind:
		return tokens.EVMFamily
	case TronKind:
		return tokens.TronFamily
	case XrpKind:
		return tokens.XRPFamily
	default:
		return tokens.UnknownFamily
	}
}

// Context signer of an account, the set of implementations is closed
type Context interface {
	Kind() Kind
	sealed()
}

var (
	_ Context = (*UtxoContext)(nil)
	_ Context = (*CosmosContext)(nil)
	_ Context = (*EvmContext)(nil)
	_ Context = (*TronContext)(nil)
	_ Context = (*XrpContext)(nil)
)

type sealedContext struct{}

func (sealedContext) sealed() {}

// UtxoContext utxo signer
type UtxoContext struct {
	sealedContext
	Signer btc.Signer
}

// Kind implements Context
func (*UtxoContext) Kind() Kind { return UtxoKind }

// CosmosContext cosmos keyed or eip712 evm keyed signer
type CosmosContext struct {
	sealedContext
	Signing *cosmos.SigningContext
}

// Kind implements Context
func (*CosmosContext) Kind() Kind { return CosmosKind }

// EvmContext evm signer
type EvmContext struct {
	sealedContext
	Signer eth.Signer
}

// Kind implements Context
func (*EvmContext) Kind() Kind { return EvmKind }

// TronContext tron signer
type TronContext struct {
	sealedContext
	Signer tron.Signer
}

// Kind implements Context
func (*TronContext) Kind() Kind { return TronKind }

// XrpContext xrp signer
type XrpContext struct {
	sealedContext
	Signer ripple.Signer
}

// Kind implements Context
func (*XrpContext) Kind() Kind { return XrpKind }

// AccountContext account with the context to sign for it
type AccountContext struct {
	tokens.Account
	Context Context `json:"-"`
}

// NewAccountContext new account context
func NewAccountContext(chain tokens.Chain, address, provider string, wctx Context) *AccountContext {
	return &AccountContext{
		Account: tokens.Account{Address: address, Chain: chain, Provider: provider},
		Context: wctx,
	}
}

// KindName kind name for display
func (a *AccountContext) KindName() string {
	if a.Context == nil {
		return ""
	}
	return a.Context.Kind().String()
}
