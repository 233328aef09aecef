package remote

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/cosmos"
	"github.com/anyswap/CrossChain-Wallet/tokens/ripple"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ProviderID provider id
const ProviderID = "remote"

var (
	_ wallet.Provider     = (*Provider)(nil)
	_ wallet.Subscriber   = (*Provider)(nil)
	_ wallet.Disconnecter = (*Provider)(nil)
)

// Provider remote signer provider
type Provider struct {
	*wallet.Dispatcher

	client    *Client
	url       string
	listeners *wallet.Listeners

	mu          sync.Mutex
	fingerprint string
}

// New new provider, an empty url means the signer is absent
func New(dispatcher *wallet.Dispatcher, url, token string, timeout time.Duration) *Provider {
	return &Provider{
		Dispatcher: dispatcher,
		client:     NewClient(url, token, timeout),
		url:        url,
		listeners:  wallet.NewListeners(),
	}
}

// NewFactory factory reading the remote provider config
func NewFactory(backends wallet.Backends) wallet.Factory {
	return func(context.Context) (wallet.Provider, error) {
		var url string
		var timeout time.Duration
		if c := params.GetWalletConfig().Providers; c != nil && c.Remote != nil {
			url = c.Remote.URL
			timeout = time.Duration(c.Remote.Timeout) * time.Second
		}
		token := params.GetEnv(params.EnvRemoteSignerToken)
		return New(wallet.NewDispatcher(backends), url, token, timeout), nil
	}
}

// ID implements wallet.Provider
func (p *Provider) ID() string { return ProviderID }

// IsAvailable signer endpoint is configured
func (p *Provider) IsAvailable() bool { return p.url != "" }

// GetAccounts implements wallet.Provider
func (p *Provider) GetAccounts(ctx context.Context) ([]*wallet.AccountContext, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("%w: remote signer is not configured", tokens.ErrProviderUnavailable)
	}
	var accounts []*Account
	if err := p.client.Call(ctx, MethodGetAccounts, &GetAccountsArgs{}, &accounts); err != nil {
		return nil, err
	}
	result := make([]*wallet.AccountContext, 0, len(accounts))
	for _, account := range accounts {
		accountCtx, err := p.toAccountContext(account)
		if err != nil {
			log.Warn("remote signer: ignore account", "chain", account.Chain, "address", account.Address, "err", err)
			continue
		}
		result = append(result, accountCtx)
	}
	p.checkChanged(result)
	return result, nil
}

// checkChanged notifies subscribers when the account set differs from the last one seen
func (p *Provider) checkChanged(accounts []*wallet.AccountContext) {
	refs := make([]string, 0, len(accounts))
	for _, account := range accounts {
		refs = append(refs, account.String())
	}
	sort.Strings(refs)
	fingerprint := strings.Join(refs, ",")

	p.mu.Lock()
	changed := p.fingerprint != "" && p.fingerprint != fingerprint
	p.fingerprint = fingerprint
	p.mu.Unlock()

	if changed {
		log.Info("remote signer: accounts changed", "count", len(accounts))
		go p.listeners.Notify()
	}
}

func (p *Provider) toAccountContext(account *Account) (*wallet.AccountContext, error) {
	chain, err := tokens.ParseChain(account.Chain)
	if err != nil {
		return nil, err
	}
	network := tokens.MustGetNetwork(chain)
	if !network.IsValidAddress(account.Address) {
		return nil, fmt.Errorf("%w: %v", tokens.ErrInvalidAddress, account.Address)
	}

	var wctx wallet.Context
	switch account.Kind {
	case KindUtxo:
		wctx = &wallet.UtxoContext{Signer: &utxoSigner{client: p.client, chain: chain, address: account.Address}}
	case KindCosmos:
		pubKey, err := cosmos.PubKeyFromStr(account.PubKey)
		if err != nil {
			return nil, err
		}
		if err = cosmos.VerifyPubKey(chain, account.Address, pubKey); err != nil {
			return nil, err
		}
		signer := &cosmosSigner{client: p.client, chain: chain, address: account.Address, pubKey: pubKey}
		wctx = &wallet.CosmosContext{Signing: cosmos.NewSigningContext(signer)}
	case KindCosmosEIP712:
		if !common.IsHexAddress(account.PubKey) {
			return nil, fmt.Errorf("%w: evm key address '%v'", tokens.ErrInvalidAddress, account.PubKey)
		}
		signer := &typedDataSigner{client: p.client, chain: chain, address: common.HexToAddress(account.PubKey)}
		wctx = &wallet.CosmosContext{Signing: cosmos.NewTypedSigningContext(signer)}
	case KindEvm:
		wctx = &wallet.EvmContext{Signer: &evmSigner{client: p.client, address: common.HexToAddress(account.Address)}}
	case KindTron:
		wctx = &wallet.TronContext{Signer: &hashSigner{client: p.client, chain: chain, address: account.Address}}
	case KindXrp:
		pubKey, err := hexutil.Decode(account.PubKey)
		if err != nil {
			return nil, err
		}
		if ripple.PublicKeyToAddress(pubKey) != account.Address {
			return nil, fmt.Errorf("%w: public key of %v", tokens.ErrSenderMismatch, account.Address)
		}
		wctx = &wallet.XrpContext{Signer: &hashSigner{client: p.client, chain: chain, address: account.Address, pubKey: pubKey}}
	default:
		return nil, fmt.Errorf("unknown account kind '%v'", account.Kind)
	}
	if wctx.Kind().Family() != network.Family {
		return nil, fmt.Errorf("%w: %v kind of %v account", wallet.ErrContextMismatch, account.Kind, chain)
	}
	return wallet.NewAccountContext(chain, account.Address, ProviderID, wctx), nil
}

// OnChange implements wallet.Subscriber, fired when a fetch sees a new account set
func (p *Provider) OnChange(cb func()) wallet.Subscription {
	return p.listeners.Add(cb)
}

// Disconnect implements wallet.Disconnecter
func (p *Provider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	p.fingerprint = ""
	p.mu.Unlock()
	if !p.IsAvailable() {
		return nil
	}
	var ok bool
	return p.client.Call(ctx, MethodDisconnect, &EmptyArgs{}, &ok)
}
