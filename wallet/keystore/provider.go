package keystore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/anyswap/CrossChain-Wallet/common"
	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"github.com/fsnotify/fsnotify"
)

// ProviderID provider id
const ProviderID = "keystore"

var (
	_ wallet.Provider     = (*Provider)(nil)
	_ wallet.Subscriber   = (*Provider)(nil)
	_ wallet.Disconnecter = (*Provider)(nil)
)

// Provider keystore file provider
type Provider struct {
	*wallet.Dispatcher

	file     string
	password string
	chains   []tokens.Chain

	listeners *wallet.Listeners

	mu      sync.Mutex // guards watcher
	watcher *fsnotify.Watcher
}

// New new provider, chains defaults to every known chain
func New(dispatcher *wallet.Dispatcher, file, password string, chains []string) (*Provider, error) {
	p := &Provider{
		Dispatcher: dispatcher,
		password:   password,
		listeners:  wallet.NewListeners(),
	}
	if file != "" {
		p.file = filepath.Clean(file)
	}
	if len(chains) == 0 {
		for _, network := range tokens.AllNetworks() {
			p.chains = append(p.chains, network.Chain)
		}
		return p, nil
	}
	for _, s := range chains {
		chain, err := tokens.ParseChain(s)
		if err != nil {
			return nil, err
		}
		p.chains = append(p.chains, chain)
	}
	return p, nil
}

// NewFactory factory reading the keystore provider config
func NewFactory(backends wallet.Backends) wallet.Factory {
	return func(context.Context) (wallet.Provider, error) {
		var file string
		var chains []string
		if c := params.GetWalletConfig().Providers; c != nil && c.Keystore != nil {
			file, chains = c.Keystore.File, c.Keystore.Chains
		}
		return New(wallet.NewDispatcher(backends), file, params.GetEnv(params.EnvKeystorePassword), chains)
	}
}

// ID implements wallet.Provider
func (p *Provider) ID() string { return ProviderID }

// File keystore file path
func (p *Provider) File() string { return p.file }

// IsAvailable keystore file exists
func (p *Provider) IsAvailable() bool {
	return p.file != "" && common.FileExist(p.file)
}

// GetAccounts implements wallet.Provider
func (p *Provider) GetAccounts(_ context.Context) ([]*wallet.AccountContext, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("%w: keystore file '%v' not exist", tokens.ErrProviderUnavailable, p.file)
	}
	mnemonic, index, err := Read(p.file, p.password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrProviderUnavailable, err)
	}
	d := &deriver{mnemonic: mnemonic, index: index}
	accounts := make([]*wallet.AccountContext, 0, len(p.chains))
	for _, chain := range p.chains {
		account, err := d.account(chain)
		if err != nil {
			return nil, fmt.Errorf("derive %v account failed: %w", chain, err)
		}
		accounts = append(accounts, account)
	}
	log.Debug("keystore get accounts", "file", p.file, "count", len(accounts))
	return accounts, nil
}

// OnChange implements wallet.Subscriber, fired when the keystore file changes
func (p *Provider) OnChange(cb func()) wallet.Subscription {
	sub := p.listeners.Add(cb)
	if err := p.startWatch(); err != nil {
		log.Warn("keystore: start watch failed", "file", p.file, "err", err)
	}
	return sub
}

// Disconnect implements wallet.Disconnecter
func (p *Provider) Disconnect(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher == nil {
		return nil
	}
	err := p.watcher.Close()
	p.watcher = nil
	log.Info("keystore: stop watching", "file", p.file)
	return err
}

func (p *Provider) startWatch() error {
	if p.file == "" {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err = watcher.Add(filepath.Dir(p.file)); err != nil {
		_ = watcher.Close()
		return err
	}
	p.watcher = watcher
	go p.watch(watcher)
	log.Infof("keystore: start to watch keystore file %v", p.file)
	return nil
}

func (p *Provider) watch(watcher *fsnotify.Watcher) {
	ops := []fsnotify.Op{
		fsnotify.Write,
		fsnotify.Create,
		fsnotify.Remove,
		fsnotify.Rename,
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != p.file {
				continue
			}
			log.Trace("keystore: watcher event", "file", ev.Name, "op", ev.Op)
			for _, op := range ops {
				if ev.Has(op) {
					p.listeners.Notify()
					break
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("keystore: watcher error", "err", err)
		}
	}
}
