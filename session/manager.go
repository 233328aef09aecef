package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	mapset "github.com/deckarep/golang-set"
)

// Manager connected accounts and selections of a wallet session
type Manager struct {
	registry *wallet.Registry
	store    Store

	state atomic.Value // *State

	// mu serializes state transitions, it is never held across provider or store calls
	mu       sync.Mutex
	required tokens.Chain
	subs     map[string]wallet.Subscription

	listeners *wallet.Listeners
}

// RestoreResult restored and failed providers of a restore
type RestoreResult struct {
	Restored []string
	Failed   map[string]error
}

// NewManager new session manager
func NewManager(registry *wallet.Registry, store Store) *Manager {
	m := &Manager{
		registry:  registry,
		store:     store,
		subs:      make(map[string]wallet.Subscription),
		listeners: wallet.NewListeners(),
	}
	m.state.Store(emptyState)
	return m
}

// State current state snapshot
func (m *Manager) State() *State {
	return m.state.Load().(*State)
}

// Accounts all connected accounts
func (m *Manager) Accounts() []*wallet.AccountContext {
	return m.State().Accounts
}

// Selected selected account of chain
func (m *Manager) Selected(chain tokens.Chain) (*wallet.AccountContext, error) {
	state := m.State()
	ref, exist := state.Selected[chain]
	if !exist {
		return nil, fmt.Errorf("%w: no account selected on %v", tokens.ErrAccountNotFound, chain)
	}
	account := state.Find(ref)
	if account == nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrAccountNotFound, ref.Address)
	}
	return account, nil
}

// Subscribe subscribe session state changes
func (m *Manager) Subscribe(cb func()) wallet.Subscription {
	return m.listeners.Add(cb)
}

// Provider registered provider of id, instantiated on first use
func (m *Manager) Provider(ctx context.Context, id string) (wallet.Provider, error) {
	return m.registry.Get(ctx, id)
}

// ProviderIDs registered provider ids
func (m *Manager) ProviderIDs() []string {
	return m.registry.IDs()
}

// RequiredChain chain which should always have a selection if possible
func (m *Manager) RequiredChain() tokens.Chain {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.required
}

func (m *Manager) update(fn func(current *State) *State) *State {
	m.mu.Lock()
	next := fn(m.State())
	m.state.Store(next)
	m.mu.Unlock()
	m.listeners.Notify()
	return next
}

// Connect connect provider and add its accounts
func (m *Manager) Connect(ctx context.Context, id string) (*State, error) {
	provider, err := m.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.update(func(current *State) *State {
		if current.Status != Disconnected {
			return current
		}
		next := current.clone()
		next.Status = Connecting
		return next
	})

	accounts, err := provider.GetAccounts(ctx)
	if err != nil {
		m.update(func(current *State) *State {
			next := current.clone()
			next.updateStatus()
			return next
		})
		log.Warn("connect wallet provider failed", "provider", id, "err", err)
		return nil, err
	}

	state := m.applyAccounts(id, accounts)
	m.subscribe(id, provider)
	m.persist(ctx)
	log.Info("connect wallet provider success", "provider", id, "accounts", len(accounts), "status", state.Status)
	return state, nil
}

// applyAccounts replaces the accounts of provider, stale selections fall
// back to the first account of their chain
func (m *Manager) applyAccounts(id string, accounts []*wallet.AccountContext) *State {
	if accounts == nil {
		accounts = []*wallet.AccountContext{}
	}
	return m.update(func(current *State) *State {
		next := current.withProviderAccounts(id, accounts)
		next.reconcile(current.Selected, m.required)
		next.selectDefaults()
		next.updateStatus()
		return next
	})
}

func (m *Manager) subscribe(id string, provider wallet.Provider) {
	subscriber, ok := provider.(wallet.Subscriber)
	if !ok {
		return
	}
	m.mu.Lock()
	_, exist := m.subs[id]
	m.mu.Unlock()
	if exist {
		return
	}
	sub := subscriber.OnChange(func() {
		go func() {
			if err := m.Refresh(context.Background(), id); err != nil {
				log.Warn("refresh wallet provider failed", "provider", id, "err", err)
			}
		}()
	})
	m.mu.Lock()
	if _, exist = m.subs[id]; exist {
		m.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	m.subs[id] = sub
	m.mu.Unlock()
}

func (m *Manager) unsubscribe(id string) {
	m.mu.Lock()
	sub, exist := m.subs[id]
	delete(m.subs, id)
	m.mu.Unlock()
	if exist {
		sub.Unsubscribe()
	}
}

// Disconnect disconnect provider and remove its accounts
func (m *Manager) Disconnect(ctx context.Context, id string) (*State, error) {
	if !m.registry.Has(id) {
		return nil, fmt.Errorf("%w: %v", tokens.ErrProviderNotFound, id)
	}
	state := m.update(func(current *State) *State {
		next := current.withoutProvider(id)
		next.updateStatus()
		return next
	})
	m.unsubscribe(id)
	m.persist(ctx)

	var err error
	for _, provider := range m.registry.Loaded() {
		if provider.ID() != id {
			continue
		}
		if disconnecter, ok := provider.(wallet.Disconnecter); ok {
			err = disconnecter.Disconnect(ctx)
		}
	}
	log.Info("disconnect wallet provider", "provider", id, "status", state.Status, "err", err)
	return state, err
}

// Select select account on chain
func (m *Manager) Select(ctx context.Context, chain tokens.Chain, address string) (*wallet.AccountContext, error) {
	var selected *wallet.AccountContext
	for _, account := range m.State().AccountsOf(chain) {
		if tokens.MustGetNetwork(chain).EqualAddress(account.Address, address) {
			selected = account
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w: %v on %v", tokens.ErrAccountNotFound, address, chain)
	}
	m.update(func(current *State) *State {
		next := current.clone()
		next.Selected[chain] = selected.Ref()
		next.updateStatus()
		return next
	})
	m.persist(ctx)
	log.Info("select account", "chain", chain, "account", selected)
	return selected, nil
}

// Refresh reload accounts of a connected provider
func (m *Manager) Refresh(ctx context.Context, id string) error {
	if !m.State().HasProvider(id) {
		return nil
	}
	provider, err := m.registry.Get(ctx, id)
	if err != nil {
		return err
	}
	accounts, err := provider.GetAccounts(ctx)
	if err != nil {
		return err
	}
	// disconnected while enumerating
	if !m.State().HasProvider(id) {
		return nil
	}
	state := m.applyAccounts(id, accounts)
	m.persist(ctx)
	log.Debug("refresh wallet provider", "provider", id, "accounts", len(accounts), "status", state.Status)
	return nil
}

// RefreshAll reload accounts of every connected provider concurrently
func (m *Manager) RefreshAll(ctx context.Context) map[string]error {
	providers := m.State().Providers
	errs := make([]error, len(providers))
	var wg sync.WaitGroup
	for i, id := range providers {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = m.Refresh(ctx, id)
		}(i, id)
	}
	wg.Wait()

	failed := make(map[string]error)
	for i, err := range errs {
		if err != nil {
			failed[providers[i]] = err
		}
	}
	return failed
}

type restoreOutcome struct {
	provider wallet.Provider
	accounts []*wallet.AccountContext
	err      error
}

// Restore reconnect persisted providers concurrently, providers failing to
// reconnect are dropped and never block the others
func (m *Manager) Restore(ctx context.Context, required tokens.Chain) (*RestoreResult, error) {
	persisted, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if persisted == nil {
		persisted = &Persisted{}
	}

	unique := mapset.NewSet()
	var ids []string
	for _, id := range persisted.Providers {
		if unique.Add(id) {
			ids = append(ids, id)
		}
	}

	outcomes := make([]restoreOutcome, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			provider, err := m.registry.Get(ctx, id)
			if err != nil {
				outcomes[i].err = err
				return
			}
			outcomes[i].provider = provider
			outcomes[i].accounts, outcomes[i].err = provider.GetAccounts(ctx)
		}(i, id)
	}
	wg.Wait()

	result := &RestoreResult{Failed: make(map[string]error)}
	next := emptyState.clone()
	for i, id := range ids {
		outcome := outcomes[i]
		if outcome.err != nil {
			result.Failed[id] = outcome.err
			log.Warn("restore wallet provider failed", "provider", id, "err", outcome.err)
			continue
		}
		accounts := outcome.accounts
		if accounts == nil {
			accounts = []*wallet.AccountContext{}
		}
		next = next.withProviderAccounts(id, accounts)
		result.Restored = append(result.Restored, id)
	}
	next.reconcile(persisted.Selected, required)
	next.updateStatus()

	m.mu.Lock()
	m.required = required
	m.mu.Unlock()
	m.update(func(*State) *State { return next })

	for i, id := range ids {
		if outcomes[i].err == nil {
			m.subscribe(id, outcomes[i].provider)
		}
	}
	m.persist(ctx)
	log.Info("restore session finished", "restored", result.Restored, "failed", len(result.Failed), "status", next.Status)
	return result, nil
}

func (m *Manager) persist(ctx context.Context) {
	if err := m.store.Save(ctx, m.State().Persisted()); err != nil {
		log.Warn("save session failed", "err", err)
	}
}

// Close drops provider subscriptions and closes the store
func (m *Manager) Close() error {
	m.mu.Lock()
	subs := m.subs
	m.subs = make(map[string]wallet.Subscription)
	m.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	return m.store.Close()
}

// IsNotConnected is error caused by missing connection or selection
func IsNotConnected(err error) bool {
	return errors.Is(err, tokens.ErrAccountNotFound) || errors.Is(err, tokens.ErrProviderNotFound)
}
