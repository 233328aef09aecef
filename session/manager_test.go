package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("wallet offline")

const (
	addr1 = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	addr2 = "0x90529c2cea2c77856e777c993c6392cc60c5d5a2"
	addr3 = "0x1111111111111111111111111111111111111111"
)

type fakeProvider struct {
	*wallet.Dispatcher
	id        string
	listeners *wallet.Listeners

	mu           sync.Mutex
	accounts     []*wallet.AccountContext
	err          error
	disconnected int32
}

func newFakeProvider(id string, accounts ...*wallet.AccountContext) *fakeProvider {
	return &fakeProvider{
		Dispatcher: wallet.NewDispatcher(nil),
		id:         id,
		listeners:  wallet.NewListeners(),
		accounts:   accounts,
	}
}

func (p *fakeProvider) ID() string        { return p.id }
func (p *fakeProvider) IsAvailable() bool { return true }

func (p *fakeProvider) GetAccounts(context.Context) ([]*wallet.AccountContext, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.accounts, nil
}

func (p *fakeProvider) setAccounts(accounts ...*wallet.AccountContext) {
	p.mu.Lock()
	p.accounts = accounts
	p.mu.Unlock()
	p.listeners.Notify()
}

func (p *fakeProvider) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *fakeProvider) OnChange(cb func()) wallet.Subscription {
	return p.listeners.Add(cb)
}

func (p *fakeProvider) Disconnect(context.Context) error {
	atomic.AddInt32(&p.disconnected, 1)
	return nil
}

func evmAccount(chain tokens.Chain, address, provider string) *wallet.AccountContext {
	return wallet.NewAccountContext(chain, address, provider, &wallet.EvmContext{})
}

func newTestManager(t *testing.T, store Store, providers ...*fakeProvider) *Manager {
	registry := wallet.NewRegistry()
	for _, p := range providers {
		p := p
		require.NoError(t, registry.Register(p.id, func(context.Context) (wallet.Provider, error) {
			return p, nil
		}))
	}
	m := NewManager(registry, store)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestRestoreDropsFailingProvider(t *testing.T) {
	a := newFakeProvider("a", evmAccount(tokens.ETH, addr1, "a"))
	b := newFakeProvider("b", evmAccount(tokens.ETH, addr2, "b"), evmAccount(tokens.BSC, addr2, "b"))
	c := newFakeProvider("c", evmAccount(tokens.AVAX, addr3, "c"))
	c.err = errOffline

	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &Persisted{
		Providers: []string{"a", "b", "c", "b"},
		Selected: map[tokens.Chain]tokens.AccountRef{
			tokens.ETH:  {Chain: tokens.ETH, Address: addr2, Provider: "b"},
			tokens.AVAX: {Chain: tokens.AVAX, Address: addr3, Provider: "c"},
		},
	}))
	m := newTestManager(t, store, a, b, c)

	result, err := m.Restore(context.Background(), tokens.ETH)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, result.Restored)
	require.Len(t, result.Failed, 1)
	require.ErrorIs(t, result.Failed["c"], errOffline)

	state := m.State()
	require.Equal(t, Selected, state.Status)
	require.Equal(t, []string{"a", "b"}, state.Providers)
	require.Len(t, state.Accounts, 3)
	for _, account := range state.Accounts {
		require.NotEqual(t, "c", account.Provider)
	}
	require.Equal(t, map[tokens.Chain]tokens.AccountRef{
		tokens.ETH: {Chain: tokens.ETH, Address: addr2, Provider: "b"},
	}, state.Selected)

	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, persisted.Providers)
	require.NotContains(t, persisted.Selected, tokens.AVAX)
}

func TestRestoreReconcile(t *testing.T) {
	cases := []struct {
		Name     string
		Previous map[tokens.Chain]tokens.AccountRef
		Required tokens.Chain
		Expected map[tokens.Chain]tokens.AccountRef
	}{
		{
			Name:     "keep existing",
			Previous: map[tokens.Chain]tokens.AccountRef{tokens.BSC: {Chain: tokens.BSC, Address: addr2, Provider: "p"}},
			Required: tokens.ETH,
			Expected: map[tokens.Chain]tokens.AccountRef{
				tokens.BSC: {Chain: tokens.BSC, Address: addr2, Provider: "p"},
				tokens.ETH: {Chain: tokens.ETH, Address: addr1, Provider: "p"},
			},
		},
		{
			Name:     "stale falls back to required chain",
			Previous: map[tokens.Chain]tokens.AccountRef{tokens.ETH: {Chain: tokens.ETH, Address: addr3, Provider: "p"}},
			Required: tokens.ETH,
			Expected: map[tokens.Chain]tokens.AccountRef{tokens.ETH: {Chain: tokens.ETH, Address: addr1, Provider: "p"}},
		},
		{
			Name:     "stale without required chain",
			Previous: map[tokens.Chain]tokens.AccountRef{tokens.ETH: {Chain: tokens.ETH, Address: addr3, Provider: "p"}},
			Required: tokens.AVAX,
			Expected: map[tokens.Chain]tokens.AccountRef{},
		},
	}
	for _, c := range cases {
		p := newFakeProvider("p", evmAccount(tokens.ETH, addr1, "p"), evmAccount(tokens.ETH, addr2, "p"), evmAccount(tokens.BSC, addr2, "p"))
		store := NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), &Persisted{Providers: []string{"p"}, Selected: c.Previous}))
		m := newTestManager(t, store, p)
		_, err := m.Restore(context.Background(), c.Required)
		require.NoError(t, err)
		if got := m.State().Selected; !equalSelected(got, c.Expected) {
			t.Fatalf("%s expected %v, but got %v", c.Name, c.Expected, got)
		}
	}
}

func equalSelected(a, b map[tokens.Chain]tokens.AccountRef) bool {
	if len(a) != len(b) {
		return false
	}
	for chain, ref := range a {
		if b[chain] != ref {
			return false
		}
	}
	return true
}

func TestRestoreEmpty(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	result, err := m.Restore(context.Background(), tokens.ETH)
	require.NoError(t, err)
	require.Empty(t, result.Restored)
	require.Equal(t, Disconnected, m.State().Status)
}

func TestConnectSelectDisconnect(t *testing.T) {
	p := newFakeProvider("p", evmAccount(tokens.ETH, addr1, "p"), evmAccount(tokens.ETH, addr2, "p"))
	store := NewMemoryStore()
	m := newTestManager(t, store, p)

	var changes int32
	sub := m.Subscribe(func() { atomic.AddInt32(&changes, 1) })
	defer sub.Unsubscribe()

	_, err := m.Connect(context.Background(), "missing")
	require.ErrorIs(t, err, tokens.ErrProviderNotFound)

	state, err := m.Connect(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, Selected, state.Status)
	require.True(t, atomic.LoadInt32(&changes) > 0)

	selected, err := m.Selected(tokens.ETH)
	require.NoError(t, err)
	require.Equal(t, addr1, selected.Address)

	// evm addresses compare case insensitive
	selected, err = m.Select(context.Background(), tokens.ETH, "0x90529C2CEA2C77856E777C993C6392CC60C5D5A2")
	require.NoError(t, err)
	require.Equal(t, addr2, selected.Address)

	_, err = m.Select(context.Background(), tokens.ETH, addr3)
	require.ErrorIs(t, err, tokens.ErrAccountNotFound)
	_, err = m.Selected(tokens.BSC)
	require.True(t, IsNotConnected(err))

	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, addr2, persisted.Selected[tokens.ETH].Address)

	state, err = m.Disconnect(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, Disconnected, state.Status)
	require.Empty(t, state.Accounts)
	require.Empty(t, state.Selected)
	require.Equal(t, int32(1), atomic.LoadInt32(&p.disconnected))
	require.Equal(t, 0, p.listeners.Len())

	persisted, err = store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, persisted.Providers)
}

func TestConnectFailure(t *testing.T) {
	p := newFakeProvider("p")
	p.err = tokens.ErrProviderUnavailable
	m := newTestManager(t, NewMemoryStore(), p)

	_, err := m.Connect(context.Background(), "p")
	require.ErrorIs(t, err, tokens.ErrProviderUnavailable)
	require.Equal(t, Disconnected, m.State().Status)
	require.False(t, m.State().HasProvider("p"))
}

func TestProviderChangeRefresh(t *testing.T) {
	p := newFakeProvider("p", evmAccount(tokens.ETH, addr1, "p"))
	m := newTestManager(t, NewMemoryStore(), p)
	_, err := m.Connect(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, 1, p.listeners.Len())

	// reconnecting does not subscribe twice
	_, err = m.Connect(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, 1, p.listeners.Len())

	p.setAccounts(evmAccount(tokens.ETH, addr2, "p"), evmAccount(tokens.BSC, addr2, "p"))
	require.Eventually(t, func() bool {
		return len(m.Accounts()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	selected, err := m.Selected(tokens.ETH)
	require.NoError(t, err)
	require.Equal(t, addr2, selected.Address)

	p.setErr(errOffline)
	failed := m.RefreshAll(context.Background())
	require.ErrorIs(t, failed["p"], errOffline)
	require.Len(t, m.Accounts(), 2)
}

func TestStateIsolation(t *testing.T) {
	p := newFakeProvider("p", evmAccount(tokens.ETH, addr1, "p"))
	m := newTestManager(t, NewMemoryStore(), p)
	before := m.State()
	_, err := m.Connect(context.Background(), "p")
	require.NoError(t, err)
	require.Empty(t, before.Accounts)
	require.Empty(t, before.Selected)
	require.Equal(t, Disconnected, before.Status)
}
