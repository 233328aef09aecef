package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
)

// wallet errors
var (
	ErrUnknownContextKind = errors.New("unknown wallet context kind")
	ErrContextMismatch    = errors.New("wallet context does not match account chain")
	ErrProviderRegistered = errors.New("wallet provider already registered")
)

// Provider wallet provider
type Provider interface {
	ID() string
	IsAvailable() bool
	GetAccounts(ctx context.Context) ([]*AccountContext, error)
	Simulate(ctx context.Context, wctx Context, account *tokens.Account,
		msg message.Message, inbound *tokens.InboundAddress) (*tokens.Simulation, error)
	SignAndBroadcast(ctx context.Context, wctx Context, account *tokens.Account, sim *tokens.Simulation,
		msg message.Message, inbound *tokens.InboundAddress) (*tokens.TxResult, error)
}

// Subscription cancellable change subscription
type Subscription interface {
	Unsubscribe()
}

// Subscriber provider which notifies account changes
type Subscriber interface {
	OnChange(cb func()) Subscription
}

// Disconnecter provider holding resources until disconnect
type Disconnecter interface {
	Disconnect(ctx context.Context) error
}

// Listeners change callbacks of a provider, safe for concurrent use
type Listeners struct {
	mu    sync.Mutex
	next  int
	items map[int]func()
}

// NewListeners new listeners
func NewListeners() *Listeners {
	return &Listeners{items: make(map[int]func())}
}

// Add add callback, returns the subscription removing it
func (l *Listeners) Add(cb func()) Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.next
	l.next++
	l.items[id] = cb
	return &subscription{remove: func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.items, id)
	}}
}

// Len count of callbacks
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Notify call every callback outside of the lock
func (l *Listeners) Notify() {
	l.mu.Lock()
	cbs := make([]func(), 0, len(l.items))
	for _, cb := range l.items {
		cbs = append(cbs, cb)
	}
	l.mu.Unlock()
	for _, cb := range cbs {
		cb()
	}
}

type subscription struct {
	once   sync.Once
	remove func()
}

func (s *subscription) Unsubscribe() { s.once.Do(s.remove) }
