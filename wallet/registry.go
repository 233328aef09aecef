package wallet

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	mapset "github.com/deckarep/golang-set"
	"golang.org/x/sync/singleflight"
)

// Factory creates a provider on first use
type Factory func(ctx context.Context) (Provider, error)

type entry struct {
	factory Factory

	mu       sync.Mutex // guards provider, never held while the factory runs
	provider Provider
}

func (e *entry) loaded() Provider {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.provider
}

// Registry wallet providers by id, instantiated lazily and cached for the
// registry lifetime.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ids     mapset.Set

	creating singleflight.Group
}

// NewRegistry new registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		ids:     mapset.NewSet(),
	}
}

// Register register provider factory
func (r *Registry) Register(id string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ids.Add(id) {
		return fmt.Errorf("%w: %v", ErrProviderRegistered, id)
	}
	r.entries[id] = &entry{factory: factory}
	log.Info("register wallet provider", "id", id)
	return nil
}

// IDs registered ids in order
func (r *Registry) IDs() []string {
	ids := make([]string, 0, r.ids.Cardinality())
	for _, id := range r.ids.ToSlice() {
		ids = append(ids, id.(string))
	}
	sort.Strings(ids)
	return ids
}

// Has is registered
func (r *Registry) Has(id string) bool {
	return r.ids.Contains(id)
}

// Get get provider, creates it on first call. Concurrent callers share one
// factory call which runs with the ctx of the first caller, a caller whose
// ctx is done returns early without waiting for it.
func (r *Registry) Get(ctx context.Context, id string) (Provider, error) {
	r.mu.RLock()
	e, exist := r.entries[id]
	r.mu.RUnlock()
	if !exist {
		return nil, fmt.Errorf("%w: %v", tokens.ErrProviderNotFound, id)
	}
	if provider := e.loaded(); provider != nil {
		return provider, nil
	}

	ch := r.creating.DoChan(id, func() (interface{}, error) {
		if provider := e.loaded(); provider != nil {
			return provider, nil
		}
		provider, err := e.factory(ctx)
		if err != nil {
			log.Warn("create wallet provider failed", "id", id, "err", err)
			return nil, err
		}
		e.mu.Lock()
		e.provider = provider
		e.mu.Unlock()
		log.Info("create wallet provider success", "id", id)
		return provider, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Provider), nil
	}
}

// Loaded providers created so far
func (r *Registry) Loaded() []Provider {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, id := range r.idsLocked() {
		entries = append(entries, r.entries[id])
	}
	r.mu.RUnlock()

	providers := make([]Provider, 0, len(entries))
	for _, e := range entries {
		if provider := e.loaded(); provider != nil {
			providers = append(providers, provider)
		}
	}
	return providers
}

func (r *Registry) idsLocked() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close disconnect every created provider
func (r *Registry) Close(ctx context.Context) error {
	var firstErr error
	for _, provider := range r.Loaded() {
		d, ok := provider.(Disconnecter)
		if !ok {
			continue
		}
		if err := d.Disconnect(ctx); err != nil {
			log.Warn("disconnect wallet provider failed", "id", provider.ID(), "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
