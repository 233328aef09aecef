package walletapi

import (
	"fmt"
	"sync"
	"time"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/pborman/uuid"
)

// DefaultSimulationTTL lifetime of a pending simulation
const DefaultSimulationTTL = 5 * time.Minute

// DefaultInboundMaxAge age after which the inbound address captured at
// simulation must be resupplied at signing, vaults rotate on churn
const DefaultInboundMaxAge = time.Minute

type pendingSimulation struct {
	sim      *tokens.Simulation
	account  tokens.AccountRef
	msg      message.Message
	inbound  *tokens.InboundAddress
	created  time.Time
	consumed bool
}

// PendingSimulations simulations waiting to be signed, each is consumed at most once
type PendingSimulations struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]*pendingSimulation

	inboundMaxAge time.Duration

	now func() time.Time
}

// NewPendingSimulations new pending simulations
func NewPendingSimulations(ttl time.Duration) *PendingSimulations {
	if ttl <= 0 {
		ttl = DefaultSimulationTTL
	}
	inboundMaxAge := DefaultInboundMaxAge
	if ttl < inboundMaxAge {
		inboundMaxAge = ttl
	}
	return &PendingSimulations{
		ttl:   ttl,
		items: make(map[string]*pendingSimulation),
		now:   time.Now,

		inboundMaxAge: inboundMaxAge,
	}
}

// Add add simulation and return its id
func (p *PendingSimulations) Add(sim *tokens.Simulation, account tokens.AccountRef, msg message.Message, inbound *tokens.InboundAddress) string {
	id := uuid.New()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[id] = &pendingSimulation{
		sim:     sim,
		account: account,
		msg:     msg,
		inbound: inbound,
		created: p.now(),
	}
	return id
}

// Take consume simulation of id. A non nil inbound replaces the one captured
// at simulation, which is only reused while younger than the inbound max age.
// A rejected take leaves the simulation pending.
func (p *PendingSimulations) Take(id string, inbound *tokens.InboundAddress) (*pendingSimulation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, exist := p.items[id]
	if !exist || p.expired(item) {
		return nil, tokens.ErrSimulationNotFound
	}
	if item.consumed {
		return nil, tokens.ErrSimulationConsumed
	}
	switch {
	case inbound == nil:
		if item.inbound != nil && p.now().Sub(item.created) > p.inboundMaxAge {
			return nil, fmt.Errorf("%w: inbound address of simulation %v is older than %v", tokens.ErrInvalidInbound, id, p.inboundMaxAge)
		}
	case item.inbound != nil && inbound.Chain != item.inbound.Chain:
		return nil, fmt.Errorf("%w: inbound chain %v, simulated with %v", tokens.ErrInvalidInbound, inbound.Chain, item.inbound.Chain)
	}
	item.consumed = true
	taken := *item
	if inbound != nil {
		taken.inbound = inbound
	}
	return &taken, nil
}

func (p *PendingSimulations) expired(item *pendingSimulation) bool {
	return p.now().Sub(item.created) > p.ttl
}

// Expire remove expired simulations, returns the removed count
func (p *PendingSimulations) Expire() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for id, item := range p.items {
		if p.expired(item) {
			delete(p.items, id)
			count++
		}
	}
	return count
}

// Len count of kept simulations
func (p *PendingSimulations) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// TTL lifetime of a simulation
func (p *PendingSimulations) TTL() time.Duration {
	return p.ttl
}
