// Package session keeps connected wallet accounts and the selected account
// of each chain, persisted across restarts.
package session

import (
	"fmt"
	"sort"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"golang.org/x/exp/slices"
)

// Status session status
type Status int

// session statuses
const (
	Disconnected Status = iota
	Connecting
	Connected
	Selected
)

func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State immutable session snapshot, never modify a published state
type State struct {
	Status    Status                             `json:"status"`
	Accounts  []*wallet.AccountContext           `json:"accounts"`
	Selected  map[tokens.Chain]tokens.AccountRef `json:"selected"`
	Providers []string                           `json:"providers"`
}

var emptyState = &State{Selected: map[tokens.Chain]tokens.AccountRef{}}

func (s *State) clone() *State {
	selected := make(map[tokens.Chain]tokens.AccountRef, len(s.Selected))
	for chain, ref := range s.Selected {
		selected[chain] = ref
	}
	return &State{
		Status:    s.Status,
		Accounts:  slices.Clone(s.Accounts),
		Selected:  selected,
		Providers: slices.Clone(s.Providers),
	}
}

// Find find account by reference
func (s *State) Find(ref tokens.AccountRef) *wallet.AccountContext {
	for _, account := range s.Accounts {
		if ref.Matches(&account.Account) {
			return account
		}
	}
	return nil
}

// AccountsOf accounts on chain
func (s *State) AccountsOf(chain tokens.Chain) []*wallet.AccountContext {
	var result []*wallet.AccountContext
	for _, account := range s.Accounts {
		if account.Chain == chain {
			result = append(result, account)
		}
	}
	return result
}

// HasProvider provider is connected
func (s *State) HasProvider(id string) bool {
	return slices.Contains(s.Providers, id)
}

// Persisted returns the persisted part of state
func (s *State) Persisted() *Persisted {
	p := &Persisted{
		Providers: slices.Clone(s.Providers),
		Selected:  make(map[tokens.Chain]tokens.AccountRef, len(s.Selected)),
	}
	for chain, ref := range s.Selected {
		p.Selected[chain] = ref
	}
	return p
}

// withProviderAccounts replaces the accounts of provider
func (s *State) withProviderAccounts(id string, accounts []*wallet.AccountContext) *State {
	next := s.clone()
	next.Accounts = next.Accounts[:0:0]
	for _, account := range s.Accounts {
		if account.Provider != id {
			next.Accounts = append(next.Accounts, account)
		}
	}
	next.Accounts = append(next.Accounts, accounts...)
	if accounts != nil && !next.HasProvider(id) {
		next.Providers = append(next.Providers, id)
		sort.Strings(next.Providers)
	}
	return next
}

// withoutProvider removes provider, its accounts and selections
func (s *State) withoutProvider(id string) *State {
	next := s.withProviderAccounts(id, nil)
	if i := slices.Index(next.Providers, id); i >= 0 {
		next.Providers = slices.Delete(next.Providers, i, i+1)
	}
	for chain, ref := range next.Selected {
		if ref.Provider == id {
			delete(next.Selected, chain)
		}
	}
	return next
}

// reconcile keeps selections still present, a stale selection on the
// required chain falls back to any account on it, others are dropped
func (s *State) reconcile(previous map[tokens.Chain]tokens.AccountRef, required tokens.Chain) {
	s.Selected = make(map[tokens.Chain]tokens.AccountRef, len(previous))
	for chain, ref := range previous {
		if s.Find(ref) != nil {
			s.Selected[chain] = ref
		}
	}
	if required == "" {
		return
	}
	if _, exist := s.Selected[required]; exist {
		return
	}
	if candidates := s.AccountsOf(required); len(candidates) > 0 {
		s.Selected[required] = candidates[0].Ref()
	}
}

// selectDefaults selects the first account of chains without selection
func (s *State) selectDefaults() {
	for _, account := range s.Accounts {
		if _, exist := s.Selected[account.Chain]; !exist {
			s.Selected[account.Chain] = account.Ref()
		}
	}
}

func (s *State) updateStatus() {
	switch {
	case len(s.Accounts) == 0:
		s.Status = Disconnected
	case len(s.Selected) == 0:
		s.Status = Connected
	default:
		s.Status = Selected
	}
}

// Persisted persisted session
type Persisted struct {
	Providers []string                           `json:"providers" bson:"providers"`
	Selected  map[tokens.Chain]tokens.AccountRef `json:"selected" bson:"selected"`
}
