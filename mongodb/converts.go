package mongodb

import (
	"github.com/anyswap/CrossChain-Wallet/session"
	"github.com/anyswap/CrossChain-Wallet/tokens"
)

// ConvertToSession convert
func ConvertToSession(ms *MgoSession) *session.Persisted {
	p := &session.Persisted{
		Providers: ms.Providers,
		Selected:  make(map[tokens.Chain]tokens.AccountRef, len(ms.Selected)),
	}
	for chain, ref := range ms.Selected {
		if ref == nil {
			continue
		}
		p.Selected[tokens.Chain(chain)] = tokens.AccountRef{
			Chain:    tokens.Chain(ref.Chain),
			Address:  ref.Address,
			Provider: ref.Provider,
		}
	}
	return p
}

// ConvertFromSession convert
func ConvertFromSession(key string, p *session.Persisted, timestamp int64) *MgoSession {
	ms := &MgoSession{
		Key:       key,
		Providers: p.Providers,
		Selected:  make(map[string]*MgoAccountRef, len(p.Selected)),
		Timestamp: timestamp,
	}
	if ms.Providers == nil {
		ms.Providers = []string{}
	}
	for chain, ref := range p.Selected {
		ms.Selected[string(chain)] = &MgoAccountRef{
			Chain:    string(ref.Chain),
			Address:  ref.Address,
			Provider: ref.Provider,
		}
	}
	return ms
}
