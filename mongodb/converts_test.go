package mongodb

import (
	"testing"

	"github.com/anyswap/CrossChain-Wallet/session"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/google/go-cmp/cmp"
)

func TestConvertSession(t *testing.T) {
	p := &session.Persisted{
		Providers: []string{"keystore", "remote"},
		Selected: map[tokens.Chain]tokens.AccountRef{
			tokens.ETH: {Chain: tokens.ETH, Address: "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", Provider: "keystore"},
			tokens.XRP: {Chain: tokens.XRP, Address: "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", Provider: "remote"},
		},
	}
	ms := ConvertFromSession("xwallet", p, 1000)
	if ms.Key != "xwallet" || ms.Selected["ETH"].Provider != "keystore" {
		t.Fatalf("convert from session got %+v", ms)
	}
	if diff := cmp.Diff(p, ConvertToSession(ms)); diff != "" {
		t.Fatalf("convert session mismatch (-want +got):\n%s", diff)
	}

	empty := ConvertFromSession("xwallet", &session.Persisted{}, 0)
	if empty.Providers == nil || empty.Selected == nil {
		t.Fatalf("empty session must keep non nil fields, got %+v", empty)
	}
}
