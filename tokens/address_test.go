package tokens

import (
	"bytes"
	"testing"

	"github.com/cosmos/cosmos-sdk/types/bech32"
)

func mustBech32(t *testing.T, prefix string) string {
	addr, err := bech32.ConvertAndEncode(prefix, bytes.Repeat([]byte{0x11}, 20))
	if err != nil {
		t.Fatalf("encode bech32 failed: %v", err)
	}
	return addr
}

func TestIsValidAddress(t *testing.T) {
	thorAddr := mustBech32(t, "thor")
	cosmosAddr := mustBech32(t, "cosmos")
	cases := []struct {
		chain   Chain
		address string
		valid   bool
	}{
		{BTC, "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", true},
		{BTC, "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh", true},
		{BTC, "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb", false},
		{BTC, "0x52908400098527886E0F7030069857D2E4169EE7", false},
		{THOR, thorAddr, true},
		{THOR, cosmosAddr, false},
		{GAIA, cosmosAddr, true},
		{ETH, "0x52908400098527886E0F7030069857D2E4169EE7", true},
		{ETH, "52908400098527886E0F7030069857D2E4169EE7", false},
		{BSC, "0x1234", false},
		{TRON, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", true},
		{TRON, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6u", false},
		{XRP, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", true},
		{XRP, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh:12345", true},
		{XRP, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTi", false},
		{XRP, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh:abc", false},
	}
	for _, c := range cases {
		network := MustGetNetwork(c.chain)
		if got := network.IsValidAddress(c.address); got != c.valid {
			t.Fatalf("%v address %v expected valid %v, but got %v", c.chain, c.address, c.valid, got)
		}
	}
}

func TestXrpAccountIDRoundTrip(t *testing.T) {
	zero := make([]byte, 20)
	address := EncodeXrpAccountID(zero)
	if address != "rrrrrrrrrrrrrrrrrrrrrhoLvTp" {
		t.Fatalf("account zero expected rrrrrrrrrrrrrrrrrrrrrhoLvTp, but got %v", address)
	}
	decoded, err := DecodeXrpAccountID(address)
	if err != nil || !bytes.Equal(decoded, zero) {
		t.Fatalf("decode account zero failed: %v", err)
	}
	_, tag, err := SplitXrpAddress("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh:42")
	if err != nil || tag == nil || *tag != 42 {
		t.Fatalf("split xrp address expected tag 42, but got %v (err %v)", tag, err)
	}
}

func TestNetworkRegistry(t *testing.T) {
	if len(AllNetworks()) != len(orderedChains) {
		t.Fatalf("expected %v networks, but got %v", len(orderedChains), len(AllNetworks()))
	}
	if _, err := GetNetwork("SOL"); err == nil {
		t.Fatalf("expected unknown chain error")
	}
	chain, err := ParseChain(" thor ")
	if err != nil || chain != HubChain {
		t.Fatalf("ParseChain expected THOR, but got %v (err %v)", chain, err)
	}
	if FamilyOf(ETH) != EVMFamily || FamilyOf(XRP) != XRPFamily {
		t.Fatalf("wrong family")
	}
	if url := MustGetNetwork(BTC).GetExplorerTxURL("abc"); url != "https://mempool.space/tx/abc" {
		t.Fatalf("wrong explorer url %v", url)
	}
}
