package tokens

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAsset(t *testing.T) {
	cases := []struct {
		input string
		want  *Asset
	}{
		{"BTC.BTC", &Asset{Chain: BTC, Symbol: "BTC", Ticker: "BTC", Decimals: 8, Variant: Layer1Variant, DecimalsKnown: true}},
		{"eth.eth", &Asset{Chain: ETH, Symbol: "ETH", Ticker: "ETH", Decimals: 18, Variant: Layer1Variant, DecimalsKnown: true}},
		{"ETH.USDC-0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", &Asset{
			Chain: ETH, Symbol: "USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", Ticker: "USDC",
			Contract: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Variant: Layer1Variant,
		}},
		{"BTC-BTC", &Asset{Chain: BTC, Symbol: "BTC", Ticker: "BTC", Decimals: 8, Variant: SecuredVariant, DecimalsKnown: true}},
		{"BTC/BTC", &Asset{Chain: BTC, Symbol: "BTC", Ticker: "BTC", Decimals: 8, Variant: SynthVariant, DecimalsKnown: true}},
		{"ETH~ETH", &Asset{Chain: ETH, Symbol: "ETH", Ticker: "ETH", Decimals: 8, Variant: TradeVariant, DecimalsKnown: true}},
		{"GAIA.ATOM", &Asset{Chain: GAIA, Symbol: "ATOM", Ticker: "ATOM", Decimals: 6, Variant: Layer1Variant, DecimalsKnown: true}},
		{"THOR.TCY", &Asset{Chain: THOR, Symbol: "TCY", Ticker: "TCY", Decimals: 8, Variant: Layer1Variant, DecimalsKnown: true}},
	}
	for _, c := range cases {
		got, err := ParseAsset(c.input)
		if err != nil {
			t.Fatalf("ParseAsset(%q) failed: %v", c.input, err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Fatalf("ParseAsset(%q) mismatch (-want +got):\n%s", c.input, diff)
		}
	}

	for _, bad := range []string{"", "BTC", ".BTC", "BTC.", "FOO.BAR", "ETH.USDC-"} {
		if _, err := ParseAsset(bad); err == nil {
			t.Fatalf("ParseAsset(%q) expected error, but got nil", bad)
		}
	}
}

func TestAssetProperties(t *testing.T) {
	rune := MustParseAsset("THOR.RUNE")
	if !rune.IsHubNative() || !rune.IsGasAsset() || rune.CosmosDenom() != "rune" {
		t.Fatalf("THOR.RUNE expected hub native gas asset with denom rune, but got %+v", rune)
	}
	secured := MustParseAsset("BTC-BTC")
	if !secured.IsSecured() || secured.IsGasAsset() || secured.CosmosDenom() != "btc-btc" {
		t.Fatalf("BTC-BTC expected secured non gas asset, but got %+v", secured)
	}
	if secured.String() != "BTC-BTC" || MustParseAsset("BTC/BTC").String() != "BTC/BTC" {
		t.Fatalf("asset string round trip failed")
	}
	usdc := MustParseAsset("ETH.USDC-0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if usdc.String() != "ETH.USDC-0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48" {
		t.Fatalf("token asset string expected original contract case, but got %v", usdc)
	}
	if usdc.DecimalsKnown || !usdc.WithDecimals(6).DecimalsKnown || usdc.WithDecimals(6).Decimals != 6 {
		t.Fatalf("token decimals expected unknown until supplied, but got %+v", usdc)
	}
	if !MustParseAsset("ETH.ETH").Equal(MustParseAsset("eth.eth")) || MustParseAsset("BTC.BTC").Equal(secured) {
		t.Fatalf("asset equality failed")
	}
}
