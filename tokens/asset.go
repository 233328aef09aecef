package tokens

import (
	"fmt"
	"strings"
)

// AssetVariant on-chain encoding of one economic asset
type AssetVariant int

// asset variants
const (
	Layer1Variant  AssetVariant = iota // CHAIN.SYMBOL
	SynthVariant                       // CHAIN/SYMBOL
	TradeVariant                       // CHAIN~SYMBOL
	SecuredVariant                     // CHAIN-SYMBOL
)

func (v AssetVariant) delimiter() string {
	switch v {
	case SynthVariant:
		return "/"
	case TradeVariant:
		return "~"
	case SecuredVariant:
		return "-"
	default:
		return "."
	}
}

func (v AssetVariant) String() string {
	switch v {
	case SynthVariant:
		return "synth"
	case TradeVariant:
		return "trade"
	case SecuredVariant:
		return "secured"
	default:
		return "layer1"
	}
}

// Asset chain asset
type Asset struct {
	Chain    Chain
	Symbol   string // ticker with optional contract suffix, eg. USDC-0XA0B8...
	Ticker   string
	Contract string `json:",omitempty"`
	Decimals uint8
	Variant  AssetVariant

	// DecimalsKnown is false for tokens of external chains until their
	// native decimals are supplied by WithDecimals
	DecimalsKnown bool `json:"-"`
}

// ParseAsset parse asset string `CHAIN<delim>SYMBOL[-CONTRACT]`
func ParseAsset(s string) (*Asset, error) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, "./~-")
	if idx <= 0 || idx == len(s)-1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, s)
	}
	var variant AssetVariant
	switch s[idx] {
	case '/':
		variant = SynthVariant
	case '~':
		variant = TradeVariant
	case '-':
		variant = SecuredVariant
	default:
		variant = Layer1Variant
	}
	chain, err := ParseChain(s[:idx])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, s)
	}
	symbol := strings.ToUpper(s[idx+1:])
	ticker, contract := symbol, ""
	if pos := strings.Index(symbol, "-"); pos >= 0 {
		ticker, contract = symbol[:pos], s[idx+1+pos+1:]
		if ticker == "" || contract == "" {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, s)
		}
	}
	asset := &Asset{
		Chain:    chain,
		Symbol:   symbol,
		Ticker:   ticker,
		Contract: contract,
		Variant:  variant,
		Decimals: CanonicalDecimals,

		DecimalsKnown: true,
	}
	switch {
	case variant != Layer1Variant, chain == HubChain:
	case asset.IsGasAsset():
		asset.Decimals = MustGetNetwork(chain).GasDecimals
	default:
		asset.Decimals = 0
		asset.DecimalsKnown = false
	}
	return asset, nil
}

// MustParseAsset parse asset, panics on error
func MustParseAsset(s string) *Asset {
	asset, err := ParseAsset(s)
	if err != nil {
		panic(err)
	}
	return asset
}

// WithDecimals returns a copy with native decimals
func (a *Asset) WithDecimals(decimals uint8) *Asset {
	cpy := *a
	cpy.Decimals = decimals
	cpy.DecimalsKnown = true
	return &cpy
}

// String implements fmt.Stringer
func (a *Asset) String() string {
	if a.Contract != "" {
		return fmt.Sprintf("%v%v%v-%v", a.Chain, a.Variant.delimiter(), a.Ticker, a.Contract)
	}
	return fmt.Sprintf("%v%v%v", a.Chain, a.Variant.delimiter(), a.Symbol)
}

// IsGasAsset is the gas asset of its chain
func (a *Asset) IsGasAsset() bool {
	network, err := GetNetwork(a.Chain)
	if err != nil {
		return false
	}
	return a.Variant == Layer1Variant && strings.EqualFold(network.GasAsset, fmt.Sprintf("%v.%v", a.Chain, a.Symbol))
}

// IsSecured is secured variant
func (a *Asset) IsSecured() bool {
	return a.Variant == SecuredVariant
}

// IsHubNative is the native asset of the hub chain
func (a *Asset) IsHubNative() bool {
	return a.Chain == HubChain && a.IsGasAsset()
}

// IsLayer1 is layer1 variant
func (a *Asset) IsLayer1() bool {
	return a.Variant == Layer1Variant
}

// Equal is same asset
func (a *Asset) Equal(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Variant == other.Variant && a.Chain == other.Chain && strings.EqualFold(a.Symbol, other.Symbol)
}

// CosmosDenom denom used in cosmos coins
func (a *Asset) CosmosDenom() string {
	if a.IsGasAsset() {
		if network, err := GetNetwork(a.Chain); err == nil && network.GasDenom != "" {
			return network.GasDenom
		}
	}
	if a.Variant == Layer1Variant && a.Contract != "" {
		return a.Contract
	}
	return strings.ToLower(a.String())
}
