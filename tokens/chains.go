package tokens

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/anyswap/CrossChain-Wallet/common"
)

// Chain chain identifier
type Chain string

// supported chains
const (
	BTC  Chain = "BTC"
	LTC  Chain = "LTC"
	BCH  Chain = "BCH"
	DOGE Chain = "DOGE"
	GAIA Chain = "GAIA"
	THOR Chain = "THOR"
	ETH  Chain = "ETH"
	AVAX Chain = "AVAX"
	BSC  Chain = "BSC"
	BASE Chain = "BASE"
	TRON Chain = "TRON"
	XRP  Chain = "XRP"

	// HubChain is the chain holding secured assets and liquidity pools
	HubChain = THOR
)

// Family chain family
type Family int

// chain families
const (
	UnknownFamily Family = iota
	UTXOFamily
	CosmosFamily
	EVMFamily
	TronFamily
	XRPFamily
)

func (f Family) String() string {
	switch f {
	case UTXOFamily:
		return "utxo"
	case CosmosFamily:
		return "cosmos"
	case EVMFamily:
		return "evm"
	case TronFamily:
		return "tron"
	case XRPFamily:
		return "xrp"
	default:
		return "unknown"
	}
}

// Network static per chain metadata
type Network struct {
	Chain         Chain
	Family        Family
	GasAsset      string
	GasDecimals   uint8
	GasDenom      string        `json:",omitempty"` // cosmos family
	Bech32Prefix  string        `json:",omitempty"` // cosmos family
	CosmosChainID string        `json:",omitempty"` // cosmos family
	EVMChainID    int64         `json:",omitempty"` // evm family
	BlockTime     time.Duration // confirmation latency
	ExplorerTxURL string
}

var networks = map[Chain]*Network{
	BTC: {
		Chain: BTC, Family: UTXOFamily, GasAsset: "BTC.BTC", GasDecimals: 8,
		BlockTime: 10 * time.Minute, ExplorerTxURL: "https://mempool.space/tx/%s",
	},
	LTC: {
		Chain: LTC, Family: UTXOFamily, GasAsset: "LTC.LTC", GasDecimals: 8,
		BlockTime: 150 * time.Second, ExplorerTxURL: "https://blockchair.com/litecoin/transaction/%s",
	},
	BCH: {
		Chain: BCH, Family: UTXOFamily, GasAsset: "BCH.BCH", GasDecimals: 8,
		BlockTime: 10 * time.Minute, ExplorerTxURL: "https://blockchair.com/bitcoin-cash/transaction/%s",
	},
	DOGE: {
		Chain: DOGE, Family: UTXOFamily, GasAsset: "DOGE.DOGE", GasDecimals: 8,
		BlockTime: time.Minute, ExplorerTxURL: "https://blockchair.com/dogecoin/transaction/%s",
	},
	GAIA: {
		Chain: GAIA, Family: CosmosFamily, GasAsset: "GAIA.ATOM", GasDecimals: 6,
		GasDenom: "uatom", Bech32Prefix: "cosmos", CosmosChainID: "cosmoshub-4",
		BlockTime: 6 * time.Second, ExplorerTxURL: "https://www.mintscan.io/cosmos/txs/%s",
	},
	THOR: {
		Chain: THOR, Family: CosmosFamily, GasAsset: "THOR.RUNE", GasDecimals: 8,
		GasDenom: "rune", Bech32Prefix: "thor", CosmosChainID: "thorchain-1",
		BlockTime: 6 * time.Second, ExplorerTxURL: "https://runescan.io/tx/%s",
	},
	ETH: {
		Chain: ETH, Family: EVMFamily, GasAsset: "ETH.ETH", GasDecimals: 18, EVMChainID: 1,
		BlockTime: 12 * time.Second, ExplorerTxURL: "https://etherscan.io/tx/%s",
	},
	AVAX: {
		Chain: AVAX, Family: EVMFamily, GasAsset: "AVAX.AVAX", GasDecimals: 18, EVMChainID: 43114,
		BlockTime: 2 * time.Second, ExplorerTxURL: "https://snowtrace.io/tx/%s",
	},
	BSC: {
		Chain: BSC, Family: EVMFamily, GasAsset: "BSC.BNB", GasDecimals: 18, EVMChainID: 56,
		BlockTime: 3 * time.Second, ExplorerTxURL: "https://bscscan.com/tx/%s",
	},
	BASE: {
		Chain: BASE, Family: EVMFamily, GasAsset: "BASE.ETH", GasDecimals: 18, EVMChainID: 8453,
		BlockTime: 2 * time.Second, ExplorerTxURL: "https://basescan.org/tx/%s",
	},
	TRON: {
		Chain: TRON, Family: TronFamily, GasAsset: "TRON.TRX", GasDecimals: 6,
		BlockTime: 3 * time.Second, ExplorerTxURL: "https://tronscan.org/#/transaction/%s",
	},
	XRP: {
		Chain: XRP, Family: XRPFamily, GasAsset: "XRP.XRP", GasDecimals: 6,
		BlockTime: 4 * time.Second, ExplorerTxURL: "https://livenet.xrpl.org/transactions/%s",
	},
}

var orderedChains = []Chain{BTC, LTC, BCH, DOGE, GAIA, THOR, ETH, AVAX, BSC, BASE, TRON, XRP}

// ParseChain parse chain identifier (case insensitive)
func ParseChain(s string) (Chain, error) {
	chain := Chain(strings.ToUpper(strings.TrimSpace(s)))
	if _, exist := networks[chain]; !exist {
		return "", fmt.Errorf("%w: %v", ErrUnknownChain, s)
	}
	return chain, nil
}

// GetNetwork get network of chain
func GetNetwork(chain Chain) (*Network, error) {
	if network, exist := networks[chain]; exist {
		return network, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownChain, chain)
}

// MustGetNetwork get network of known chain, panics otherwise
func MustGetNetwork(chain Chain) *Network {
	network, err := GetNetwork(chain)
	if err != nil {
		panic(err)
	}
	return network
}

// AllNetworks all networks in registration order
func AllNetworks() []*Network {
	result := make([]*Network, 0, len(orderedChains))
	for _, chain := range orderedChains {
		result = append(result, networks[chain])
	}
	return result
}

// FamilyOf family of chain
func FamilyOf(chain Chain) Family {
	if network, exist := networks[chain]; exist {
		return network.Family
	}
	return UnknownFamily
}

// String implements fmt.Stringer
func (c Chain) String() string {
	return string(c)
}

// GetEVMChainID get evm chain id as big int
func (n *Network) GetEVMChainID() *big.Int {
	return big.NewInt(n.EVMChainID)
}

// GetGasAsset get gas asset of network
func (n *Network) GetGasAsset() *Asset {
	asset, err := ParseAsset(n.GasAsset)
	if err != nil {
		panic(err)
	}
	return asset
}

// GetExplorerTxURL get explorer url of tx
func (n *Network) GetExplorerTxURL(txHash string) string {
	return fmt.Sprintf(n.ExplorerTxURL, txHash)
}

// IsValidAddress is valid address on network
func (n *Network) IsValidAddress(address string) bool {
	switch n.Family {
	case UTXOFamily:
		return isValidUtxoAddress(n.Chain, address)
	case CosmosFamily:
		return isValidBech32Address(n.Bech32Prefix, address)
	case EVMFamily:
		return isValidEvmAddress(address)
	case TronFamily:
		return isValidTronAddress(address)
	case XRPFamily:
		return IsValidXrpAddress(address)
	default:
		return false
	}
}

// EqualAddress compare addresses, evm addresses are case insensitive
func (n *Network) EqualAddress(a, b string) bool {
	if n.Family == EVMFamily {
		return common.IsEqualIgnoreCase(a, b)
	}
	return a == b
}
