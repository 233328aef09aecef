package message

import (
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/tokens"
)

// CosmosKind kind of cosmos encode object
type CosmosKind int

// cosmos intent kinds
const (
	BankSendKind CosmosKind = iota
	HubDepositKind
	IbcTransferKind
)

func (k CosmosKind) String() string {
	switch k {
	case HubDepositKind:
		return "deposit"
	case IbcTransferKind:
		return "ibc-transfer"
	default:
		return "send"
	}
}

// Coin amount of asset in native units
type Coin struct {
	Asset  *tokens.Asset
	Amount *big.Int
}

// Denom cosmos denom of coin
func (c *Coin) Denom() string {
	return c.Asset.CosmosDenom()
}

// IbcParams ibc transfer parameters
type IbcParams struct {
	SourcePort    string
	SourceChannel string
	Receiver      string
	TimeoutNanos  uint64
}

// CosmosIntent cosmos encode object
type CosmosIntent struct {
	Kind      CosmosKind
	Chain     tokens.Chain
	From      string
	To        string
	Coins     []*Coin
	Memo      string
	IBC       *IbcParams
	Deposited *tokens.Deposited
}

// EvmKind kind of evm transaction request
type EvmKind int

// evm intent kinds
const (
	NativeTransfer EvmKind = iota
	Erc20Transfer
	RouterDeposit
	ContractCall
)

func (k EvmKind) String() string {
	switch k {
	case Erc20Transfer:
		return "erc20-transfer"
	case RouterDeposit:
		return "router-deposit"
	case ContractCall:
		return "contract-call"
	default:
		return "native-transfer"
	}
}

// AllowanceRequirement erc20 allowance needed before sending
type AllowanceRequirement struct {
	Token    string
	Owner    string
	Spender  string
	Required *big.Int
}

// EvmIntent evm transaction request
type EvmIntent struct {
	Kind      EvmKind
	Chain     tokens.Chain
	From      string
	To        string // recipient or contract
	Token     string // erc20 contract, empty for gas asset
	Vault     string
	Router    string
	Amount    *big.Int
	Memo      string
	Data      []byte
	Allowance *AllowanceRequirement
	Deposited *tokens.Deposited
}

// IsGasAsset transfers the gas asset
func (i *EvmIntent) IsGasAsset() bool {
	return i.Token == ""
}

// UtxoIntent utxo payment
type UtxoIntent struct {
	Chain     tokens.Chain
	From      string
	Recipient string
	Amount    *big.Int
	Memo      string
	FeeRate   *big.Int // nil means query from chain
	Deposited *tokens.Deposited
}

// XrpIntent xrp payment
type XrpIntent struct {
	From           string
	Destination    string
	DestinationTag *uint32
	Amount         *big.Int // drops
	Memo           string
	Deposited      *tokens.Deposited
}

// TronKind kind of tron transfer
type TronKind int

// tron intent kinds
const (
	TrxTransfer TronKind = iota
	Trc20Transfer
)

// TronIntent tron transfer
type TronIntent struct {
	Kind      TronKind
	From      string
	To        string
	Contract  string
	Amount    *big.Int
	Memo      string
	Deposited *tokens.Deposited
}
