package walletapi

import (
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ServerInfo serverinfo
type ServerInfo struct {
	Identifier string
	Version    string
	Providers  []string
}

// NetworkInfo network info
type NetworkInfo struct {
	Chain         tokens.Chain `json:"chain"`
	Family        string       `json:"family"`
	GasAsset      string       `json:"gasAsset"`
	GasDecimals   uint8        `json:"gasDecimals"`
	CosmosChainID string       `json:"cosmosChainID,omitempty"`
	EVMChainID    int64        `json:"evmChainID,omitempty"`
	Gateway       bool         `json:"gateway"`
}

// AccountInfo account info
type AccountInfo struct {
	Chain    tokens.Chain `json:"chain"`
	Address  string       `json:"address"`
	Provider string       `json:"provider"`
	Kind     string       `json:"kind"`
	Selected bool         `json:"selected"`
}

// ProviderInfo provider info
type ProviderInfo struct {
	ID        string `json:"id"`
	Connected bool   `json:"connected"`
}

// StateInfo session state info
type StateInfo struct {
	Status    string                             `json:"status"`
	Providers []string                           `json:"providers"`
	Selected  map[tokens.Chain]tokens.AccountRef `json:"selected"`
	Accounts  []*AccountInfo                     `json:"accounts"`
}

// message types
const (
	DepositMessage           = "deposit"
	SendMessage              = "send"
	SwapMessage              = "swap"
	AddLiquidityMessage      = "add-liquidity"
	WithdrawLiquidityMessage = "withdraw-liquidity"
	ExecuteMessage           = "execute"
	IbcTransferMessage       = "ibc-transfer"
	SecureDepositMessage     = "secure-deposit"
	SecureWithdrawMessage    = "secure-withdraw"
	SwitchMessage            = "switch"
)

// MessageArgs message args, amount is a decimal string of the asset unit.
// Decimals is required for tokens of external chains.
type MessageArgs struct {
	Type     string `json:"type"`
	Asset    string `json:"asset"`
	Decimals *uint8 `json:"decimals,omitempty"`
	Amount   string `json:"amount"`
	Memo     string `json:"memo,omitempty"`

	Recipient string `json:"recipient,omitempty"`

	Pool          string `json:"pool,omitempty"`
	PairedAddress string `json:"pairedAddress,omitempty"`
	Affiliate     string `json:"affiliate,omitempty"`
	AffiliateBps  uint32 `json:"affiliateBps,omitempty"`
	Bps           uint32 `json:"bps,omitempty"`

	Contract string        `json:"contract,omitempty"`
	Payload  hexutil.Bytes `json:"payload,omitempty"`

	HubAddress string `json:"hubAddress,omitempty"`
	Address    string `json:"address,omitempty"`

	SourcePort    string `json:"sourcePort,omitempty"`
	SourceChannel string `json:"sourceChannel,omitempty"`
	TimeoutNanos  uint64 `json:"timeoutNanos,omitempty"`
}

// SimulateArgs simulate args, chain defaults to the asset chain and address
// defaults to the selected account of chain
type SimulateArgs struct {
	Message MessageArgs            `json:"message"`
	Chain   string                 `json:"chain,omitempty"`
	Address string                 `json:"address,omitempty"`
	Inbound *tokens.InboundAddress `json:"inbound,omitempty"`
}

// memo types
const (
	AddLiquidityMemo   = "add"
	WithdrawMemo       = "withdraw"
	ExecuteMemo        = "execute"
	SwitchMemo         = "switch"
	SecureDepositMemo  = "secure-deposit"
	SecureWithdrawMemo = "secure-withdraw"
)

// BuildMemoArgs build memo args
type BuildMemoArgs struct {
	Type      string        `json:"type"`
	Pool      string        `json:"pool,omitempty"`
	Address   string        `json:"address,omitempty"`
	Affiliate string        `json:"affiliate,omitempty"`
	Bps       uint32        `json:"bps,omitempty"`
	Contract  string        `json:"contract,omitempty"`
	Payload   hexutil.Bytes `json:"payload,omitempty"`
}
