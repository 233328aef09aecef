// Package message models chain agnostic instructions and renders them into
// the transaction requests of each chain family.
package message

import (
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/tokens"
)

// Message chain agnostic instruction.
// The set of implementations is closed, each renders into every family or
// returns an *tokens.UnsupportedError.
type Message interface {
	Name() string
	GetAsset() *tokens.Asset
	GetAmount() *big.Int // canonical 8 decimals
	GetMemo() (string, error)

	ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error)
	ToEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error)
	ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error)
	ToXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error)
	ToTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error)

	sealed()
}

var (
	_ Message = (*Deposit)(nil)
	_ Message = (*Send)(nil)
	_ Message = (*Swap)(nil)
	_ Message = (*AddLiquidity)(nil)
	_ Message = (*WithdrawLiquidity)(nil)
	_ Message = (*Execute)(nil)
	_ Message = (*IbcTransfer)(nil)
	_ Message = (*SecureDeposit)(nil)
	_ Message = (*SecureWithdraw)(nil)
	_ Message = (*Switch)(nil)
)

type sealedMessage struct{}

func (sealedMessage) sealed() {}

func unsupported(m Message, target tokens.Family) error {
	return tokens.NewUnsupportedError(m.Name(), target)
}

// Deposit deposits asset into the protocol with a memo
type Deposit struct {
	sealedMessage
	Asset  *tokens.Asset
	Amount *big.Int
	Memo   string
}

// Name of message
func (m *Deposit) Name() string { return "deposit" }

// GetAsset get asset
func (m *Deposit) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *Deposit) GetAmount() *big.Int { return m.Amount }

// GetMemo get memo
func (m *Deposit) GetMemo() (string, error) { return m.Memo, nil }

// ToCosmos render to cosmos
func (m *Deposit) ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	return depositToCosmos(m, false, active, from, inbound)
}

// ToEvm render to evm
func (m *Deposit) ToEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	return depositToEvm(m, false, active, from, inbound)
}

// ToUtxo render to utxo
func (m *Deposit) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	return depositToUtxo(m, false, active, from, inbound)
}

// ToXrp render to xrp
func (m *Deposit) ToXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	return depositToXrp(m, false, active, from, inbound)
}

// ToTron render to tron
func (m *Deposit) ToTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	return depositToTron(m, false, active, from, inbound)
}

// Swap deposit with a memo supplied by an external quote, passed through unmodified
type Swap struct {
	sealedMessage
	Asset  *tokens.Asset
	Amount *big.Int
	Memo   string
}

// NewSwap new swap from quote
func NewSwap(asset *tokens.Asset, amount *big.Int, quote *tokens.Quote) *Swap {
	return &Swap{Asset: asset, Amount: amount, Memo: quote.Memo}
}

// Name of message
func (m *Swap) Name() string { return "swap" }

// GetAsset get asset
func (m *Swap) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *Swap) GetAmount() *big.Int { return m.Amount }

// GetMemo get memo
func (m *Swap) GetMemo() (string, error) {
	if m.Memo == "" {
		return "", fmt.Errorf("%w: swap requires a quoted memo", tokens.ErrInvalidMemo)
	}
	return m.Memo, nil
}

// ToCosmos render to cosmos
func (m *Swap) ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	return depositToCosmos(m, false, active, from, inbound)
}

// ToEvm render to evm
func (m *Swap) ToEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	return depositToEvm(m, false, active, from, inbound)
}

// ToUtxo render to utxo
func (m *Swap) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	return depositToUtxo(m, false, active, from, inbound)
}

// ToXrp render to xrp
func (m *Swap) ToXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	return depositToXrp(m, false, active, from, inbound)
}

// ToTron render to tron
func (m *Swap) ToTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	return depositToTron(m, false, active, from, inbound)
}

// AddLiquidity adds the pool asset or the hub native asset to a pool
type AddLiquidity struct {
	sealedMessage
	Pool          *tokens.Asset
	Asset         *tokens.Asset
	Amount        *big.Int
	PairedAddress string
	Affiliate     string
	AffiliateBps  uint32
}

// Name of message
func (m *AddLiquidity) Name() string { return "add-liquidity" }

// GetAsset get asset
func (m *AddLiquidity) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *AddLiquidity) GetAmount() *big.Int { return m.Amount }

// GetMemo build `+:` memo
func (m *AddLiquidity) GetMemo() (string, error) {
	if m.Pool == nil || m.Asset == nil {
		return "", tokens.ErrInvalidAsset
	}
	if !m.Asset.IsHubNative() && !m.Asset.Equal(m.Pool) {
		return "", fmt.Errorf("%w: cannot add %v to pool %v", tokens.ErrInvalidAsset, m.Asset, m.Pool)
	}
	return AddLiquidityMemo(m.Pool.String(), m.PairedAddress, m.Affiliate, m.AffiliateBps)
}

// ToCosmos render to cosmos
func (m *AddLiquidity) ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	return depositToCosmos(m, false, active, from, inbound)
}

// ToEvm render to evm
func (m *AddLiquidity) ToEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	return depositToEvm(m, false, active, from, inbound)
}

// ToUtxo render to utxo
func (m *AddLiquidity) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	return depositToUtxo(m, false, active, from, inbound)
}

// ToXrp render to xrp
func (m *AddLiquidity) ToXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	return depositToXrp(m, false, active, from, inbound)
}

// ToTron render to tron
func (m *AddLiquidity) ToTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	return depositToTron(m, false, active, from, inbound)
}

// WithdrawLiquidity withdraws basis points of a liquidity position.
// Amount is the dust sent along with the memo, zero is allowed.
type WithdrawLiquidity struct {
	sealedMessage
	Pool   *tokens.Asset
	Asset  *tokens.Asset
	Amount *big.Int
	Bps    uint32
}

// Name of message
func (m *WithdrawLiquidity) Name() string { return "withdraw-liquidity" }

// GetAsset get asset
func (m *WithdrawLiquidity) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *WithdrawLiquidity) GetAmount() *big.Int { return m.Amount }

// GetMemo build `-:` memo
func (m *WithdrawLiquidity) GetMemo() (string, error) {
	if m.Pool == nil {
		return "", tokens.ErrInvalidAsset
	}
	return WithdrawMemo(m.Pool.String(), m.Bps)
}

// ToCosmos render to cosmos
func (m *WithdrawLiquidity) ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	return depositToCosmos(m, true, active, from, inbound)
}

// ToEvm render to evm
func (m *WithdrawLiquidity) ToEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	return depositToEvm(m, true, active, from, inbound)
}

// ToUtxo render to utxo
func (m *WithdrawLiquidity) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	return depositToUtxo(m, true, active, from, inbound)
}

// ToXrp render to xrp
func (m *WithdrawLiquidity) ToXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	return depositToXrp(m, true, active, from, inbound)
}

// ToTron render to tron
func (m *WithdrawLiquidity) ToTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	return depositToTron(m, true, active, from, inbound)
}

// Execute calls a contract with an encoded payload.
// On evm it is a direct contract call, elsewhere an `x:` memo deposit.
type Execute struct {
	sealedMessage
	Asset    *tokens.Asset
	Amount   *big.Int
	Contract string
	Payload  []byte
}

// Name of message
func (m *Execute) Name() string { return "execute" }

// GetAsset get asset
func (m *Execute) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *Execute) GetAmount() *big.Int { return m.Amount }

// GetMemo build `x:` memo
func (m *Execute) GetMemo() (string, error) {
	return ExecuteMemo(m.Contract, m.Payload)
}

// ToCosmos render to cosmos
func (m *Execute) ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	return depositToCosmos(m, true, active, from, inbound)
}

// ToEvm render to a contract call
func (m *Execute) ToEvm(active tokens.Chain, from string, _ *tokens.InboundAddress) (*EvmIntent, error) {
	native, _, err := prepare(m.Name(), m.Asset, m.Amount, true, active, tokens.EVMFamily)
	if err != nil {
		return nil, err
	}
	if !tokens.MustGetNetwork(active).IsValidAddress(m.Contract) {
		return nil, fmt.Errorf("%w: contract %v", tokens.ErrInvalidAddress, m.Contract)
	}
	if !m.Asset.IsGasAsset() {
		return nil, unsupported(m, tokens.EVMFamily)
	}
	return &EvmIntent{
		Kind:   ContractCall,
		Chain:  active,
		From:   from,
		To:     m.Contract,
		Amount: native,
		Data:   m.Payload,
	}, nil
}

// ToUtxo render to utxo
func (m *Execute) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	return depositToUtxo(m, false, active, from, inbound)
}

// ToXrp is unsupported
func (m *Execute) ToXrp(tokens.Chain, string, *tokens.InboundAddress) (*XrpIntent, error) {
	return nil, unsupported(m, tokens.XRPFamily)
}

// ToTron is unsupported
func (m *Execute) ToTron(tokens.Chain, string, *tokens.InboundAddress) (*TronIntent, error) {
	return nil, unsupported(m, tokens.TronFamily)
}

// SecureDeposit deposits a layer1 asset and mints its secured variant to a hub address
type SecureDeposit struct {
	sealedMessage
	Asset      *tokens.Asset
	Amount     *big.Int
	HubAddress string
}

// Name of message
func (m *SecureDeposit) Name() string { return "secure-deposit" }

// GetAsset get asset
func (m *SecureDeposit) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *SecureDeposit) GetAmount() *big.Int { return m.Amount }

// GetMemo build `secure+:` memo
func (m *SecureDeposit) GetMemo() (string, error) {
	if m.Asset == nil || !m.Asset.IsLayer1() {
		return "", fmt.Errorf("%w: secure deposit needs a layer1 asset", tokens.ErrInvalidAsset)
	}
	if !tokens.MustGetNetwork(tokens.HubChain).IsValidAddress(m.HubAddress) {
		return "", fmt.Errorf("%w: hub address %v", tokens.ErrInvalidAddress, m.HubAddress)
	}
	return SecureDepositMemo(m.HubAddress)
}

// ToCosmos render to cosmos
func (m *SecureDeposit) ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	return depositToCosmos(m, false, active, from, inbound)
}

// ToEvm render to evm
func (m *SecureDeposit) ToEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	return depositToEvm(m, false, active, from, inbound)
}

// ToUtxo render to utxo
func (m *SecureDeposit) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	return depositToUtxo(m, false, active, from, inbound)
}

// ToXrp render to xrp
func (m *SecureDeposit) ToXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	return depositToXrp(m, false, active, from, inbound)
}

// ToTron render to tron
func (m *SecureDeposit) ToTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	return depositToTron(m, false, active, from, inbound)
}

// SecureWithdraw burns a secured asset on the hub and releases the layer1 asset
type SecureWithdraw struct {
	sealedMessage
	Asset   *tokens.Asset
	Amount  *big.Int
	Address string
}

// Name of message
func (m *SecureWithdraw) Name() string { return "secure-withdraw" }

// GetAsset get asset
func (m *SecureWithdraw) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *SecureWithdraw) GetAmount() *big.Int { return m.Amount }

// GetMemo build `secure-:` memo
func (m *SecureWithdraw) GetMemo() (string, error) {
	if m.Asset == nil || !m.Asset.IsSecured() {
		return "", fmt.Errorf("%w: secure withdraw needs a secured asset", tokens.ErrInvalidAsset)
	}
	if !tokens.MustGetNetwork(m.Asset.Chain).IsValidAddress(m.Address) {
		return "", fmt.Errorf("%w: %v address %v", tokens.ErrInvalidAddress, m.Asset.Chain, m.Address)
	}
	return SecureWithdrawMemo(m.Address)
}

// ToCosmos render to cosmos
func (m *SecureWithdraw) ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	return depositToCosmos(m, false, active, from, inbound)
}

// ToEvm render to evm
func (m *SecureWithdraw) ToEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	return depositToEvm(m, false, active, from, inbound)
}

// ToUtxo render to utxo
func (m *SecureWithdraw) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	return depositToUtxo(m, false, active, from, inbound)
}

// ToXrp render to xrp
func (m *SecureWithdraw) ToXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	return depositToXrp(m, false, active, from, inbound)
}

// ToTron render to tron
func (m *SecureWithdraw) ToTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	return depositToTron(m, false, active, from, inbound)
}

// Switch switches an external asset into its hub native form
type Switch struct {
	sealedMessage
	Asset      *tokens.Asset
	Amount     *big.Int
	HubAddress string
}

// Name of message
func (m *Switch) Name() string { return "switch" }

// GetAsset get asset
func (m *Switch) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *Switch) GetAmount() *big.Int { return m.Amount }

// GetMemo build `switch:` memo
func (m *Switch) GetMemo() (string, error) {
	if !tokens.MustGetNetwork(tokens.HubChain).IsValidAddress(m.HubAddress) {
		return "", fmt.Errorf("%w: hub address %v", tokens.ErrInvalidAddress, m.HubAddress)
	}
	return SwitchMemo(m.HubAddress)
}

// ToCosmos render to cosmos
func (m *Switch) ToCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	return depositToCosmos(m, false, active, from, inbound)
}

// ToEvm render to evm
func (m *Switch) ToEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	return depositToEvm(m, false, active, from, inbound)
}

// ToUtxo render to utxo
func (m *Switch) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	return depositToUtxo(m, false, active, from, inbound)
}

// ToXrp render to xrp
func (m *Switch) ToXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	return depositToXrp(m, false, active, from, inbound)
}

// ToTron render to tron
func (m *Switch) ToTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	return depositToTron(m, false, active, from, inbound)
}
