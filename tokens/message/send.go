package message

import (
	"fmt"
	"math/big"
	"time"

	"github.com/anyswap/CrossChain-Wallet/tokens"
)

// DefaultIbcPort default ibc transfer port
const DefaultIbcPort = "transfer"

// DefaultIbcTimeout window of an ibc transfer without explicit timeout
const DefaultIbcTimeout = 10 * time.Minute

var now = time.Now

// Send transfers asset directly to a recipient, bypassing the protocol
type Send struct {
	sealedMessage
	Asset     *tokens.Asset
	Amount    *big.Int
	Recipient string
	Memo      string
}

// Name of message
func (m *Send) Name() string { return "send" }

// GetAsset get asset
func (m *Send) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *Send) GetAmount() *big.Int { return m.Amount }

// GetMemo get memo
func (m *Send) GetMemo() (string, error) { return m.Memo, nil }

func (m *Send) prepare(active tokens.Chain, target tokens.Family) (*big.Int, *tokens.Deposited, error) {
	native, deposited, err := prepare(m.Name(), m.Asset, m.Amount, false, active, target)
	if err != nil {
		return nil, nil, err
	}
	if !tokens.MustGetNetwork(active).IsValidAddress(m.Recipient) {
		return nil, nil, fmt.Errorf("%w: %v recipient %v", tokens.ErrInvalidAddress, active, m.Recipient)
	}
	return native, deposited, nil
}

// ToCosmos render to bank send
func (m *Send) ToCosmos(active tokens.Chain, from string, _ *tokens.InboundAddress) (*CosmosIntent, error) {
	native, deposited, err := m.prepare(active, tokens.CosmosFamily)
	if err != nil {
		return nil, err
	}
	return &CosmosIntent{
		Kind:      BankSendKind,
		Chain:     active,
		From:      from,
		To:        m.Recipient,
		Coins:     []*Coin{{Asset: m.Asset, Amount: native}},
		Memo:      m.Memo,
		Deposited: deposited,
	}, nil
}

// ToEvm render to native or erc20 transfer, the memo of a native transfer is carried as data
func (m *Send) ToEvm(active tokens.Chain, from string, _ *tokens.InboundAddress) (*EvmIntent, error) {
	native, deposited, err := m.prepare(active, tokens.EVMFamily)
	if err != nil {
		return nil, err
	}
	intent := &EvmIntent{
		Kind:      NativeTransfer,
		Chain:     active,
		From:      from,
		To:        m.Recipient,
		Amount:    native,
		Memo:      m.Memo,
		Deposited: deposited,
	}
	if m.Asset.IsGasAsset() {
		if m.Memo != "" {
			intent.Data = []byte(m.Memo)
		}
		return intent, nil
	}
	if m.Asset.Contract == "" {
		return nil, fmt.Errorf("%w: %v has no contract", tokens.ErrInvalidAsset, m.Asset)
	}
	intent.Kind = Erc20Transfer
	intent.Token = m.Asset.Contract
	return intent, nil
}

// ToUtxo render to utxo payment, inbound is optional and only supplies the fee rate
func (m *Send) ToUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	native, deposited, err := m.prepare(active, tokens.UTXOFamily)
	if err != nil {
		return nil, err
	}
	intent := &UtxoIntent{
		Chain:     active,
		From:      from,
		Recipient: m.Recipient,
		Amount:    native,
		Memo:      m.Memo,
		Deposited: deposited,
	}
	if inbound != nil {
		if err = inbound.Validate(active); err != nil {
			return nil, err
		}
		intent.FeeRate = inbound.GasRate
	}
	return intent, nil
}

// ToXrp render to xrp payment
func (m *Send) ToXrp(active tokens.Chain, from string, _ *tokens.InboundAddress) (*XrpIntent, error) {
	native, deposited, err := m.prepare(active, tokens.XRPFamily)
	if err != nil {
		return nil, err
	}
	address, tag, err := tokens.SplitXrpAddress(m.Recipient)
	if err != nil {
		return nil, err
	}
	return &XrpIntent{
		From:           from,
		Destination:    address,
		DestinationTag: tag,
		Amount:         native,
		Memo:           m.Memo,
		Deposited:      deposited,
	}, nil
}

// ToTron render to trx or trc20 transfer
func (m *Send) ToTron(active tokens.Chain, from string, _ *tokens.InboundAddress) (*TronIntent, error) {
	native, deposited, err := m.prepare(active, tokens.TronFamily)
	if err != nil {
		return nil, err
	}
	intent := &TronIntent{
		Kind:      TrxTransfer,
		From:      from,
		To:        m.Recipient,
		Amount:    native,
		Memo:      m.Memo,
		Deposited: deposited,
	}
	if !m.Asset.IsGasAsset() {
		intent.Kind = Trc20Transfer
		intent.Contract = m.Asset.Contract
	}
	return intent, nil
}

// IbcTransfer transfers a cosmos asset over ibc
type IbcTransfer struct {
	sealedMessage
	Asset         *tokens.Asset
	Amount        *big.Int
	Receiver      string
	SourcePort    string
	SourceChannel string
	TimeoutNanos  uint64 // absolute timeout timestamp, zero means DefaultIbcTimeout from now
	Memo          string
}

// Name of message
func (m *IbcTransfer) Name() string { return "ibc-transfer" }

// GetAsset get asset
func (m *IbcTransfer) GetAsset() *tokens.Asset { return m.Asset }

// GetAmount get canonical amount
func (m *IbcTransfer) GetAmount() *big.Int { return m.Amount }

// GetMemo get memo
func (m *IbcTransfer) GetMemo() (string, error) { return m.Memo, nil }

// ToCosmos render to ibc transfer
func (m *IbcTransfer) ToCosmos(active tokens.Chain, from string, _ *tokens.InboundAddress) (*CosmosIntent, error) {
	native, deposited, err := prepare(m.Name(), m.Asset, m.Amount, false, active, tokens.CosmosFamily)
	if err != nil {
		return nil, err
	}
	if m.Receiver == "" || m.SourceChannel == "" {
		return nil, fmt.Errorf("%w: ibc transfer needs receiver and channel", tokens.ErrInvalidAddress)
	}
	port := m.SourcePort
	if port == "" {
		port = DefaultIbcPort
	}
	timeout := m.TimeoutNanos
	if timeout == 0 {
		timeout = uint64(now().Add(DefaultIbcTimeout).UnixNano())
	}
	return &CosmosIntent{
		Kind:  IbcTransferKind,
		Chain: active,
		From:  from,
		To:    m.Receiver,
		Coins: []*Coin{{Asset: m.Asset, Amount: native}},
		Memo:  m.Memo,
		IBC: &IbcParams{
			SourcePort:    port,
			SourceChannel: m.SourceChannel,
			Receiver:      m.Receiver,
			TimeoutNanos:  timeout,
		},
		Deposited: deposited,
	}, nil
}

// ToEvm is unsupported
func (m *IbcTransfer) ToEvm(tokens.Chain, string, *tokens.InboundAddress) (*EvmIntent, error) {
	return nil, unsupported(m, tokens.EVMFamily)
}

// ToUtxo is unsupported
func (m *IbcTransfer) ToUtxo(tokens.Chain, string, *tokens.InboundAddress) (*UtxoIntent, error) {
	return nil, unsupported(m, tokens.UTXOFamily)
}

// ToXrp is unsupported
func (m *IbcTransfer) ToXrp(tokens.Chain, string, *tokens.InboundAddress) (*XrpIntent, error) {
	return nil, unsupported(m, tokens.XRPFamily)
}

// ToTron is unsupported
func (m *IbcTransfer) ToTron(tokens.Chain, string, *tokens.InboundAddress) (*TronIntent, error) {
	return nil, unsupported(m, tokens.TronFamily)
}
