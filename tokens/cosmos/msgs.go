package cosmos

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/gogo/protobuf/proto"
)

// proto and amino names of the messages not shipped with cosmos-sdk
const (
	MsgDepositTypeURL  = "types.MsgDeposit"
	MsgTransferTypeURL = "ibc.applications.transfer.v1.MsgTransfer"

	msgDepositAminoName  = "thorchain/MsgDeposit"
	msgTransferAminoName = "cosmos-sdk/MsgTransfer"
)

var (
	_ sdk.Msg = &MsgDeposit{}
	_ sdk.Msg = &MsgTransfer{}
)

func init() {
	proto.RegisterType((*MsgDeposit)(nil), MsgDepositTypeURL)
	proto.RegisterType((*MsgTransfer)(nil), MsgTransferTypeURL)
}

type aminoMsg struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

func aminoSignBytes(name string, value interface{}) []byte {
	bz, err := json.Marshal(aminoMsg{Type: name, Value: value})
	if err != nil {
		panic(err)
	}
	return sdk.MustSortJSON(bz)
}

// HubAsset asset as the hub chain encodes it
type HubAsset struct {
	Chain   string
	Symbol  string
	Ticker  string
	Synth   bool
	Trade   bool
	Secured bool
}

// NewHubAsset convert asset
func NewHubAsset(asset *tokens.Asset) HubAsset {
	return HubAsset{
		Chain:   asset.Chain.String(),
		Symbol:  asset.Symbol,
		Ticker:  asset.Ticker,
		Synth:   asset.Variant == tokens.SynthVariant,
		Trade:   asset.Variant == tokens.TradeVariant,
		Secured: asset.Variant == tokens.SecuredVariant,
	}
}

// String asset notation, eg. BTC.BTC, BTC-BTC
func (a HubAsset) String() string {
	delim := "."
	switch {
	case a.Synth:
		delim = "/"
	case a.Trade:
		delim = "~"
	case a.Secured:
		delim = "-"
	}
	return a.Chain + delim + a.Symbol
}

func (a HubAsset) marshal() []byte {
	var b []byte
	b = appendString(b, 1, a.Chain)
	b = appendString(b, 2, a.Symbol)
	b = appendString(b, 3, a.Ticker)
	b = appendBool(b, 4, a.Synth)
	b = appendBool(b, 5, a.Trade)
	b = appendBool(b, 6, a.Secured)
	return b
}

func (a *HubAsset) unmarshal(bz []byte) error {
	return walkFields(bz, func(f *protoField) error {
		switch f.num {
		case 1:
			a.Chain = string(f.bytes)
		case 2:
			a.Symbol = string(f.bytes)
		case 3:
			a.Ticker = string(f.bytes)
		case 4:
			a.Synth = f.varint != 0
		case 5:
			a.Trade = f.varint != 0
		case 6:
			a.Secured = f.varint != 0
		}
		return nil
	})
}

// HubCoin coin of hub chain deposit
type HubCoin struct {
	Asset    HubAsset
	Amount   sdk.Int
	Decimals int64
}

func (c *HubCoin) marshal() []byte {
	var b []byte
	b = appendMessage(b, 1, c.Asset.marshal())
	b = appendString(b, 2, c.Amount.String())
	b = appendVarint(b, 3, uint64(c.Decimals))
	return b
}

func (c *HubCoin) unmarshal(bz []byte) error {
	c.Amount = sdk.ZeroInt()
	return walkFields(bz, func(f *protoField) error {
		switch f.num {
		case 1:
			return c.Asset.unmarshal(f.bytes)
		case 2:
			amount, ok := sdk.NewIntFromString(string(f.bytes))
			if !ok {
				return errors.New("invalid amount")
			}
			c.Amount = amount
		case 3:
			c.Decimals = int64(f.varint)
		}
		return nil
	})
}

// MsgDeposit deposit of coins into the hub chain with a memo.
// Network fee is fixed and charged by the hub, there is no recipient.
type MsgDeposit struct {
	Coins  []*HubCoin
	Memo   string
	Signer sdk.AccAddress
}

// ProtoMessage implements proto.Message
func (*MsgDeposit) ProtoMessage() {}

// Reset implements proto.Message
func (m *MsgDeposit) Reset() { *m = MsgDeposit{} }

// String implements proto.Message
func (m *MsgDeposit) String() string { return string(m.GetSignBytes()) }

// XXX_MessageName gogo message name
func (*MsgDeposit) XXX_MessageName() string { return MsgDepositTypeURL } //nolint:revive,stylecheck // gogo naming

// Marshal protobuf encoding
func (m *MsgDeposit) Marshal() ([]byte, error) {
	var b []byte
	for _, coin := range m.Coins {
		b = appendMessage(b, 1, coin.marshal())
	}
	b = appendString(b, 2, m.Memo)
	b = appendBytes(b, 3, m.Signer)
	return b, nil
}

// Unmarshal protobuf decoding
func (m *MsgDeposit) Unmarshal(bz []byte) error {
	m.Reset()
	return walkFields(bz, func(f *protoField) error {
		switch f.num {
		case 1:
			coin := &HubCoin{}
			if err := coin.unmarshal(f.bytes); err != nil {
				return err
			}
			m.Coins = append(m.Coins, coin)
		case 2:
			m.Memo = string(f.bytes)
		case 3:
			m.Signer = append(sdk.AccAddress{}, f.bytes...)
		}
		return nil
	})
}

// Route implements legacytx.LegacyMsg
func (*MsgDeposit) Route() string { return "thorchain" }

// Type implements legacytx.LegacyMsg
func (*MsgDeposit) Type() string { return "deposit" }

// ValidateBasic implements sdk.Msg
func (m *MsgDeposit) ValidateBasic() error {
	if len(m.Signer) == 0 {
		return errors.New("empty signer")
	}
	if len(m.Coins) != 1 {
		return errors.New("deposit must carry exactly one coin")
	}
	if m.Coins[0].Amount.IsNil() || m.Coins[0].Amount.IsNegative() {
		return errors.New("invalid coin amount")
	}
	return nil
}

// GetSigners implements sdk.Msg
func (m *MsgDeposit) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{m.Signer}
}

// GetSignBytes amino json sign bytes, the signer is rendered with the hub prefix
func (m *MsgDeposit) GetSignBytes() []byte {
	type coinJSON struct {
		Asset    string `json:"asset"`
		Amount   string `json:"amount"`
		Decimals string `json:"decimals,omitempty"`
	}
	coins := make([]coinJSON, 0, len(m.Coins))
	for _, coin := range m.Coins {
		item := coinJSON{Asset: coin.Asset.String(), Amount: coin.Amount.String()}
		if coin.Decimals != 0 {
			item.Decimals = strconv.FormatInt(coin.Decimals, 10)
		}
		coins = append(coins, item)
	}
	signer, _ := bech32.ConvertAndEncode(tokens.MustGetNetwork(tokens.HubChain).Bech32Prefix, m.Signer)
	return aminoSignBytes(msgDepositAminoName, struct {
		Coins  []coinJSON `json:"coins"`
		Memo   string     `json:"memo"`
		Signer string     `json:"signer"`
	}{coins, m.Memo, signer})
}

// IbcHeight ibc client height
type IbcHeight struct {
	RevisionNumber uint64
	RevisionHeight uint64
}

// MsgTransfer ics20 fungible token transfer
type MsgTransfer struct {
	SourcePort       string
	SourceChannel    string
	Token            sdk.Coin
	Sender           string
	Receiver         string
	TimeoutHeight    IbcHeight
	TimeoutTimestamp uint64 // unix nanoseconds
	Memo             string
}

// ProtoMessage implements proto.Message
func (*MsgTransfer) ProtoMessage() {}

// Reset implements proto.Message
func (m *MsgTransfer) Reset() { *m = MsgTransfer{} }

// String implements proto.Message
func (m *MsgTransfer) String() string { return string(m.GetSignBytes()) }

// XXX_MessageName gogo message name
func (*MsgTransfer) XXX_MessageName() string { return MsgTransferTypeURL } //nolint:revive,stylecheck // gogo naming

// Marshal protobuf encoding
func (m *MsgTransfer) Marshal() ([]byte, error) {
	token, err := m.Token.Marshal()
	if err != nil {
		return nil, err
	}
	var height []byte
	height = appendVarint(height, 1, m.TimeoutHeight.RevisionNumber)
	height = appendVarint(height, 2, m.TimeoutHeight.RevisionHeight)

	var b []byte
	b = appendString(b, 1, m.SourcePort)
	b = appendString(b, 2, m.SourceChannel)
	b = appendMessage(b, 3, token)
	b = appendString(b, 4, m.Sender)
	b = appendString(b, 5, m.Receiver)
	b = appendMessage(b, 6, height)
	b = appendVarint(b, 7, m.TimeoutTimestamp)
	b = appendString(b, 8, m.Memo)
	return b, nil
}

// Unmarshal protobuf decoding
func (m *MsgTransfer) Unmarshal(bz []byte) error {
	m.Reset()
	return walkFields(bz, func(f *protoField) error {
		switch f.num {
		case 1:
			m.SourcePort = string(f.bytes)
		case 2:
			m.SourceChannel = string(f.bytes)
		case 3:
			return m.Token.Unmarshal(f.bytes)
		case 4:
			m.Sender = string(f.bytes)
		case 5:
			m.Receiver = string(f.bytes)
		case 6:
			return walkFields(f.bytes, func(h *protoField) error {
				switch h.num {
				case 1:
					m.TimeoutHeight.RevisionNumber = h.varint
				case 2:
					m.TimeoutHeight.RevisionHeight = h.varint
				}
				return nil
			})
		case 7:
			m.TimeoutTimestamp = f.varint
		case 8:
			m.Memo = string(f.bytes)
		}
		return nil
	})
}

// Route implements legacytx.LegacyMsg
func (*MsgTransfer) Route() string { return "transfer" }

// Type implements legacytx.LegacyMsg
func (*MsgTransfer) Type() string { return "transfer" }

// ValidateBasic implements sdk.Msg
func (m *MsgTransfer) ValidateBasic() error {
	if m.SourcePort == "" || m.SourceChannel == "" {
		return errors.New("empty source port or channel")
	}
	if !m.Token.IsValid() || m.Token.IsZero() {
		return errors.New("invalid token")
	}
	if strings.TrimSpace(m.Receiver) == "" {
		return errors.New("empty receiver")
	}
	if m.TimeoutTimestamp == 0 && m.TimeoutHeight.RevisionHeight == 0 {
		return errors.New("timeout height and timestamp are both zero")
	}
	_, err := senderBytes(m.Sender)
	return err
}

// GetSigners implements sdk.Msg
func (m *MsgTransfer) GetSigners() []sdk.AccAddress {
	sender, err := senderBytes(m.Sender)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{sender}
}

// GetSignBytes amino json sign bytes
func (m *MsgTransfer) GetSignBytes() []byte {
	type heightJSON struct {
		RevisionNumber string `json:"revision_number,omitempty"`
		RevisionHeight string `json:"revision_height,omitempty"`
	}
	type coinJSON struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}
	value := struct {
		SourcePort       string     `json:"source_port,omitempty"`
		SourceChannel    string     `json:"source_channel,omitempty"`
		Token            coinJSON   `json:"token"`
		Sender           string     `json:"sender,omitempty"`
		Receiver         string     `json:"receiver,omitempty"`
		TimeoutHeight    heightJSON `json:"timeout_height"`
		TimeoutTimestamp string     `json:"timeout_timestamp,omitempty"`
		Memo             string     `json:"memo,omitempty"`
	}{
		SourcePort:    m.SourcePort,
		SourceChannel: m.SourceChannel,
		Token:         coinJSON{Denom: m.Token.Denom, Amount: m.Token.Amount.String()},
		Sender:        m.Sender,
		Receiver:      m.Receiver,
		Memo:          m.Memo,
	}
	if m.TimeoutHeight.RevisionNumber != 0 {
		value.TimeoutHeight.RevisionNumber = strconv.FormatUint(m.TimeoutHeight.RevisionNumber, 10)
	}
	if m.TimeoutHeight.RevisionHeight != 0 {
		value.TimeoutHeight.RevisionHeight = strconv.FormatUint(m.TimeoutHeight.RevisionHeight, 10)
	}
	if m.TimeoutTimestamp != 0 {
		value.TimeoutTimestamp = strconv.FormatUint(m.TimeoutTimestamp, 10)
	}
	return aminoSignBytes(msgTransferAminoName, value)
}

// the sender prefix is chain specific, so only the checksum is verified here
func senderBytes(sender string) (sdk.AccAddress, error) {
	_, bz, err := bech32.DecodeAndConvert(sender)
	if err != nil {
		return nil, err
	}
	return bz, nil
}
