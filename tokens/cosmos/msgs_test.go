package cosmos

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T, prefix string, fill byte) string {
	addr, err := bech32.ConvertAndEncode(prefix, bytes.Repeat([]byte{fill}, 20))
	require.NoError(t, err)
	return addr
}

func TestBuildMsgs(t *testing.T) {
	thorFrom := testAddress(t, "thor", 0x01)
	gaiaFrom := testAddress(t, "cosmos", 0x01)
	gaiaTo := testAddress(t, "cosmos", 0x02)

	deposit := &message.Deposit{Asset: tokens.MustParseAsset("THOR.RUNE"), Amount: big.NewInt(150000000), Memo: "=:BTC.BTC:bc1q"}
	hubIntent, err := deposit.ToCosmos(tokens.THOR, thorFrom, nil)
	require.NoError(t, err)

	send := &message.Send{Asset: tokens.MustParseAsset("GAIA.ATOM"), Amount: big.NewInt(100000000), Recipient: gaiaTo, Memo: "hi"}
	sendIntent, err := send.ToCosmos(tokens.GAIA, gaiaFrom, nil)
	require.NoError(t, err)

	ibc := &message.IbcTransfer{
		Asset: tokens.MustParseAsset("GAIA.ATOM"), Amount: big.NewInt(200000000),
		Receiver: testAddress(t, "osmo", 0x03), SourceChannel: "channel-141", TimeoutNanos: 1700000000000000000,
	}
	ibcIntent, err := ibc.ToCosmos(tokens.GAIA, gaiaFrom, nil)
	require.NoError(t, err)

	msgs, err := BuildMsgs(hubIntent)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	msgDeposit, ok := msgs[0].(*MsgDeposit)
	require.True(t, ok)
	require.Equal(t, "=:BTC.BTC:bc1q", msgDeposit.Memo)
	require.Equal(t, "THOR.RUNE", msgDeposit.Coins[0].Asset.String())
	require.Equal(t, "150000000", msgDeposit.Coins[0].Amount.String())
	require.NoError(t, msgDeposit.ValidateBasic())

	msgs, err = BuildMsgs(sendIntent)
	require.NoError(t, err)
	msgSend, ok := msgs[0].(*banktypes.MsgSend)
	require.True(t, ok)
	want := &banktypes.MsgSend{FromAddress: gaiaFrom, ToAddress: gaiaTo, Amount: sdk.NewCoins(sdk.NewInt64Coin("uatom", 1000000))}
	if diff := cmp.Diff(want.String(), msgSend.String()); diff != "" {
		t.Fatalf("msg send mismatch (-want +got):\n%s", diff)
	}

	msgs, err = BuildMsgs(ibcIntent)
	require.NoError(t, err)
	msgTransfer, ok := msgs[0].(*MsgTransfer)
	require.True(t, ok)
	require.Equal(t, "transfer", msgTransfer.SourcePort)
	require.Equal(t, "channel-141", msgTransfer.SourceChannel)
	require.True(t, sdk.NewInt64Coin("uatom", 2000000).IsEqual(msgTransfer.Token))
	require.NoError(t, msgTransfer.ValidateBasic())
}

func TestMsgDepositEncoding(t *testing.T) {
	signer := bytes.Repeat([]byte{0x01}, 20)
	msg := &MsgDeposit{
		Coins:  []*HubCoin{{Asset: NewHubAsset(tokens.MustParseAsset("BTC-BTC")), Amount: sdk.NewInt(12345)}},
		Memo:   "secure-:bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
		Signer: signer,
	}
	bz, err := msg.Marshal()
	require.NoError(t, err)

	var decoded MsgDeposit
	require.NoError(t, decoded.Unmarshal(bz))
	require.Equal(t, msg.Memo, decoded.Memo)
	require.Equal(t, sdk.AccAddress(signer), decoded.Signer)
	require.True(t, decoded.Coins[0].Asset.Secured)
	require.Equal(t, "BTC-BTC", decoded.Coins[0].Asset.String())
	require.True(t, msg.Coins[0].Amount.Equal(decoded.Coins[0].Amount))

	anyMsg, err := codectypes.NewAnyWithValue(msg)
	require.NoError(t, err)
	require.Equal(t, "/"+MsgDepositTypeURL, anyMsg.TypeUrl)

	var doc struct {
		Type  string `json:"type"`
		Value struct {
			Coins []struct {
				Asset  string `json:"asset"`
				Amount string `json:"amount"`
			} `json:"coins"`
			Signer string `json:"signer"`
		} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(msg.GetSignBytes(), &doc))
	require.Equal(t, "thorchain/MsgDeposit", doc.Type)
	require.Equal(t, "BTC-BTC", doc.Value.Coins[0].Asset)
	require.Equal(t, "12345", doc.Value.Coins[0].Amount)
	require.True(t, strings.HasPrefix(doc.Value.Signer, "thor1"))
}

func TestMsgTransferEncoding(t *testing.T) {
	msg := &MsgTransfer{
		SourcePort:       "transfer",
		SourceChannel:    "channel-0",
		Token:            sdk.NewInt64Coin("uatom", 7),
		Sender:           testAddress(t, "cosmos", 0x05),
		Receiver:         testAddress(t, "osmo", 0x06),
		TimeoutHeight:    IbcHeight{RevisionNumber: 1, RevisionHeight: 100},
		TimeoutTimestamp: 42,
		Memo:             "memo",
	}
	bz, err := msg.Marshal()
	require.NoError(t, err)
	var decoded MsgTransfer
	require.NoError(t, decoded.Unmarshal(bz))
	if diff := cmp.Diff(msg.GetSignBytes(), decoded.GetSignBytes()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []sdk.AccAddress{bytes.Repeat([]byte{0x05}, 20)}, msg.GetSigners())
	require.Contains(t, string(msg.GetSignBytes()), `"timeout_timestamp":"42"`)
}

func TestEthPubKey(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	pubKey, err := NewEthPubKey(ethcrypto.FromECDSAPub(&key.PublicKey))
	require.NoError(t, err)
	require.Len(t, pubKey.Bytes(), 33)
	require.Equal(t, ethcrypto.PubkeyToAddress(key.PublicKey).Bytes(), pubKey.Address().Bytes())

	msg := []byte("sign doc")
	sig, err := ethcrypto.Sign(ethcrypto.Keccak256(msg), key)
	require.NoError(t, err)
	require.True(t, pubKey.VerifySignature(msg, sig))
	require.False(t, pubKey.VerifySignature([]byte("other"), sig))

	bz, err := pubKey.Marshal()
	require.NoError(t, err)
	var decoded EthPubKey
	require.NoError(t, decoded.Unmarshal(bz))
	require.True(t, pubKey.Equals(&decoded))
}

func testAddressBytes(t *testing.T, prefix string, bz []byte) string {
	addr, err := bech32.ConvertAndEncode(prefix, bz)
	require.NoError(t, err)
	return addr
}
