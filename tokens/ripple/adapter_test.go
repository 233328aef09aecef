package ripple

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/stretchr/testify/require"
)

var (
	testKey         = mustDecodeHex("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	testDestination = tokens.EncodeXrpAccountID(mustDecodeHex("90529c2cea2c77856e777c993c6392cc60c5d5a2"))
)

func mustDecodeHex(s string) []byte {
	bz, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return bz
}

type fakeAPI struct {
	accounts  map[string]*AccountInfo
	result    string
	submitted []string
}

func (f *fakeAPI) GetAccountInfo(_ context.Context, account string) (*AccountInfo, error) {
	info, exist := f.accounts[account]
	if !exist {
		return nil, ErrAccountNotFound
	}
	return info, nil
}

func (f *fakeAPI) Submit(_ context.Context, txBlob string) (*SubmitResult, error) {
	f.submitted = append(f.submitted, txBlob)
	if f.result == "" {
		return &SubmitResult{EngineResult: "tesSUCCESS"}, nil
	}
	return &SubmitResult{EngineResult: f.result, EngineResultCode: -199, EngineResultMessage: "failed"}, nil
}

func newTestSigner(t *testing.T) *KeySigner {
	signer, err := NewKeySigner(testKey)
	require.NoError(t, err)
	return signer
}

func TestIsValidAddress(t *testing.T) {
	cases := []struct {
		Addr     string
		Expected bool
	}{
		{"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", true},
		{"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh:12345", true},
		{"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTi", false},
		{"XVLhHMPHU98es4dbozjVtdWzVrDjtV18pX8yuPT7y4xaEHi", false},
		{"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh:abc", false},
		{"0x90529c2cea2c77856e777c993c6392cc60c5d5a2", false},
	}
	for _, c := range cases {
		rst := IsValidAddress(c.Addr)
		if rst != c.Expected {
			t.Fatalf("%s expected %v, but got %v", c.Addr, c.Expected, rst)
		}
	}

	addr, tag, err := GetAddressAndTag("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh:12345")
	require.NoError(t, err)
	require.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", addr)
	require.Equal(t, uint32(12345), *tag)
}

func TestPublicKeyToAddress(t *testing.T) {
	addr, err := PublicKeyHexToAddress("0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020")
	require.NoError(t, err)
	require.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", addr)
}

func newFunded(signer *KeySigner, balance int64) *fakeAPI {
	return &fakeAPI{accounts: map[string]*AccountInfo{
		signer.Address(): {Balance: balance, Sequence: 42, LedgerCurrentIndex: 1000},
		testDestination:  {Balance: 50000000, Sequence: 1},
	}}
}

func TestSimulate(t *testing.T) {
	signer := newTestSigner(t)
	intent := &message.XrpIntent{From: signer.Address(), Destination: testDestination, Amount: big.NewInt(1000000)}

	sim, err := NewAdapter(newFunded(signer, 100000000)).Simulate(context.Background(), intent)
	require.NoError(t, err)
	require.Equal(t, int64(10), sim.Amount.Int64())
	require.Equal(t, "XRP", sim.Symbol)
	require.Equal(t, uint8(6), sim.Decimals)

	// sender must keep the reserve
	_, err = NewAdapter(newFunded(signer, 10500000)).Simulate(context.Background(), intent)
	require.ErrorIs(t, err, tokens.ErrInsufficientFunds)

	// unfunded destination
	api := newFunded(signer, 100000000)
	delete(api.accounts, testDestination)
	_, err = NewAdapter(api).Simulate(context.Background(), intent)
	require.ErrorIs(t, err, tokens.ErrInsufficientFunds)

	intent.Amount = big.NewInt(10000000)
	_, err = NewAdapter(api).Simulate(context.Background(), intent)
	require.NoError(t, err)

	intent.Amount = big.NewInt(0)
	_, err = NewAdapter(api).Simulate(context.Background(), intent)
	require.ErrorIs(t, err, tokens.ErrInvalidAmount)
}

func TestSignAndBroadcast(t *testing.T) {
	signer := newTestSigner(t)
	api := newFunded(signer, 100000000)
	tag := uint32(7)
	intent := &message.XrpIntent{
		From:           signer.Address(),
		Destination:    testDestination,
		DestinationTag: &tag,
		Amount:         big.NewInt(2000000),
		Memo:           "=:THOR.RUNE:thor1xyz",
		Deposited:      &tokens.Deposited{Asset: "XRP.XRP", Amount: big.NewInt(200000000)},
	}
	adapter := NewAdapter(api)

	result, err := adapter.SignAndBroadcast(context.Background(), signer, intent, &tokens.Simulation{Amount: big.NewInt(12)})
	require.NoError(t, err)
	require.Len(t, api.submitted, 1)
	require.Len(t, result.TxHash, 64)
	require.Equal(t, intent.Deposited, result.Deposited)

	blob := api.submitted[0]
	require.True(t, strings.Contains(blob, strings.ToUpper(hex.EncodeToString([]byte(intent.Memo)))))
	require.True(t, strings.Contains(blob, strings.ToUpper(hex.EncodeToString(signer.PublicKey()))))

	other, err := NewKeySigner(mustDecodeHex("0000000000000000000000000000000000000000000000000000000000000001"))
	require.NoError(t, err)
	_, err = adapter.SignAndBroadcast(context.Background(), other, intent, nil)
	require.ErrorIs(t, err, tokens.ErrSenderMismatch)
	require.Len(t, api.submitted, 1)

	api.result = "tefPAST_SEQ"
	_, err = adapter.SignAndBroadcast(context.Background(), signer, intent, nil)
	var broadcastErr *tokens.BroadcastTxError
	require.True(t, errors.As(err, &broadcastErr))
	require.Equal(t, "tefPAST_SEQ", broadcastErr.Codespace)
}

func TestNewUnsignedPaymentTransaction(t *testing.T) {
	signer := newTestSigner(t)
	tx, err := NewUnsignedPaymentTransaction(&PaymentArgs{
		Account:     signer.Address(),
		Destination: testDestination,
		Amount:      1000,
		Fee:         10,
		Sequence:    3,
		LastLedger:  99,
	})
	require.NoError(t, err)
	require.Equal(t, uint32(3), tx.Sequence)
	require.Equal(t, uint32(99), *tx.LastLedgerSequence)
	require.Equal(t, testDestination, tx.Destination.String())
	require.Empty(t, tx.Memos)

	_, err = NewUnsignedPaymentTransaction(&PaymentArgs{Account: signer.Address(), Destination: "rbad", Amount: 1000, Fee: 10})
	require.ErrorIs(t, err, tokens.ErrInvalidAddress)
}
