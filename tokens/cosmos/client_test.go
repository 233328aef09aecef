package cosmos

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/cosmos/grpc"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdktx "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	tmbytes "github.com/tendermint/tendermint/libs/bytes"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	coretypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// fakeNode answers the few tendermint rpc calls the client makes
type fakeNode struct {
	rpcclient.Client

	mu            sync.Mutex
	account       *authtypes.BaseAccount
	gasUsed       uint64
	broadcastCode uint32
	included      bool
	pendingPolls  int
	txCode        uint32
	txPolls       int
	queries       []string
	broadcasts    []tmtypes.Tx
}

func (n *fakeNode) ABCIQueryWithOptions(_ context.Context, path string, _ tmbytes.HexBytes, _ rpcclient.ABCIQueryOptions) (*coretypes.ResultABCIQuery, error) {
	n.mu.Lock()
	n.queries = append(n.queries, path)
	n.mu.Unlock()

	var value []byte
	var err error
	switch path {
	case "/cosmos.auth.v1beta1.Query/Account":
		var anyAccount *codectypes.Any
		if anyAccount, err = codectypes.NewAnyWithValue(n.account); err == nil {
			value, err = (&authtypes.QueryAccountResponse{Account: anyAccount}).Marshal()
		}
	case "/cosmos.tx.v1beta1.Service/Simulate":
		value, err = (&sdktx.SimulateResponse{GasInfo: &sdk.GasInfo{GasUsed: n.gasUsed}, Result: &sdk.Result{}}).Marshal()
	default:
		return &coretypes.ResultABCIQuery{Response: abci.ResponseQuery{Code: 6, Log: "unknown query path " + path}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &coretypes.ResultABCIQuery{Response: abci.ResponseQuery{Value: value, Height: 100}}, nil
}

func (n *fakeNode) BroadcastTxSync(_ context.Context, tx tmtypes.Tx) (*coretypes.ResultBroadcastTx, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcasts = append(n.broadcasts, tx)
	return &coretypes.ResultBroadcastTx{Code: n.broadcastCode, Codespace: "sdk", Log: "rejected", Hash: tx.Hash()}, nil
}

func (n *fakeNode) Tx(_ context.Context, hash []byte, _ bool) (*coretypes.ResultTx, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.txPolls++
	if !n.included {
		return nil, errors.New("tx not found")
	}
	if n.txPolls <= n.pendingPolls {
		return &coretypes.ResultTx{Hash: hash}, nil
	}
	return &coretypes.ResultTx{Hash: hash, Height: 101, TxResult: abci.ResponseDeliverTx{Code: n.txCode, Codespace: "sdk", Log: "out of gas"}}, nil
}

type aminoOnlySigner struct {
	*KeySigner
}

func (s aminoOnlySigner) SignModes() []signing.SignMode {
	return []signing.SignMode{signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON}
}

type testTypedSigner struct {
	key *ecdsa.PrivateKey
}

func (s *testTypedSigner) Address() ethcommon.Address {
	return ethcrypto.PubkeyToAddress(s.key.PublicKey)
}

func (s *testTypedSigner) SignTypedData(_ context.Context, typedData *apitypes.TypedData) ([]byte, error) {
	hash, err := TypedDataHash(typedData)
	if err != nil {
		return nil, err
	}
	sig, err := ethcrypto.Sign(hash, s.key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

func testTypedData(_ context.Context, chainID string, signBytes []byte) (*apitypes.TypedData, error) {
	return &apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {{Name: "name", Type: "string"}, {Name: "chainId", Type: "uint256"}},
			"Tx":           {{Name: "signDoc", Type: "string"}},
		},
		PrimaryType: "Tx",
		Domain:      apitypes.TypedDataDomain{Name: chainID, ChainId: ethmath.NewHexOrDecimal256(9001)},
		Message:     apitypes.TypedDataMessage{"signDoc": string(signBytes)},
	}, nil
}

func newTestClient(t *testing.T, chain tokens.Chain, node *fakeNode) *Client {
	client, err := NewClient(chain, node)
	require.NoError(t, err)
	client.PollInterval = 5 * time.Millisecond
	client.Timeout = time.Second
	client.FetchTyped = testTypedData
	return client
}

func newKeySigner(t *testing.T) *KeySigner {
	signer, err := NewKeySigner(secp256k1.GenPrivKey().Key)
	require.NoError(t, err)
	return signer
}

func sendIntent(t *testing.T, from string) *message.CosmosIntent {
	msg := &message.Send{Asset: tokens.MustParseAsset("GAIA.ATOM"), Amount: big.NewInt(100000000), Recipient: testAddress(t, "cosmos", 0x09)}
	intent, err := msg.ToCosmos(tokens.GAIA, from, nil)
	require.NoError(t, err)
	return intent
}

// decodeSigned decodes the broadcast tx and checks its single signature against the sign bytes
func decodeSigned(t *testing.T, client *Client, txBytes []byte, accountNumber, sequence uint64) (authsigning.Tx, signing.SignatureV2) {
	txConfig := client.ClientContext().TxConfig()
	decoded, err := txConfig.TxDecoder()(txBytes)
	require.NoError(t, err)
	sigTx, ok := decoded.(authsigning.Tx)
	require.True(t, ok)
	sigs, err := sigTx.GetSignaturesV2()
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	data, ok := sigs[0].Data.(*signing.SingleSignatureData)
	require.True(t, ok)
	signerData := BuildSignerData(client.ClientContext().ChainID(), accountNumber, sequence)
	signBytes, err := txConfig.SignModeHandler().GetSignBytes(data.SignMode, signerData, sigTx)
	require.NoError(t, err)
	require.True(t, sigs[0].PubKey.VerifySignature(signBytes, data.Signature), "signature does not verify")
	return sigTx, sigs[0]
}

func TestSimulateBankSend(t *testing.T) {
	signer := newKeySigner(t)
	from, err := signer.Address(tokens.GAIA)
	require.NoError(t, err)
	node := &fakeNode{account: &authtypes.BaseAccount{Address: from, AccountNumber: 7, Sequence: 3}, gasUsed: 100000}
	client := newTestClient(t, tokens.GAIA, node)

	sim, err := client.Simulate(context.Background(), NewSigningContext(signer), sendIntent(t, from))
	require.NoError(t, err)
	require.Equal(t, "ATOM", sim.Symbol)
	require.Equal(t, uint8(6), sim.Decimals)
	require.Equal(t, uint64(130000), sim.Gas)
	require.Equal(t, int64(3250), sim.Amount.Int64())
	require.Equal(t, []string{"/cosmos.auth.v1beta1.Query/Account", "/cosmos.tx.v1beta1.Service/Simulate"}, node.queries)
}

func TestSimulateHubDepositFixedFee(t *testing.T) {
	signer := newKeySigner(t)
	from, err := signer.Address(tokens.THOR)
	require.NoError(t, err)
	node := &fakeNode{}
	client := newTestClient(t, tokens.THOR, node)

	msg := &message.Deposit{Asset: tokens.MustParseAsset("THOR.RUNE"), Amount: big.NewInt(100000000), Memo: "=:ETH.ETH:0xabc"}
	intent, err := msg.ToCosmos(tokens.THOR, from, nil)
	require.NoError(t, err)

	sim, err := client.Simulate(context.Background(), NewSigningContext(signer), intent)
	require.NoError(t, err)
	require.Equal(t, int64(2000000), sim.Amount.Int64())
	require.Equal(t, uint64(600000000), sim.Gas)
	require.Empty(t, node.queries)
}

func TestSimulateIncorrectNetwork(t *testing.T) {
	signer := newKeySigner(t)
	from, err := signer.Address(tokens.GAIA)
	require.NoError(t, err)
	client := newTestClient(t, tokens.THOR, &fakeNode{})
	_, err = client.Simulate(context.Background(), NewSigningContext(signer), sendIntent(t, from))
	require.True(t, tokens.IsIncorrectNetworkError(err), "got %v", err)
}

func TestSignAndBroadcastSignModes(t *testing.T) {
	cases := []struct {
		name string
		mode signing.SignMode
		wrap func(*KeySigner) Signer
	}{
		{"direct", signing.SignMode_SIGN_MODE_DIRECT, func(s *KeySigner) Signer { return s }},
		{"amino", signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, func(s *KeySigner) Signer { return aminoOnlySigner{s} }},
	}
	for _, c := range cases {
		signer := newKeySigner(t)
		from, err := signer.Address(tokens.GAIA)
		require.NoError(t, err)
		node := &fakeNode{account: &authtypes.BaseAccount{Address: from, AccountNumber: 7, Sequence: 3}, gasUsed: 100000, included: true}
		client := newTestClient(t, tokens.GAIA, node)
		sc := NewSigningContext(c.wrap(signer))

		intent := sendIntent(t, from)
		sim, err := client.Simulate(context.Background(), sc, intent)
		require.NoError(t, err)
		result, err := client.SignAndBroadcast(context.Background(), sc, intent, sim)
		require.NoError(t, err, c.name)
		require.Len(t, node.broadcasts, 1)
		require.Equal(t, grpc.TxHash(node.broadcasts[0]), result.TxHash)
		require.Equal(t, "https://www.mintscan.io/cosmos/txs/"+result.TxHash, result.Explorer)
		require.Equal(t, int64(100000000), result.Deposited.Amount.Int64())

		sigTx, sig := decodeSigned(t, client, node.broadcasts[0], 7, 3)
		if mode := sig.Data.(*signing.SingleSignatureData).SignMode; mode != c.mode {
			t.Fatalf("%s expected sign mode %v, but got %v", c.name, c.mode, mode)
		}
		require.Equal(t, uint64(130000), sigTx.GetGas())
		require.Equal(t, "3250uatom", sigTx.GetFee().String())
	}
}

func TestBroadcastResultCodes(t *testing.T) {
	cases := []struct {
		code uint32
		ok   bool
	}{
		{0, true},
		{19, true},
		{5, false},
	}
	for _, c := range cases {
		signer := newKeySigner(t)
		from, err := signer.Address(tokens.GAIA)
		require.NoError(t, err)
		node := &fakeNode{account: &authtypes.BaseAccount{Address: from}, gasUsed: 1000, broadcastCode: c.code, included: true}
		client := newTestClient(t, tokens.GAIA, node)
		sc := NewSigningContext(signer)

		_, err = client.SignAndBroadcast(context.Background(), sc, sendIntent(t, from), &tokens.Simulation{Gas: 1300, Amount: big.NewInt(33)})
		if got := err == nil; got != c.ok {
			t.Fatalf("code %d expected ok %v, but got %v", c.code, c.ok, err)
		}
		if !c.ok {
			var broadcastErr *tokens.BroadcastTxError
			require.True(t, errors.As(err, &broadcastErr))
			require.Equal(t, c.code, broadcastErr.Code)
			require.Equal(t, grpc.TxHash(node.broadcasts[0]), broadcastErr.Hash)
		}
		require.Len(t, node.broadcasts, 1)
	}
}

func TestAwaitTimeout(t *testing.T) {
	signer := newKeySigner(t)
	from, err := signer.Address(tokens.GAIA)
	require.NoError(t, err)
	node := &fakeNode{account: &authtypes.BaseAccount{Address: from}, gasUsed: 1000}
	client := newTestClient(t, tokens.GAIA, node)
	client.Timeout = 30 * time.Millisecond

	_, err = client.SignAndBroadcast(context.Background(), NewSigningContext(signer), sendIntent(t, from), &tokens.Simulation{Gas: 1300, Amount: big.NewInt(33)})
	require.True(t, tokens.IsTimeoutError(err), "got %v", err)
	require.Len(t, node.broadcasts, 1)
}

func TestAwaitTx(t *testing.T) {
	cases := []struct {
		name    string
		node    *fakeNode
		polls   int
		errCode uint32
	}{
		{"included at once", &fakeNode{included: true}, 1, 0},
		{"included after pending polls", &fakeNode{included: true, pendingPolls: 2}, 3, 0},
		{"execution failed", &fakeNode{included: true, txCode: 11}, 1, 11},
	}
	for _, c := range cases {
		clientCtx := grpc.NewClientContext(NewClientContext()).WithClient(c.node)
		txHash := grpc.TxHash([]byte(c.name))
		res, err := grpc.AwaitTx(context.Background(), clientCtx, txHash, time.Millisecond, time.Second)
		if c.errCode != 0 {
			var broadcastErr *tokens.BroadcastTxError
			require.True(t, errors.As(err, &broadcastErr), c.name)
			require.Equal(t, c.errCode, broadcastErr.Code)
			require.Equal(t, txHash, broadcastErr.Hash)
		} else {
			require.NoError(t, err, c.name)
			require.Equal(t, int64(101), res.Height)
		}
		if c.node.txPolls != c.polls {
			t.Fatalf("%s expected %v, but got %v", c.name, c.polls, c.node.txPolls)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := grpc.AwaitTx(ctx, grpc.NewClientContext(NewClientContext()).WithClient(&fakeNode{}), grpc.TxHash([]byte("x")), time.Hour, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, tokens.IsTimeoutError(err))
}

func TestSignAndBroadcastEIP712(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	signer := &testTypedSigner{key: key}
	from := testAddressBytes(t, "cosmos", signer.Address().Bytes())

	node := &fakeNode{account: &authtypes.BaseAccount{Address: from, AccountNumber: 1, Sequence: 0}, gasUsed: 90000, included: true}
	client := newTestClient(t, tokens.GAIA, node)
	sc := NewTypedSigningContext(signer)
	require.Equal(t, signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, sc.SignMode())

	intent := sendIntent(t, from)
	sim, err := client.Simulate(context.Background(), sc, intent)
	require.NoError(t, err)
	_, err = client.SignAndBroadcast(context.Background(), sc, intent, sim)
	require.NoError(t, err)
	require.Len(t, node.broadcasts, 1)

	decoded, err := client.ClientContext().TxConfig().TxDecoder()(node.broadcasts[0])
	require.NoError(t, err)
	sigs, err := decoded.(authsigning.Tx).GetSignaturesV2()
	require.NoError(t, err)
	pubKey, ok := sigs[0].PubKey.(*EthPubKey)
	require.True(t, ok, "expected eth pubkey, got %T", sigs[0].PubKey)
	require.Equal(t, signer.Address().Bytes(), pubKey.Address().Bytes())
	data := sigs[0].Data.(*signing.SingleSignatureData)
	require.Equal(t, signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, data.SignMode)
	require.Len(t, data.Signature, 65)
	require.Less(t, data.Signature[64], byte(2))
}

func TestSignAndBroadcastEIP712WrongAccount(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	signer := &testTypedSigner{key: key}
	from := testAddress(t, "cosmos", 0x0a)

	node := &fakeNode{account: &authtypes.BaseAccount{Address: from}, gasUsed: 90000, included: true}
	client := newTestClient(t, tokens.GAIA, node)
	_, err = client.SignAndBroadcast(context.Background(), NewTypedSigningContext(signer), sendIntent(t, from), &tokens.Simulation{Gas: 1, Amount: big.NewInt(1)})
	require.ErrorIs(t, err, tokens.ErrSenderMismatch)
	require.Empty(t, node.broadcasts)
}
