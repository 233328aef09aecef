package remote

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/eth"
	"github.com/anyswap/CrossChain-Wallet/tokens/ripple"
	"github.com/anyswap/CrossChain-Wallet/tokens/tron"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/require"
)

const testToken = "secret"

var testKey, _ = hex.DecodeString("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")

var errUnauthorized = errors.New("unauthorized")

// SignerService fake signer daemon
type SignerService struct {
	evm   *eth.KeySigner
	xrp   *ripple.KeySigner
	tron  *tron.KeySigner
	calls int32
	extra []*Account
	deny  int32
}

func newSignerService(t *testing.T) *SignerService {
	evmSigner, err := eth.NewKeySigner(testKey, big.NewInt(1))
	require.NoError(t, err)
	xrpSigner, err := ripple.NewKeySigner(testKey)
	require.NoError(t, err)
	tronSigner, err := tron.NewKeySigner(testKey)
	require.NoError(t, err)
	return &SignerService{evm: evmSigner, xrp: xrpSigner, tron: tronSigner}
}

func (s *SignerService) check(r *http.Request) error {
	atomic.AddInt32(&s.calls, 1)
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		return errUnauthorized
	}
	if atomic.LoadInt32(&s.deny) != 0 {
		return &json2.Error{Code: CodeUserRejected, Message: "user denied"}
	}
	return nil
}

// GetAccounts accounts of the daemon
func (s *SignerService) GetAccounts(r *http.Request, _ *GetAccountsArgs, reply *[]*Account) error {
	if err := s.check(r); err != nil {
		return err
	}
	*reply = append([]*Account{
		{Chain: "ETH", Address: s.evm.Address().Hex(), Kind: KindEvm},
		{Chain: "XRP", Address: s.xrp.Address(), Kind: KindXrp, PubKey: hexutil.Encode(s.xrp.PublicKey())},
		{Chain: "TRON", Address: s.tron.Address(), Kind: KindTron},
		{Chain: "ETH", Address: s.evm.Address().Hex(), Kind: "solana"},
	}, s.extra...)
	return nil
}

// ChainID active chain id
func (s *SignerService) ChainID(r *http.Request, _ *AddressArgs, reply *hexutil.Big) error {
	if err := s.check(r); err != nil {
		return err
	}
	chainID, _ := s.evm.ChainID(r.Context())
	*reply = hexutil.Big(*chainID)
	return nil
}

// SwitchChain switch active chain
func (s *SignerService) SwitchChain(r *http.Request, args *SwitchChainArgs, reply *bool) error {
	if err := s.check(r); err != nil {
		return err
	}
	*reply = s.evm.SwitchChain(r.Context(), args.ChainID.ToInt()) == nil
	return nil
}

// SignEvmTx sign evm tx
func (s *SignerService) SignEvmTx(r *http.Request, args *SignEvmTxArgs, reply *hexutil.Bytes) error {
	if err := s.check(r); err != nil {
		return err
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(args.Tx); err != nil {
		return err
	}
	signed, err := s.evm.SignTx(r.Context(), tx, args.ChainID.ToInt())
	if err != nil {
		return err
	}
	*reply, err = signed.MarshalBinary()
	return err
}

// SignHash sign hash
func (s *SignerService) SignHash(r *http.Request, args *SignHashArgs, reply *hexutil.Bytes) error {
	if err := s.check(r); err != nil {
		return err
	}
	var (
		sig []byte
		err error
	)
	switch args.Chain {
	case "XRP":
		sig, err = s.xrp.Sign(r.Context(), args.Hash, args.Message)
	case "TRON":
		sig, err = s.tron.SignHash(r.Context(), args.Hash)
	default:
		err = errors.New("unsupported chain")
	}
	*reply = sig
	return err
}

// Disconnect forget the session
func (s *SignerService) Disconnect(r *http.Request, _ *EmptyArgs, reply *bool) error {
	*reply = true
	return s.check(r)
}

func newTestProvider(t *testing.T) (*Provider, *SignerService) {
	service := newSignerService(t)
	server := rpc.NewServer()
	server.RegisterCodec(json2.NewCodec(), "application/json")
	require.NoError(t, server.RegisterService(service, "Signer"))
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)
	return New(wallet.NewDispatcher(nil), ts.URL, testToken, 5*time.Second), service
}

func TestAbsentSigner(t *testing.T) {
	provider := New(wallet.NewDispatcher(nil), "", "", 0)
	require.False(t, provider.IsAvailable())
	_, err := provider.GetAccounts(context.Background())
	require.ErrorIs(t, err, tokens.ErrProviderUnavailable)
	require.NoError(t, provider.Disconnect(context.Background()))

	unreachable := New(wallet.NewDispatcher(nil), "http://127.0.0.1:1", "", time.Second)
	_, err = unreachable.GetAccounts(context.Background())
	require.ErrorIs(t, err, tokens.ErrProviderUnavailable)
}

func TestGetAccounts(t *testing.T) {
	provider, service := newTestProvider(t)
	accounts, err := provider.GetAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	kinds := make(map[tokens.Chain]wallet.Kind)
	for _, account := range accounts {
		require.Equal(t, ProviderID, account.Provider)
		kinds[account.Chain] = account.Context.Kind()
	}
	require.Equal(t, map[tokens.Chain]wallet.Kind{
		tokens.ETH:  wallet.EvmKind,
		tokens.XRP:  wallet.XrpKind,
		tokens.TRON: wallet.TronKind,
	}, kinds)

	var fired int32
	sub := provider.OnChange(func() { atomic.AddInt32(&fired, 1) })
	defer sub.Unsubscribe()

	_, err = provider.GetAccounts(context.Background())
	require.NoError(t, err)
	service.extra = []*Account{{Chain: "BSC", Address: service.evm.Address().Hex(), Kind: KindEvm}}
	accounts, err = provider.GetAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 4)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRemoteSigners(t *testing.T) {
	provider, service := newTestProvider(t)
	accounts, err := provider.GetAccounts(context.Background())
	require.NoError(t, err)
	signers := make(map[tokens.Chain]wallet.Context)
	for _, account := range accounts {
		signers[account.Chain] = account.Context
	}
	ctx := context.Background()

	evmSigner := signers[tokens.ETH].(*wallet.EvmContext).Signer
	require.NoError(t, evmSigner.SwitchChain(ctx, big.NewInt(56)))
	chainID, err := evmSigner.ChainID(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(56), chainID.Int64())

	to := common.HexToAddress("0x90529c2cea2c77856e777c993c6392cc60c5d5a2")
	tx := types.NewTx(&types.LegacyTx{Nonce: 3, To: &to, Value: big.NewInt(1000), Gas: 21000, GasPrice: big.NewInt(1e9)})
	signed, err := evmSigner.SignTx(ctx, tx, chainID)
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	require.Equal(t, service.evm.Address(), sender)

	xrpSigner := signers[tokens.XRP].(*wallet.XrpContext).Signer
	payment, err := ripple.NewUnsignedPaymentTransaction(&ripple.PaymentArgs{
		Account:     service.xrp.Address(),
		Destination: tokens.EncodeXrpAccountID(to.Bytes()),
		Amount:      1000000,
		Fee:         10,
		Sequence:    1,
	})
	require.NoError(t, err)
	txHash, blob, err := ripple.SignTransaction(ctx, xrpSigner, payment)
	require.NoError(t, err)
	require.Len(t, txHash, 64)
	require.NotEmpty(t, blob)

	atomic.StoreInt32(&service.deny, 1)
	tronSigner := signers[tokens.TRON].(*wallet.TronContext).Signer
	_, err = tronSigner.SignHash(ctx, make([]byte, 32))
	require.ErrorIs(t, err, tokens.ErrUserRejected)
	require.True(t, tokens.IsProviderError(err))
}

func TestUnauthorized(t *testing.T) {
	provider, _ := newTestProvider(t)
	provider.client.token = "wrong"
	_, err := provider.GetAccounts(context.Background())
	require.Error(t, err)
	require.False(t, errors.Is(err, tokens.ErrUserRejected))
	require.Contains(t, err.Error(), errUnauthorized.Error())
}
