package remote

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/btc"
	"github.com/btcsuite/btcd/wire"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

type utxoSigner struct {
	client  *Client
	chain   tokens.Chain
	address string
}

func sameOutputs(a, b *wire.MsgTx) bool {
	if len(a.TxIn) != len(b.TxIn) || len(a.TxOut) != len(b.TxOut) {
		return false
	}
	for i, in := range a.TxIn {
		if in.PreviousOutPoint != b.TxIn[i].PreviousOutPoint {
			return false
		}
	}
	for i, out := range a.TxOut {
		if out.Value != b.TxOut[i].Value || !bytes.Equal(out.PkScript, b.TxOut[i].PkScript) {
			return false
		}
	}
	return true
}

func (s *utxoSigner) SignTx(ctx context.Context, tx *wire.MsgTx, prevOuts []*btc.Utxo) (*wire.MsgTx, error) {
	txHex, err := btc.SerializeTx(tx)
	if err != nil {
		return nil, err
	}
	var signedHex string
	args := &SignUtxoTxArgs{Chain: s.chain.String(), Address: s.address, Tx: txHex, PrevOuts: prevOuts}
	if err = s.client.Call(ctx, MethodSignUtxoTx, args, &signedHex); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(signedHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrWrongRawTx, err)
	}
	signed := new(wire.MsgTx)
	if err = signed.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrWrongRawTx, err)
	}
	if !sameOutputs(tx, signed) {
		return nil, fmt.Errorf("%w: signed tx differs from the request", tokens.ErrWrongRawTx)
	}
	return signed, nil
}

type cosmosSigner struct {
	client  *Client
	chain   tokens.Chain
	address string
	pubKey  cryptotypes.PubKey
}

func (s *cosmosSigner) PubKey() cryptotypes.PubKey {
	return s.pubKey
}

func (s *cosmosSigner) SignModes() []signing.SignMode {
	return []signing.SignMode{signing.SignMode_SIGN_MODE_DIRECT, signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON}
}

func (s *cosmosSigner) Sign(ctx context.Context, mode signing.SignMode, signBytes []byte) ([]byte, error) {
	var sig hexutil.Bytes
	args := &SignCosmosArgs{Chain: s.chain.String(), Address: s.address, Mode: mode.String(), SignBytes: signBytes}
	if err := s.client.Call(ctx, MethodSignCosmos, args, &sig); err != nil {
		return nil, err
	}
	return sig, nil
}

type typedDataSigner struct {
	client  *Client
	chain   tokens.Chain
	address common.Address
}

func (s *typedDataSigner) Address() common.Address {
	return s.address
}

func (s *typedDataSigner) SignTypedData(ctx context.Context, typedData *apitypes.TypedData) ([]byte, error) {
	var sig hexutil.Bytes
	args := &SignTypedDataArgs{Chain: s.chain.String(), Address: s.address, TypedData: typedData}
	if err := s.client.Call(ctx, MethodSignTypedData, args, &sig); err != nil {
		return nil, err
	}
	return sig, nil
}

type evmSigner struct {
	client  *Client
	address common.Address
}

func (s *evmSigner) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID hexutil.Big
	if err := s.client.Call(ctx, MethodChainID, &AddressArgs{Address: s.address}, &chainID); err != nil {
		return nil, err
	}
	return chainID.ToInt(), nil
}

func (s *evmSigner) SwitchChain(ctx context.Context, chainID *big.Int) error {
	var switched bool
	args := &SwitchChainArgs{Address: s.address, ChainID: (*hexutil.Big)(chainID)}
	if err := s.client.Call(ctx, MethodSwitchChain, args, &switched); err != nil {
		return err
	}
	if !switched {
		return fmt.Errorf("%w: switch to chain %v", tokens.ErrUserRejected, chainID)
	}
	return nil
}

func (s *evmSigner) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	var signedRaw hexutil.Bytes
	args := &SignEvmTxArgs{Address: s.address, ChainID: (*hexutil.Big)(chainID), Tx: raw}
	if err = s.client.Call(ctx, MethodSignEvmTx, args, &signedRaw); err != nil {
		return nil, err
	}
	signed := new(types.Transaction)
	if err = signed.UnmarshalBinary(signedRaw); err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrWrongRawTx, err)
	}
	if signed.Nonce() != tx.Nonce() || signed.Value().Cmp(tx.Value()) != 0 ||
		!bytes.Equal(signed.Data(), tx.Data()) || signed.To() == nil || tx.To() == nil || *signed.To() != *tx.To() {
		return nil, fmt.Errorf("%w: signed tx differs from the request", tokens.ErrWrongRawTx)
	}
	return signed, nil
}

type hashSigner struct {
	client  *Client
	chain   tokens.Chain
	address string
	pubKey  []byte
}

// SignHash tron signer
func (s *hashSigner) SignHash(ctx context.Context, hash []byte) ([]byte, error) {
	return s.Sign(ctx, hash, nil)
}

// PublicKey xrp signer
func (s *hashSigner) PublicKey() []byte {
	return s.pubKey
}

// Sign xrp signer
func (s *hashSigner) Sign(ctx context.Context, hash, msg []byte) ([]byte, error) {
	var sig hexutil.Bytes
	args := &SignHashArgs{Chain: s.chain.String(), Address: s.address, Hash: hash, Message: msg}
	if err := s.client.Call(ctx, MethodSignHash, args, &sig); err != nil {
		return nil, err
	}
	return sig, nil
}
