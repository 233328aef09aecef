package eth

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeySigner local private key signer, its active chain is switchable
type KeySigner struct {
	key *ecdsa.PrivateKey

	mu      sync.Mutex
	chainID *big.Int
}

// NewKeySigner new key signer with initial active chain
func NewKeySigner(keyBytes []byte, chainID *big.Int) (*KeySigner, error) {
	key, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrInvalidPrivateKey, err)
	}
	return &KeySigner{key: key, chainID: new(big.Int).Set(chainID)}, nil
}

// Address signer address
func (s *KeySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// ChainID active chain id
func (s *KeySigner) ChainID(context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.chainID), nil
}

// SwitchChain switch active chain
func (s *KeySigner) SwitchChain(_ context.Context, chainID *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chainID = new(big.Int).Set(chainID)
	return nil
}

// SignTx sign tx with latest signer of chain
func (s *KeySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

// SignTxWithSignature attach a 65 bytes rsv signature produced elsewhere,
// the recovery id is flipped until the sender matches.
func SignTxWithSignature(tx *types.Transaction, chainID *big.Int, signature []byte, signerAddr common.Address) (*types.Transaction, error) {
	if len(signature) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: length %v", tokens.ErrWrongSignature, len(signature))
	}
	sig := common.CopyBytes(signature)
	vPos := crypto.SignatureLength - 1
	if sig[vPos] >= 27 {
		sig[vPos] -= 27
	}
	signer := types.LatestSignerForChainID(chainID)
	for i := 0; i < 2; i++ {
		signedTx, err := tx.WithSignature(signer, sig)
		if err != nil {
			return nil, err
		}

		sender, err := types.Sender(signer, signedTx)
		if err != nil {
			return nil, err
		}

		if sender == signerAddr {
			return signedTx, nil
		}

		sig[vPos] ^= 0x1 // v can only be 0 or 1
	}

	return nil, tokens.ErrSenderMismatch
}

// checkSigned signed tx must come from the intent sender on the wanted chain
func checkSigned(signedTx *types.Transaction, chainID *big.Int, from common.Address) error {
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signedTx)
	if err != nil {
		return fmt.Errorf("%w: %v", tokens.ErrWrongSignature, err)
	}
	if sender != from {
		return fmt.Errorf("%w: have %v want %v", tokens.ErrSenderMismatch, sender.Hex(), from.Hex())
	}
	return nil
}
