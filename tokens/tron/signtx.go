package tron

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fbsobreira/gotron-sdk/pkg/proto/core"
)

// Signer signs the txid, returns a 65 bytes rsv signature
type Signer interface {
	SignHash(ctx context.Context, hash []byte) ([]byte, error)
}

// KeySigner local private key signer
type KeySigner struct {
	key *ecdsa.PrivateKey
}

// NewKeySigner new key signer
func NewKeySigner(keyBytes []byte) (*KeySigner, error) {
	key, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrInvalidPrivateKey, err)
	}
	return &KeySigner{key: key}, nil
}

// Address base58 address
func (s *KeySigner) Address() string {
	return PubKeyToAddress(&s.key.PublicKey)
}

// SignHash sign hash
func (s *KeySigner) SignHash(_ context.Context, hash []byte) ([]byte, error) {
	return crypto.Sign(hash, s.key)
}

// SignTx sign tx with signer and check the signature is from sender
func SignTx(ctx context.Context, signer Signer, tx *core.Transaction, sender string) (txHash string, err error) {
	hash, err := rawDataHash(tx)
	if err != nil {
		return "", err
	}
	signature, err := signer.SignHash(ctx, hash)
	if err != nil {
		return "", err
	}
	if len(signature) != crypto.SignatureLength {
		return "", fmt.Errorf("%w: length %v", tokens.ErrWrongSignature, len(signature))
	}
	sig := append([]byte{}, signature...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", tokens.ErrWrongSignature, err)
	}
	if signerAddr := PubKeyToAddress(pubKey); signerAddr != sender {
		return "", fmt.Errorf("%w: have %v want %v", tokens.ErrSenderMismatch, signerAddr, sender)
	}
	tx.Signature = append(tx.Signature, signature)
	return fmt.Sprintf("%x", hash), nil
}
