package ripple

import (
	"bytes"
	"context"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/btcsuite/btcd/btcec"
	"github.com/rubblelabs/ripple/data"
)

// Signer secp256k1 signer, returns a DER signature of the signing hash
type Signer interface {
	PublicKey() []byte
	Sign(ctx context.Context, hash, msg []byte) ([]byte, error)
}

// KeySigner local private key signer
type KeySigner struct {
	key *btcec.PrivateKey
}

// NewKeySigner new key signer
func NewKeySigner(keyBytes []byte) (*KeySigner, error) {
	if len(keyBytes) != btcec.PrivKeyBytesLen {
		return nil, tokens.ErrInvalidPrivateKey
	}
	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), keyBytes)
	return &KeySigner{key: key}, nil
}

// PublicKey compressed public key
func (s *KeySigner) PublicKey() []byte {
	return s.key.PubKey().SerializeCompressed()
}

// Address classic address
func (s *KeySigner) Address() string {
	return PublicKeyToAddress(s.PublicKey())
}

// Sign sign hash with low S
func (s *KeySigner) Sign(_ context.Context, hash, _ []byte) ([]byte, error) {
	sig, err := s.key.Sign(hash)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

func verifySignature(pubkey, hash, sig []byte) error {
	pub, err := btcec.ParsePubKey(pubkey, btcec.S256())
	if err != nil {
		return fmt.Errorf("%w: %v", tokens.ErrWrongSignature, err)
	}
	signature, err := btcec.ParseDERSignature(sig, btcec.S256())
	if err != nil {
		return fmt.Errorf("%w: %v", tokens.ErrWrongSignature, err)
	}
	if !signature.Verify(hash, pub) {
		return tokens.ErrWrongSignature
	}
	return nil
}

// SignTransaction sign payment with signer, returns tx hash and signed blob
func SignTransaction(ctx context.Context, signer Signer, tx *data.Payment) (txHash, blob string, err error) {
	pubkey := signer.PublicKey()
	if !bytes.Equal(AccountID(pubkey), tx.Account.Bytes()) {
		return "", "", fmt.Errorf("%w: have %v want %v", tokens.ErrSenderMismatch, PublicKeyToAddress(pubkey), tx.Account.String())
	}

	tx.InitialiseForSigning()
	copy(tx.GetPublicKey().Bytes(), pubkey)
	msgHash, msg, err := data.SigningHash(tx)
	if err != nil {
		return "", "", err
	}
	msg = append(tx.SigningPrefix().Bytes(), msg...)

	sig, err := signer.Sign(ctx, msgHash.Bytes(), msg)
	if err != nil {
		return "", "", err
	}
	if err = verifySignature(pubkey, msgHash.Bytes(), sig); err != nil {
		return "", "", err
	}

	*tx.GetSignature() = data.VariableLength(sig)
	hash, raw, err := data.Raw(tx)
	if err != nil {
		log.Warn("encode ripple tx error", "error", err)
		return "", "", err
	}
	copy(tx.GetHash().Bytes(), hash.Bytes())
	return hash.String(), fmt.Sprintf("%X", raw), nil
}
