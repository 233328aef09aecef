package cosmos

import (
	"context"
	"sync"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Signer cosmos keyed signer
type Signer interface {
	PubKey() cryptotypes.PubKey
	SignModes() []signing.SignMode
	Sign(ctx context.Context, mode signing.SignMode, signBytes []byte) ([]byte, error)
}

// TypedDataSigner evm keyed signer of a cosmos account, returns 65 bytes [R || S || V] signatures
type TypedDataSigner interface {
	Address() ethcommon.Address
	SignTypedData(ctx context.Context, typedData *apitypes.TypedData) ([]byte, error)
}

// SigningContext signer of one connected account.
// Exactly one of Signer and TypedSigner is set.
type SigningContext struct {
	Signer      Signer
	TypedSigner TypedDataSigner

	modeOnce sync.Once
	mode     signing.SignMode
}

// NewSigningContext context of cosmos keyed signer
func NewSigningContext(signer Signer) *SigningContext {
	return &SigningContext{Signer: signer}
}

// NewTypedSigningContext context of evm keyed signer
func NewTypedSigningContext(signer TypedDataSigner) *SigningContext {
	return &SigningContext{TypedSigner: signer}
}

// IsEIP712 signs through EIP-712 typed data
func (c *SigningContext) IsEIP712() bool {
	return c.TypedSigner != nil
}

// SignMode sign mode probed once, direct is preferred
func (c *SigningContext) SignMode() signing.SignMode {
	c.modeOnce.Do(func() {
		c.mode = signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON
		if c.Signer == nil {
			return
		}
		modes := c.Signer.SignModes()
		if len(modes) == 0 {
			c.mode = signing.SignMode_SIGN_MODE_DIRECT
			return
		}
		for _, mode := range modes {
			if mode == signing.SignMode_SIGN_MODE_DIRECT {
				c.mode = mode
				return
			}
		}
	})
	return c.mode
}

// placeholder key for accounts whose pubkey is unknown before signing
var simulationPubKey = secp256k1.GenPrivKeyFromSecret([]byte("simulation")).PubKey()

func (c *SigningContext) simulationPubKey() cryptotypes.PubKey {
	if c.Signer != nil {
		return c.Signer.PubKey()
	}
	return simulationPubKey
}

// KeySigner local secp256k1 key signer
type KeySigner struct {
	Key *secp256k1.PrivKey
}

// NewKeySigner new key signer from 32 bytes private key
func NewKeySigner(key []byte) (*KeySigner, error) {
	if len(key) != secp256k1.PrivKeySize {
		return nil, tokens.ErrInvalidPrivateKey
	}
	return &KeySigner{Key: &secp256k1.PrivKey{Key: append([]byte{}, key...)}}, nil
}

// PubKey implements Signer
func (s *KeySigner) PubKey() cryptotypes.PubKey {
	return s.Key.PubKey()
}

// SignModes implements Signer
func (s *KeySigner) SignModes() []signing.SignMode {
	return []signing.SignMode{signing.SignMode_SIGN_MODE_DIRECT, signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON}
}

// Sign implements Signer, both modes sign sha256 of the sign bytes
func (s *KeySigner) Sign(_ context.Context, _ signing.SignMode, signBytes []byte) ([]byte, error) {
	return s.Key.Sign(signBytes)
}

// Address bech32 address on chain
func (s *KeySigner) Address(chain tokens.Chain) (string, error) {
	return PublicKeyToAddress(chain, s.PubKey())
}
