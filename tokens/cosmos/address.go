package cosmos

import (
	"encoding/hex"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/btcsuite/btcd/btcec"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// PublicKeyToAddress bech32 address of public key with chain prefix
func PublicKeyToAddress(chain tokens.Chain, pubKey cryptotypes.PubKey) (string, error) {
	network, err := tokens.GetNetwork(chain)
	if err != nil {
		return "", err
	}
	return bech32.ConvertAndEncode(network.Bech32Prefix, pubKey.Address().Bytes())
}

// PubKeyFromStr get public key from hex string
func PubKeyFromStr(pubKeyHex string) (cryptotypes.PubKey, error) {
	pubKeyHex = strings.TrimPrefix(pubKeyHex, "0x")
	bs, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return nil, err
	}
	return PubKeyFromBytes(bs)
}

// PubKeyFromBytes get compressed public key from bytes
func PubKeyFromBytes(pubKeyBytes []byte) (cryptotypes.PubKey, error) {
	cmp, err := btcec.ParsePubKey(pubKeyBytes, btcec.S256())
	if err != nil {
		return nil, err
	}

	compressedPublicKey := make([]byte, secp256k1.PubKeySize)
	copy(compressedPublicKey, cmp.SerializeCompressed())

	return &secp256k1.PubKey{Key: compressedPublicKey}, nil
}

// VerifyPubKey verify address is derived from public key
func VerifyPubKey(chain tokens.Chain, address string, pubKey cryptotypes.PubKey) error {
	addr, err := PublicKeyToAddress(chain, pubKey)
	if err != nil {
		return err
	}
	if address != addr {
		return tokens.ErrSenderMismatch
	}
	return nil
}

// AccAddressBytes decode bech32 address of chain
func AccAddressBytes(chain tokens.Chain, address string) ([]byte, error) {
	network, err := tokens.GetNetwork(chain)
	if err != nil {
		return nil, err
	}
	hrp, bz, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return nil, err
	}
	if hrp != network.Bech32Prefix {
		return nil, tokens.ErrInvalidAddress
	}
	return bz, nil
}
