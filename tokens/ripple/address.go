package ripple

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // xrp account id
)

// IsValidAddress check classic address with optional `:tag`, x-addresses are rejected
func IsValidAddress(addr string) bool {
	return tokens.IsValidXrpAddress(addr)
}

// GetAddressAndTag get address and tag
func GetAddressAndTag(s string) (addr string, tag *uint32, err error) {
	if !IsValidAddress(s) {
		return "", nil, fmt.Errorf("%w: '%s'", tokens.ErrInvalidAddress, s)
	}
	return tokens.SplitXrpAddress(s)
}

// AccountID ripemd160(sha256(pubkey))
func AccountID(pubkey []byte) []byte {
	sha := sha256.Sum256(pubkey)
	hasher := ripemd160.New()
	_, _ = hasher.Write(sha[:])
	return hasher.Sum(nil)
}

// PublicKeyToAddress converts pubkey to ripple address
func PublicKeyToAddress(pubkey []byte) string {
	return tokens.EncodeXrpAccountID(AccountID(pubkey))
}

// PublicKeyHexToAddress convert public key hex to ripple address
func PublicKeyHexToAddress(pubKeyHex string) (string, error) {
	pub, err := hex.DecodeString(strings.TrimPrefix(pubKeyHex, "0x"))
	if err != nil {
		return "", err
	}
	return PublicKeyToAddress(pub), nil
}
