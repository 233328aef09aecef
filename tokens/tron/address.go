package tron

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/ethereum/go-ethereum/common"

	tronaddress "github.com/fbsobreira/gotron-sdk/pkg/address"
)

// IsValidAddress check base58 address
func IsValidAddress(address string) bool {
	if len(address) != tronaddress.AddressLengthBase58 {
		return false
	}
	addr, err := tronaddress.Base58ToAddress(address)
	return err == nil && len(addr) == tronaddress.AddressLength
}

// ToHexAddress convert base58 address to `41` prefixed hex used by the http api
func ToHexAddress(address string) (string, error) {
	if !IsValidAddress(address) {
		return "", fmt.Errorf("%w: %v", tokens.ErrInvalidAddress, address)
	}
	addr, _ := tronaddress.Base58ToAddress(address)
	return hex.EncodeToString(addr.Bytes()), nil
}

// ToEthAddress the 20 bytes body of address, used in abi parameters
func ToEthAddress(address string) (common.Address, error) {
	if !IsValidAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %v", tokens.ErrInvalidAddress, address)
	}
	addr, _ := tronaddress.Base58ToAddress(address)
	return common.BytesToAddress(addr.Bytes()[1:]), nil
}

// FromEthAddress base58 address of a 20 bytes body
func FromEthAddress(ethAddress common.Address) string {
	bz := append([]byte{tronaddress.TronBytePrefix}, ethAddress.Bytes()...)
	return tronaddress.Address(bz).String()
}

// PubKeyToAddress base58 address of public key
func PubKeyToAddress(pubKey *ecdsa.PublicKey) string {
	return tronaddress.PubkeyToAddress(*pubKey).String()
}
