package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidAddress check address, mixed case must match checksum
func IsValidAddress(address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}
	unprefixedHex := address
	if has0xPrefix(address) {
		unprefixedHex = address[2:]
	}
	if strings.ToLower(unprefixedHex) == unprefixedHex || strings.ToUpper(unprefixedHex) == unprefixedHex {
		return true
	}
	return unprefixedHex == common.HexToAddress(address).Hex()[2:]
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// IsSameAddress compare addresses case insensitively
func IsSameAddress(a, b string) bool {
	return IsValidAddress(a) && IsValidAddress(b) && common.HexToAddress(a) == common.HexToAddress(b)
}
