package tokens

import (
	"fmt"
	"math/big"
	"strings"
)

// CanonicalDecimals decimals of the chain agnostic amount unit
const CanonicalDecimals = 8

var (
	bigTen        = big.NewInt(10)
	canonicalUnit = new(big.Int).Exp(bigTen, big.NewInt(CanonicalDecimals), nil)
)

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(decimals)), nil)
}

// FromCanonical convert canonical 8 decimals amount to native amount (floor)
func FromCanonical(amount *big.Int, decimals uint8) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	native := new(big.Int).Mul(amount, pow10(decimals))
	return native.Quo(native, canonicalUnit)
}

// ToDeposit convert native amount back to canonical 8 decimals amount (floor)
func ToDeposit(native *big.Int, decimals uint8) *big.Int {
	if native == nil {
		return new(big.Int)
	}
	canonical := new(big.Int).Mul(native, canonicalUnit)
	return canonical.Quo(canonical, pow10(decimals))
}

// ParseCanonical parse decimal string like `0.5` to canonical amount
func ParseCanonical(s string) (*big.Int, error) {
	return ParseUnits(s, CanonicalDecimals)
}

// ParseUnits parse decimal string to integer amount with decimals
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	intPart, fracPart := parts[0], ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	fracPart += strings.Repeat("0", int(decimals)-len(fracPart))
	if intPart == "" {
		intPart = "0"
	}
	value, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return value, nil
}

// FormatUnits format integer amount with decimals
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	neg := value.Sign() < 0
	str := new(big.Int).Abs(value).String()
	if decimals > 0 {
		if len(str) <= int(decimals) {
			str = strings.Repeat("0", int(decimals)-len(str)+1) + str
		}
		pos := len(str) - int(decimals)
		str = strings.TrimRight(str[:pos]+"."+str[pos:], "0")
		str = strings.TrimSuffix(str, ".")
	}
	if neg {
		str = "-" + str
	}
	return str
}

// FormatCanonical format canonical amount
func FormatCanonical(value *big.Int) string {
	return FormatUnits(value, CanonicalDecimals)
}
