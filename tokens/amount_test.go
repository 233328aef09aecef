package tokens

import (
	"math/big"
	"testing"
)

func TestCanonicalRoundTrip(t *testing.T) {
	amounts := []int64{0, 1, 7, 100, 12345678, 50000000, 100000000, 123456789012345}
	for _, decimals := range []uint8{0, 6, 8, 18} {
		step := int64(1)
		if decimals < CanonicalDecimals {
			step = pow10(CanonicalDecimals - decimals).Int64()
		}
		for _, a := range amounts {
			amount := big.NewInt(a * step)
			native := FromCanonical(amount, decimals)
			back := ToDeposit(native, decimals)
			if back.Cmp(amount) != 0 {
				t.Fatalf("decimals %v amount %v expected %v, but got %v", decimals, amount, amount, back)
			}
		}
	}
}

func TestCanonicalFloor(t *testing.T) {
	cases := []struct {
		canonical int64
		decimals  uint8
		native    string
		deposited int64
	}{
		{50000000, 8, "50000000", 50000000},
		{50000000, 18, "500000000000000000", 50000000},
		{123456789, 6, "1234567", 123456700},
		{99, 6, "0", 0},
		{150, 0, "0", 0},
		{250000000, 0, "2", 200000000},
		{0, 18, "0", 0},
	}
	for _, c := range cases {
		native := FromCanonical(big.NewInt(c.canonical), c.decimals)
		if native.String() != c.native {
			t.Fatalf("FromCanonical(%v, %v) expected %v, but got %v", c.canonical, c.decimals, c.native, native)
		}
		deposited := ToDeposit(native, c.decimals)
		if deposited.Int64() != c.deposited {
			t.Fatalf("ToDeposit(%v, %v) expected %v, but got %v", native, c.decimals, c.deposited, deposited)
		}
	}
}

func TestParseAndFormatUnits(t *testing.T) {
	cases := []struct {
		input    string
		decimals uint8
		value    string
		format   string
		wantErr  bool
	}{
		{"0.5", 8, "50000000", "0.5", false},
		{"1", 8, "100000000", "1", false},
		{".25", 2, "25", "0.25", false},
		{"12.000001", 6, "12000001", "12.000001", false},
		{"0", 18, "0", "0", false},
		{"1.123456789", 8, "", "", true},
		{"-1", 8, "", "", true},
		{"1.2.3", 8, "", "", true},
		{"abc", 8, "", "", true},
	}
	for _, c := range cases {
		value, err := ParseUnits(c.input, c.decimals)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseUnits(%q) expected error, but got %v", c.input, value)
			}
			continue
		}
		if err != nil || value.String() != c.value {
			t.Fatalf("ParseUnits(%q) expected %v, but got %v (err %v)", c.input, c.value, value, err)
		}
		if got := FormatUnits(value, c.decimals); got != c.format {
			t.Fatalf("FormatUnits(%v) expected %v, but got %v", value, c.format, got)
		}
	}
}
