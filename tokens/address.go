package tokens

import (
	"bytes"
	"crypto/sha256"
	"regexp"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	ethcommon "github.com/ethereum/go-ethereum/common"
	tronaddress "github.com/fbsobreira/gotron-sdk/pkg/address"
	"github.com/mr-tron/base58"
)

// XrpAlphabet ripple base58 alphabet
var XrpAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

var rAddressReg = regexp.MustCompile(`^r[1-9a-km-zA-HJ-NP-Z]{24,34}$`)

// LtcMainNetParams litecoin main net params
var LtcMainNetParams = chaincfg.Params{
	Name:             "litecoin",
	Net:              wire.BitcoinNet(0xdbb6c0fb),
	DefaultPort:      "9333",
	Bech32HRPSegwit:  "ltc",
	PubKeyHashAddrID: 0x30,
	ScriptHashAddrID: 0x32,
	PrivateKeyID:     0xb0,
	HDCoinType:       2,
}

// BchMainNetParams bitcoin cash main net params, legacy base58 addresses only
var BchMainNetParams = chaincfg.Params{
	Name:             "bitcoincash",
	Net:              wire.BitcoinNet(0xe8f3e1e3),
	DefaultPort:      "8333",
	PubKeyHashAddrID: 0x00,
	ScriptHashAddrID: 0x05,
	PrivateKeyID:     0x80,
	HDCoinType:       145,
}

// DogeMainNetParams dogecoin main net params
var DogeMainNetParams = chaincfg.Params{
	Name:             "dogecoin",
	Net:              wire.BitcoinNet(0xc0c0c0c0),
	DefaultPort:      "22556",
	PubKeyHashAddrID: 0x1e,
	ScriptHashAddrID: 0x16,
	PrivateKeyID:     0x9e,
	HDCoinType:       3,
}

func init() {
	// registration makes the segwit prefix known to address decoding
	_ = chaincfg.Register(&LtcMainNetParams)
	_ = chaincfg.Register(&DogeMainNetParams)
}

// ChainParams get utxo chain params
func ChainParams(chain Chain) *chaincfg.Params {
	switch chain {
	case BTC:
		return &chaincfg.MainNetParams
	case LTC:
		return &LtcMainNetParams
	case BCH:
		return &BchMainNetParams
	case DOGE:
		return &DogeMainNetParams
	default:
		return nil
	}
}

// DecodeUtxoAddress decode utxo address of chain
func DecodeUtxoAddress(chain Chain, address string) (btcutil.Address, error) {
	params := ChainParams(chain)
	if params == nil {
		return nil, ErrUnknownChain
	}
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, err
	}
	if !addr.IsForNet(params) {
		return nil, ErrInvalidAddress
	}
	return addr, nil
}

func isValidUtxoAddress(chain Chain, address string) bool {
	_, err := DecodeUtxoAddress(chain, address)
	return err == nil
}

func isValidBech32Address(prefix, address string) bool {
	hrp, bz, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return false
	}
	return hrp == prefix && (len(bz) == 20 || len(bz) == 32)
}

func isValidEvmAddress(address string) bool {
	return ethcommon.IsHexAddress(address) && strings.HasPrefix(address, "0x")
}

func isValidTronAddress(address string) bool {
	if len(address) != tronaddress.AddressLengthBase58 {
		return false
	}
	addr, err := tronaddress.Base58ToAddress(address)
	return err == nil && len(addr) == tronaddress.AddressLength
}

// SplitXrpAddress split `address[:tag]`
func SplitXrpAddress(s string) (address string, tag *uint32, err error) {
	parts := strings.Split(s, ":")
	if len(parts) > 2 {
		return "", nil, ErrInvalidAddress
	}
	address = parts[0]
	if len(parts) == 2 && parts[1] != "" {
		value, errp := strconv.ParseUint(parts[1], 10, 32)
		if errp != nil {
			return "", nil, ErrInvalidAddress
		}
		t := uint32(value)
		tag = &t
	}
	return address, tag, nil
}

// DecodeXrpAccountID decode classic xrp address to 20 bytes account id
func DecodeXrpAccountID(address string) ([]byte, error) {
	if !rAddressReg.MatchString(address) {
		return nil, ErrInvalidAddress
	}
	decoded, err := base58.DecodeAlphabet(address, XrpAlphabet)
	if err != nil || len(decoded) != 25 || decoded[0] != 0 {
		return nil, ErrInvalidAddress
	}
	payload, checksum := decoded[:21], decoded[21:]
	if !bytes.Equal(doubleSha256(payload)[:4], checksum) {
		return nil, ErrInvalidAddress
	}
	return payload[1:], nil
}

// EncodeXrpAccountID encode 20 bytes account id to classic xrp address
func EncodeXrpAccountID(accountID []byte) string {
	payload := append([]byte{0}, accountID...)
	payload = append(payload, doubleSha256(payload)[:4]...)
	return base58.EncodeAlphabet(payload, XrpAlphabet)
}

// IsValidXrpAddress is valid classic xrp address with optional `:tag`
func IsValidXrpAddress(s string) bool {
	address, _, err := SplitXrpAddress(s)
	if err != nil {
		return false
	}
	_, err = DecodeXrpAccountID(address)
	return err == nil
}

func doubleSha256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}
