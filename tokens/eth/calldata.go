package eth

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ABIJSON = `[
{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

const routerABIJSON = `[
{"type":"function","name":"depositWithExpiry","stateMutability":"payable","inputs":[{"name":"vault","type":"address"},{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"memo","type":"string"},{"name":"expiration","type":"uint256"}],"outputs":[]}
]`

var (
	erc20ABI  = mustParseABI(erc20ABIJSON)
	routerABI = mustParseABI(routerABIJSON)

	// function selectors
	erc20CodeParts = map[string][]byte{
		"transfer":  erc20ABI.Methods["transfer"].ID,  // 0xa9059cbb
		"approve":   erc20ABI.Methods["approve"].ID,   // 0x095ea7b3
		"allowance": erc20ABI.Methods["allowance"].ID, // 0xdd62ed3e
	}
	depositWithExpiryID = routerABI.Methods["depositWithExpiry"].ID
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

func toAddress(address string) (common.Address, error) {
	if !IsValidAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %v", tokens.ErrInvalidAddress, address)
	}
	return common.HexToAddress(address), nil
}

// PackTransfer erc20 `transfer(address,uint256)` input
func PackTransfer(to string, amount *big.Int) ([]byte, error) {
	toAddr, err := toAddress(to)
	if err != nil {
		return nil, err
	}
	return erc20ABI.Pack("transfer", toAddr, amount)
}

// PackApprove erc20 `approve(address,uint256)` input
func PackApprove(spender string, amount *big.Int) ([]byte, error) {
	spenderAddr, err := toAddress(spender)
	if err != nil {
		return nil, err
	}
	return erc20ABI.Pack("approve", spenderAddr, amount)
}

// PackAllowance erc20 `allowance(address,address)` input
func PackAllowance(owner, spender string) ([]byte, error) {
	ownerAddr, err := toAddress(owner)
	if err != nil {
		return nil, err
	}
	spenderAddr, err := toAddress(spender)
	if err != nil {
		return nil, err
	}
	return erc20ABI.Pack("allowance", ownerAddr, spenderAddr)
}

// UnpackAllowance decode allowance call result
func UnpackAllowance(output []byte) (*big.Int, error) {
	values, err := erc20ABI.Unpack("allowance", output)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("wrong allowance output length %v", len(values))
	}
	allowance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("wrong allowance output type %T", values[0])
	}
	return allowance, nil
}

// PackDepositWithExpiry router
// `depositWithExpiry(address,address,uint256,string,uint256)` input.
// An empty token deposits the gas asset as the zero address.
func PackDepositWithExpiry(vault, token string, amount *big.Int, memo string, expiration *big.Int) ([]byte, error) {
	vaultAddr, err := toAddress(vault)
	if err != nil {
		return nil, err
	}
	var assetAddr common.Address
	if token != "" {
		if assetAddr, err = toAddress(token); err != nil {
			return nil, err
		}
	}
	return routerABI.Pack("depositWithExpiry", vaultAddr, assetAddr, amount, memo, expiration)
}
