package tokens

import (
	"errors"
	"fmt"
	"math/big"
)

// common errors
var (
	ErrNotImplemented          = errors.New("not implemented")
	ErrUnknownChain            = errors.New("unknown chain")
	ErrUnknownFamily           = errors.New("unknown chain family")
	ErrInvalidAsset            = errors.New("invalid asset")
	ErrUnknownDecimals         = errors.New("unknown asset decimals")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidAddress          = errors.New("invalid address")
	ErrInvalidMemo             = errors.New("invalid memo")
	ErrInvalidInbound          = errors.New("invalid inbound address")
	ErrInboundHalted           = errors.New("inbound address is halted")
	ErrMissingRouter           = errors.New("inbound address has no router")
	ErrAmountBelowDust         = errors.New("amount is below dust threshold")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrInsufficientFundsForGas = errors.New("insufficient funds for gas")
	ErrMemoTooLong             = errors.New("memo too long")
	ErrTxNotFound              = errors.New("tx not found")
	ErrWrongRawTx              = errors.New("wrong raw tx")
	ErrWrongSignature          = errors.New("wrong signature")
	ErrInvalidPrivateKey       = errors.New("invalid private key")
	ErrSenderMismatch          = errors.New("sender mismatch")
	ErrEstimateGasFailed       = errors.New("estimate gas failed")
	ErrRPCQueryError           = errors.New("rpc query error")
	ErrSimulationMismatch      = errors.New("simulation does not match message")
	ErrSimulationConsumed      = errors.New("simulation already consumed")
	ErrSimulationNotFound      = errors.New("simulation not found or expired")

	// provider boundary errors, surfaced to users as plain errors
	ErrProviderUnavailable = errors.New("wallet provider is not available")
	ErrProviderNotFound    = errors.New("wallet provider not found")
	ErrUserRejected        = errors.New("user rejected the request")
	ErrAccountNotFound     = errors.New("account not found")
)

// IncorrectNetworkError a message is rendered against the wrong chain
type IncorrectNetworkError struct {
	Expected Chain
	Got      Chain
}

// Error implements error
func (e *IncorrectNetworkError) Error() string {
	return fmt.Sprintf("incorrect network: expected %v, but got %v", e.Expected, e.Got)
}

// NewIncorrectNetworkError new IncorrectNetworkError
func NewIncorrectNetworkError(expected, got Chain) error {
	return &IncorrectNetworkError{Expected: expected, Got: got}
}

// UnsupportedError a message variant cannot be rendered to a chain family
type UnsupportedError struct {
	Variant string
	Target  Family
}

// Error implements error
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%v is unsupported for %v", e.Variant, e.Target)
}

// NewUnsupportedError new UnsupportedError
func NewUnsupportedError(variant string, target Family) error {
	return &UnsupportedError{Variant: variant, Target: target}
}

// InsufficientAllowanceError erc20 allowance is lower than required
type InsufficientAllowanceError struct {
	Token    string
	Spender  string
	Current  *big.Int
	Required *big.Int
}

// Error implements error
func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("insufficient allowance of token %v for spender %v: current %v, required %v", e.Token, e.Spender, e.Current, e.Required)
}

// BroadcastTxError node rejected the signed transaction
type BroadcastTxError struct {
	Code      uint32
	Codespace string
	Log       string
	Hash      string
}

// Error implements error
func (e *BroadcastTxError) Error() string {
	return fmt.Sprintf("broadcast tx %v failed: codespace %v, code %v, log %v", e.Hash, e.Codespace, e.Code, e.Log)
}

// TimeoutError confirmation is not observed in time, the outcome is unknown
type TimeoutError struct {
	Hash    string
	Timeout string
}

// Error implements error
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("tx %v not confirmed within %v, outcome unknown", e.Hash, e.Timeout)
}

// IsIncorrectNetworkError is incorrect network error
func IsIncorrectNetworkError(err error) bool {
	var target *IncorrectNetworkError
	return errors.As(err, &target)
}

// IsUnsupportedError is unsupported error
func IsUnsupportedError(err error) bool {
	var target *UnsupportedError
	return errors.As(err, &target)
}

// IsTimeoutError is timeout error
func IsTimeoutError(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}

// IsProviderError is error happened at the wallet provider boundary
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrProviderNotFound) ||
		errors.Is(err, ErrUserRejected)
}
