package tokens

import (
	"fmt"
	"math/big"
)

// Account a connected address on a chain, owned by a wallet provider
type Account struct {
	Address  string `json:"address"`
	Chain    Chain  `json:"chain"`
	Provider string `json:"provider"`
}

// Ref reference of account used in selection persistence
func (a *Account) Ref() AccountRef {
	return AccountRef{Address: a.Address, Chain: a.Chain, Provider: a.Provider}
}

// String implements fmt.Stringer
func (a *Account) String() string {
	return fmt.Sprintf("%v:%v@%v", a.Chain, a.Address, a.Provider)
}

// AccountRef persisted account reference
type AccountRef struct {
	Address  string `json:"address" bson:"address"`
	Chain    Chain  `json:"chain" bson:"chain"`
	Provider string `json:"provider" bson:"provider"`
}

// Matches is reference of account
func (r AccountRef) Matches(account *Account) bool {
	return account != nil && r.Chain == account.Chain && r.Provider == account.Provider && r.Address == account.Address
}

// InboundAddress untrusted external routing and fee parameters
type InboundAddress struct {
	Chain         Chain    `json:"chain"`
	Address       string   `json:"address"`
	Router        string   `json:"router,omitempty"`
	GasRate       *big.Int `json:"gasRate"`
	GasRateUnits  string   `json:"gasRateUnits,omitempty"`
	DustThreshold *big.Int `json:"dustThreshold,omitempty"` // native units
	Halted        bool     `json:"halted,omitempty"`
}

// Validate validate inbound address against chain, must be called on every use
func (in *InboundAddress) Validate(chain Chain) error {
	if in == nil {
		return fmt.Errorf("%w: missing", ErrInvalidInbound)
	}
	if in.Chain != chain {
		return NewIncorrectNetworkError(chain, in.Chain)
	}
	if in.Halted {
		return fmt.Errorf("%w: %v", ErrInboundHalted, chain)
	}
	network, err := GetNetwork(chain)
	if err != nil {
		return err
	}
	if !network.IsValidAddress(in.Address) {
		return fmt.Errorf("%w: vault %v on %v", ErrInvalidInbound, in.Address, chain)
	}
	if in.Router != "" && !network.IsValidAddress(in.Router) {
		return fmt.Errorf("%w: router %v on %v", ErrInvalidInbound, in.Router, chain)
	}
	if in.GasRate != nil && in.GasRate.Sign() < 0 {
		return fmt.Errorf("%w: negative gas rate", ErrInvalidInbound)
	}
	return nil
}

// CheckDust check native amount against dust threshold
func (in *InboundAddress) CheckDust(native *big.Int) error {
	if in == nil || in.DustThreshold == nil {
		return nil
	}
	if native.Cmp(in.DustThreshold) < 0 {
		return fmt.Errorf("%w: %v < %v", ErrAmountBelowDust, native, in.DustThreshold)
	}
	return nil
}

// Simulation fee estimate of a message
type Simulation struct {
	ID       string   `json:"id,omitempty"`
	Chain    Chain    `json:"chain"`
	Symbol   string   `json:"symbol"`
	Decimals uint8    `json:"decimals"`
	Amount   *big.Int `json:"amount"`
	Gas      uint64   `json:"gas"`

	// family specific pricing carried to signing
	GasPrice  *big.Int `json:"gasPrice,omitempty"`
	GasTipCap *big.Int `json:"gasTipCap,omitempty"`
	FeeRate   *big.Int `json:"feeRate,omitempty"`
}

// Deposited canonical amount actually committed
type Deposited struct {
	Asset  string   `json:"asset"`
	Amount *big.Int `json:"amount"` // canonical 8 decimals
}

// TxResult normalized broadcast result
type TxResult struct {
	Chain     Chain      `json:"chain"`
	Address   string     `json:"address"`
	TxHash    string     `json:"txHash"`
	Explorer  string     `json:"explorer,omitempty"`
	Deposited *Deposited `json:"deposited,omitempty"`
}

// NewTxResult new tx result with explorer link
func NewTxResult(chain Chain, address, txHash string) *TxResult {
	result := &TxResult{Chain: chain, Address: address, TxHash: txHash}
	if network, err := GetNetwork(chain); err == nil {
		result.Explorer = network.GetExplorerTxURL(txHash)
	}
	return result
}
