package message

import (
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/tokens"
)

// deposit renders a value transfer carrying a memo into the protocol,
// either to the inbound vault of an external chain or by MsgDeposit on the hub.
type deposit struct {
	name      string
	asset     *tokens.Asset
	amount    *big.Int // canonical
	memo      string
	allowZero bool
}

// checkNetwork the asset must live on the active chain, a secured asset may
// only move while the active chain is the hub chain.
func checkNetwork(asset *tokens.Asset, active tokens.Chain) error {
	if asset == nil {
		return tokens.ErrInvalidAsset
	}
	if asset.IsSecured() {
		if active != tokens.HubChain {
			return tokens.NewIncorrectNetworkError(tokens.HubChain, active)
		}
		return nil
	}
	if asset.Chain != active {
		return tokens.NewIncorrectNetworkError(asset.Chain, active)
	}
	return nil
}

func checkFamily(name string, active tokens.Chain, target tokens.Family) error {
	if tokens.FamilyOf(active) != target {
		return tokens.NewUnsupportedError(fmt.Sprintf("%v on %v", name, active), target)
	}
	return nil
}

// prepare checks network and family and converts the canonical amount
func prepare(name string, asset *tokens.Asset, amount *big.Int, allowZero bool, active tokens.Chain, target tokens.Family) (*big.Int, *tokens.Deposited, error) {
	if err := checkNetwork(asset, active); err != nil {
		return nil, nil, err
	}
	if err := checkFamily(name, active, target); err != nil {
		return nil, nil, err
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, nil, fmt.Errorf("%w: %v", tokens.ErrInvalidAmount, amount)
	}
	if !asset.DecimalsKnown {
		return nil, nil, fmt.Errorf("%w: %v", tokens.ErrUnknownDecimals, asset)
	}
	native := tokens.FromCanonical(amount, asset.Decimals)
	if native.Sign() == 0 && !allowZero {
		return nil, nil, fmt.Errorf("%w: %v is zero in native units", tokens.ErrInvalidAmount, amount)
	}
	deposited := &tokens.Deposited{
		Asset:  asset.String(),
		Amount: tokens.ToDeposit(native, asset.Decimals),
	}
	return native, deposited, nil
}

func validateInbound(inbound *tokens.InboundAddress, active tokens.Chain, native *big.Int) error {
	if err := inbound.Validate(active); err != nil {
		return err
	}
	return inbound.CheckDust(native)
}

func (d *deposit) toCosmos(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	native, deposited, err := prepare(d.name, d.asset, d.amount, d.allowZero, active, tokens.CosmosFamily)
	if err != nil {
		return nil, err
	}
	intent := &CosmosIntent{
		Chain:     active,
		From:      from,
		Coins:     []*Coin{{Asset: d.asset, Amount: native}},
		Memo:      d.memo,
		Deposited: deposited,
	}
	if active == tokens.HubChain {
		intent.Kind = HubDepositKind
		return intent, nil
	}
	if err = validateInbound(inbound, active, native); err != nil {
		return nil, err
	}
	intent.Kind = BankSendKind
	intent.To = inbound.Address
	return intent, nil
}

func (d *deposit) toEvm(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	native, deposited, err := prepare(d.name, d.asset, d.amount, d.allowZero, active, tokens.EVMFamily)
	if err != nil {
		return nil, err
	}
	if err = validateInbound(inbound, active, native); err != nil {
		return nil, err
	}
	if inbound.Router == "" {
		return nil, fmt.Errorf("%w: %v", tokens.ErrMissingRouter, active)
	}
	intent := &EvmIntent{
		Kind:      RouterDeposit,
		Chain:     active,
		From:      from,
		To:        inbound.Router,
		Vault:     inbound.Address,
		Router:    inbound.Router,
		Amount:    native,
		Memo:      d.memo,
		Deposited: deposited,
	}
	if !d.asset.IsGasAsset() {
		if d.asset.Contract == "" {
			return nil, fmt.Errorf("%w: %v has no contract", tokens.ErrInvalidAsset, d.asset)
		}
		intent.Token = d.asset.Contract
		intent.Allowance = &AllowanceRequirement{
			Token:    d.asset.Contract,
			Owner:    from,
			Spender:  inbound.Router,
			Required: native,
		}
	}
	return intent, nil
}

func (d *deposit) toUtxo(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	native, deposited, err := prepare(d.name, d.asset, d.amount, d.allowZero, active, tokens.UTXOFamily)
	if err != nil {
		return nil, err
	}
	if err = validateInbound(inbound, active, native); err != nil {
		return nil, err
	}
	return &UtxoIntent{
		Chain:     active,
		From:      from,
		Recipient: inbound.Address,
		Amount:    native,
		Memo:      d.memo,
		FeeRate:   inbound.GasRate,
		Deposited: deposited,
	}, nil
}

func (d *deposit) toXrp(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	native, deposited, err := prepare(d.name, d.asset, d.amount, d.allowZero, active, tokens.XRPFamily)
	if err != nil {
		return nil, err
	}
	if err = validateInbound(inbound, active, native); err != nil {
		return nil, err
	}
	address, tag, err := tokens.SplitXrpAddress(inbound.Address)
	if err != nil {
		return nil, err
	}
	return &XrpIntent{
		From:           from,
		Destination:    address,
		DestinationTag: tag,
		Amount:         native,
		Memo:           d.memo,
		Deposited:      deposited,
	}, nil
}

func (d *deposit) toTron(active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	native, deposited, err := prepare(d.name, d.asset, d.amount, d.allowZero, active, tokens.TronFamily)
	if err != nil {
		return nil, err
	}
	if err = validateInbound(inbound, active, native); err != nil {
		return nil, err
	}
	intent := &TronIntent{
		Kind:      TrxTransfer,
		From:      from,
		To:        inbound.Address,
		Amount:    native,
		Memo:      d.memo,
		Deposited: deposited,
	}
	if !d.asset.IsGasAsset() {
		intent.Kind = Trc20Transfer
		intent.Contract = d.asset.Contract
	}
	return intent, nil
}

func newDeposit(m Message, allowZero bool) (*deposit, error) {
	memo, err := m.GetMemo()
	if err != nil {
		return nil, err
	}
	return &deposit{
		name:      m.Name(),
		asset:     m.GetAsset(),
		amount:    m.GetAmount(),
		memo:      memo,
		allowZero: allowZero,
	}, nil
}

func depositToCosmos(m Message, allowZero bool, active tokens.Chain, from string, inbound *tokens.InboundAddress) (*CosmosIntent, error) {
	d, err := newDeposit(m, allowZero)
	if err != nil {
		return nil, err
	}
	return d.toCosmos(active, from, inbound)
}

func depositToEvm(m Message, allowZero bool, active tokens.Chain, from string, inbound *tokens.InboundAddress) (*EvmIntent, error) {
	d, err := newDeposit(m, allowZero)
	if err != nil {
		return nil, err
	}
	return d.toEvm(active, from, inbound)
}

func depositToUtxo(m Message, allowZero bool, active tokens.Chain, from string, inbound *tokens.InboundAddress) (*UtxoIntent, error) {
	d, err := newDeposit(m, allowZero)
	if err != nil {
		return nil, err
	}
	return d.toUtxo(active, from, inbound)
}

func depositToXrp(m Message, allowZero bool, active tokens.Chain, from string, inbound *tokens.InboundAddress) (*XrpIntent, error) {
	d, err := newDeposit(m, allowZero)
	if err != nil {
		return nil, err
	}
	return d.toXrp(active, from, inbound)
}

func depositToTron(m Message, allowZero bool, active tokens.Chain, from string, inbound *tokens.InboundAddress) (*TronIntent, error) {
	d, err := newDeposit(m, allowZero)
	if err != nil {
		return nil, err
	}
	return d.toTron(active, from, inbound)
}
