package walletapi

import (
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/session"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/anyswap/CrossChain-Wallet/wallet"
)

// ConvertNetwork convert
func ConvertNetwork(n *tokens.Network) *NetworkInfo {
	return &NetworkInfo{
		Chain:         n.Chain,
		Family:        n.Family.String(),
		GasAsset:      n.GasAsset,
		GasDecimals:   n.GasDecimals,
		CosmosChainID: n.CosmosChainID,
		EVMChainID:    n.EVMChainID,
		Gateway:       params.GetGatewayConfig(string(n.Chain)) != nil,
	}
}

// ConvertAccount convert
func ConvertAccount(account *wallet.AccountContext, state *session.State) *AccountInfo {
	ref, exist := state.Selected[account.Chain]
	return &AccountInfo{
		Chain:    account.Chain,
		Address:  account.Address,
		Provider: account.Provider,
		Kind:     account.KindName(),
		Selected: exist && ref.Matches(&account.Account),
	}
}

// ConvertAccounts convert
func ConvertAccounts(accounts []*wallet.AccountContext, state *session.State) []*AccountInfo {
	result := make([]*AccountInfo, len(accounts))
	for k, v := range accounts {
		result[k] = ConvertAccount(v, state)
	}
	return result
}

// ConvertState convert
func ConvertState(state *session.State) *StateInfo {
	p := state.Persisted()
	return &StateInfo{
		Status:    state.Status.String(),
		Providers: p.Providers,
		Selected:  p.Selected,
		Accounts:  ConvertAccounts(state.Accounts, state),
	}
}

func parseAssetAndAmount(args *MessageArgs) (*tokens.Asset, *big.Int, error) {
	asset, err := tokens.ParseAsset(args.Asset)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case args.Decimals == nil:
		if !asset.DecimalsKnown {
			return nil, nil, fmt.Errorf("%w: decimals of %v is required", tokens.ErrUnknownDecimals, asset)
		}
	case asset.DecimalsKnown && *args.Decimals != asset.Decimals:
		return nil, nil, fmt.Errorf("%w: %v has %d decimals", ErrInvalidArgs, asset, asset.Decimals)
	default:
		asset = asset.WithDecimals(*args.Decimals)
	}
	if args.Amount == "" {
		return asset, new(big.Int), nil
	}
	amount, err := tokens.ParseCanonical(args.Amount)
	if err != nil {
		return nil, nil, err
	}
	return asset, amount, nil
}

// ToMessage convert args to message
func (args *MessageArgs) ToMessage() (message.Message, error) {
	asset, amount, err := parseAssetAndAmount(args)
	if err != nil {
		return nil, err
	}
	switch args.Type {
	case DepositMessage:
		return &message.Deposit{Asset: asset, Amount: amount, Memo: args.Memo}, nil
	case SendMessage:
		return &message.Send{Asset: asset, Amount: amount, Recipient: args.Recipient, Memo: args.Memo}, nil
	case SwapMessage:
		return message.NewSwap(asset, amount, &tokens.Quote{Memo: args.Memo}), nil
	case AddLiquidityMessage, WithdrawLiquidityMessage:
		pool, err := tokens.ParseAsset(args.Pool)
		if err != nil {
			return nil, fmt.Errorf("pool: %w", err)
		}
		if args.Type == WithdrawLiquidityMessage {
			return &message.WithdrawLiquidity{Pool: pool, Asset: asset, Amount: amount, Bps: args.Bps}, nil
		}
		return &message.AddLiquidity{
			Pool:          pool,
			Asset:         asset,
			Amount:        amount,
			PairedAddress: args.PairedAddress,
			Affiliate:     args.Affiliate,
			AffiliateBps:  args.AffiliateBps,
		}, nil
	case ExecuteMessage:
		return &message.Execute{Asset: asset, Amount: amount, Contract: args.Contract, Payload: args.Payload}, nil
	case IbcTransferMessage:
		return &message.IbcTransfer{
			Asset:         asset,
			Amount:        amount,
			Receiver:      args.Recipient,
			SourcePort:    args.SourcePort,
			SourceChannel: args.SourceChannel,
			TimeoutNanos:  args.TimeoutNanos,
			Memo:          args.Memo,
		}, nil
	case SecureDepositMessage:
		return &message.SecureDeposit{Asset: asset, Amount: amount, HubAddress: args.HubAddress}, nil
	case SecureWithdrawMessage:
		return &message.SecureWithdraw{Asset: asset, Amount: amount, Address: args.Address}, nil
	case SwitchMessage:
		return &message.Switch{Asset: asset, Amount: amount, HubAddress: args.HubAddress}, nil
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", ErrInvalidArgs, args.Type)
	}
}

// ActiveChainOf chain a message of asset is rendered against by default
func ActiveChainOf(asset *tokens.Asset) tokens.Chain {
	if asset.IsSecured() {
		return tokens.HubChain
	}
	return asset.Chain
}
