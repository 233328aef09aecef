// Package walletapi implements the wallet api shared by the rpc services.
package walletapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/session"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/anyswap/CrossChain-Wallet/wallet"
)

// ErrInvalidArgs invalid args
var ErrInvalidArgs = errors.New("invalid args")

// Service wallet api service
type Service struct {
	manager *session.Manager
	pending *PendingSimulations
}

// NewService new service
func NewService(manager *session.Manager, pending *PendingSimulations) *Service {
	return &Service{manager: manager, pending: pending}
}

// Manager session manager
func (s *Service) Manager() *session.Manager {
	return s.manager
}

// Pending pending simulations
func (s *Service) Pending() *PendingSimulations {
	return s.pending
}

// GetServerInfo get server info
func (s *Service) GetServerInfo() *ServerInfo {
	return &ServerInfo{
		Identifier: params.GetIdentifier(),
		Version:    params.VersionWithMeta,
		Providers:  s.manager.ProviderIDs(),
	}
}

// GetNetworks get networks
func (s *Service) GetNetworks() []*NetworkInfo {
	networks := tokens.AllNetworks()
	result := make([]*NetworkInfo, len(networks))
	for i, n := range networks {
		result[i] = ConvertNetwork(n)
	}
	return result
}

// GetProviders get providers
func (s *Service) GetProviders() []*ProviderInfo {
	state := s.manager.State()
	ids := s.manager.ProviderIDs()
	result := make([]*ProviderInfo, len(ids))
	for i, id := range ids {
		result[i] = &ProviderInfo{ID: id, Connected: state.HasProvider(id)}
	}
	return result
}

// GetState get session state
func (s *Service) GetState() *StateInfo {
	return ConvertState(s.manager.State())
}

// GetAccounts get connected accounts, of all chains if chain is empty
func (s *Service) GetAccounts(chain string) ([]*AccountInfo, error) {
	state := s.manager.State()
	if chain == "" {
		return ConvertAccounts(state.Accounts, state), nil
	}
	c, err := tokens.ParseChain(chain)
	if err != nil {
		return nil, err
	}
	return ConvertAccounts(state.AccountsOf(c), state), nil
}

// Connect connect provider
func (s *Service) Connect(ctx context.Context, provider string) (*StateInfo, error) {
	log.Info("[api] connect provider", "provider", provider)
	state, err := s.manager.Connect(ctx, provider)
	if err != nil {
		return nil, err
	}
	return ConvertState(state), nil
}

// Disconnect disconnect provider
func (s *Service) Disconnect(ctx context.Context, provider string) (*StateInfo, error) {
	log.Info("[api] disconnect provider", "provider", provider)
	state, err := s.manager.Disconnect(ctx, provider)
	if state == nil {
		return nil, err
	}
	return ConvertState(state), err
}

// Select select account
func (s *Service) Select(ctx context.Context, chain, address string) (*AccountInfo, error) {
	c, err := tokens.ParseChain(chain)
	if err != nil {
		return nil, err
	}
	account, err := s.manager.Select(ctx, c, address)
	if err != nil {
		return nil, err
	}
	return ConvertAccount(account, s.manager.State()), nil
}

func (s *Service) findAccount(chain tokens.Chain, address string) (*wallet.AccountContext, error) {
	if address == "" {
		return s.manager.Selected(chain)
	}
	network, err := tokens.GetNetwork(chain)
	if err != nil {
		return nil, err
	}
	for _, account := range s.manager.State().AccountsOf(chain) {
		if network.EqualAddress(account.Address, address) {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w: %v on %v", tokens.ErrAccountNotFound, address, chain)
}

// Simulate simulate message, the returned simulation id is signed by SignAndBroadcast
func (s *Service) Simulate(ctx context.Context, args *SimulateArgs) (*tokens.Simulation, error) {
	msg, err := args.Message.ToMessage()
	if err != nil {
		return nil, err
	}
	chain := ActiveChainOf(msg.GetAsset())
	if args.Chain != "" {
		if chain, err = tokens.ParseChain(args.Chain); err != nil {
			return nil, err
		}
	}
	account, err := s.findAccount(chain, args.Address)
	if err != nil {
		return nil, err
	}
	provider, err := s.manager.Provider(ctx, account.Provider)
	if err != nil {
		return nil, err
	}
	sim, err := provider.Simulate(ctx, account.Context, &account.Account, msg, args.Inbound)
	if err != nil {
		log.Warn("[api] simulate failed", "message", msg.Name(), "account", account, "err", err)
		return nil, err
	}
	sim.ID = s.pending.Add(sim, account.Ref(), msg, args.Inbound)
	log.Info("[api] simulate success", "id", sim.ID, "message", msg.Name(), "account", account, "gas", sim.Gas, "fee", sim.Amount)
	return sim, nil
}

// SignAndBroadcast sign and broadcast a pending simulation, at most once.
// inbound is the freshly fetched inbound address, nil reuses the simulated one.
func (s *Service) SignAndBroadcast(ctx context.Context, id string, inbound *tokens.InboundAddress) (*tokens.TxResult, error) {
	pending, err := s.pending.Take(id, inbound)
	if err != nil {
		return nil, err
	}
	account := s.manager.State().Find(pending.account)
	if account == nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrAccountNotFound, pending.account.Address)
	}
	provider, err := s.manager.Provider(ctx, account.Provider)
	if err != nil {
		return nil, err
	}
	result, err := provider.SignAndBroadcast(ctx, account.Context, &account.Account, pending.sim, pending.msg, pending.inbound)
	if err != nil {
		log.Warn("[api] sign and broadcast failed", "id", id, "account", account, "err", err)
		return nil, err
	}
	log.Info("[api] sign and broadcast success", "id", id, "chain", result.Chain, "txHash", result.TxHash)
	return result, nil
}

// BuildMemo build memo
func (s *Service) BuildMemo(args *BuildMemoArgs) (string, error) {
	return BuildMemo(args)
}

// BuildMemo build add, withdraw, execute, switch and secure memos.
// Swap memos come from the quote service.
func BuildMemo(args *BuildMemoArgs) (string, error) {
	switch args.Type {
	case AddLiquidityMemo:
		return message.AddLiquidityMemo(args.Pool, args.Address, args.Affiliate, args.Bps)
	case WithdrawMemo:
		return message.WithdrawMemo(args.Pool, args.Bps)
	case ExecuteMemo:
		return message.ExecuteMemo(args.Contract, args.Payload)
	case SwitchMemo:
		return message.SwitchMemo(args.Address)
	case SecureDepositMemo:
		return message.SecureDepositMemo(args.Address)
	case SecureWithdrawMemo:
		return message.SecureWithdrawMemo(args.Address)
	default:
		return "", fmt.Errorf("%w: unknown memo type %q", ErrInvalidArgs, args.Type)
	}
}
