package rpcapi

import (
	"errors"
	"net/http"

	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	rpcjson "github.com/gorilla/rpc/v2/json2"
)

// rpc error codes
const (
	CodeInternalError   rpcjson.ErrorCode = -32000
	CodeProviderError   rpcjson.ErrorCode = -32001
	CodeSimulationError rpcjson.ErrorCode = -32002
	CodeUserRejected    rpcjson.ErrorCode = 4001
)

func newRPCError(ec rpcjson.ErrorCode, err error) error {
	return &rpcjson.Error{
		Code:    ec,
		Message: err.Error(),
	}
}

func toRPCError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tokens.ErrUserRejected):
		return newRPCError(CodeUserRejected, err)
	case tokens.IsProviderError(err):
		return newRPCError(CodeProviderError, err)
	case errors.Is(err, tokens.ErrSimulationConsumed),
		errors.Is(err, tokens.ErrSimulationNotFound),
		errors.Is(err, tokens.ErrSimulationMismatch):
		return newRPCError(CodeSimulationError, err)
	case errors.Is(err, walletapi.ErrInvalidArgs),
		errors.Is(err, tokens.ErrUnknownChain),
		errors.Is(err, tokens.ErrInvalidAsset),
		errors.Is(err, tokens.ErrInvalidAmount):
		return newRPCError(rpcjson.E_INVALID_REQ, err)
	default:
		return newRPCError(CodeInternalError, err)
	}
}

// WalletAPI rpc api handler
type WalletAPI struct {
	svc *walletapi.Service
}

// NewWalletAPI new wallet api
func NewWalletAPI(svc *walletapi.Service) *WalletAPI {
	return &WalletAPI{svc: svc}
}

// RPCNullArgs null args
type RPCNullArgs struct{}

// ProviderArgs args
type ProviderArgs struct {
	Provider string `json:"provider"`
}

// ChainArgs args
type ChainArgs struct {
	Chain string `json:"chain"`
}

// SelectArgs args
type SelectArgs struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

// SimulationArgs args
type SimulationArgs struct {
	ID      string                 `json:"id"`
	Inbound *tokens.InboundAddress `json:"inbound,omitempty"`
}

// GetVersionInfo api
func (s *WalletAPI) GetVersionInfo(r *http.Request, args *RPCNullArgs, result *string) error {
	*result = params.VersionWithMeta
	return nil
}

// GetServerInfo api
func (s *WalletAPI) GetServerInfo(r *http.Request, args *RPCNullArgs, result *walletapi.ServerInfo) error {
	*result = *s.svc.GetServerInfo()
	return nil
}

// GetNetworks api
func (s *WalletAPI) GetNetworks(r *http.Request, args *RPCNullArgs, result *[]*walletapi.NetworkInfo) error {
	*result = s.svc.GetNetworks()
	return nil
}

// GetProviders api
func (s *WalletAPI) GetProviders(r *http.Request, args *RPCNullArgs, result *[]*walletapi.ProviderInfo) error {
	*result = s.svc.GetProviders()
	return nil
}

// GetState api
func (s *WalletAPI) GetState(r *http.Request, args *RPCNullArgs, result *walletapi.StateInfo) error {
	*result = *s.svc.GetState()
	return nil
}

// GetAccounts api
func (s *WalletAPI) GetAccounts(r *http.Request, args *ChainArgs, result *[]*walletapi.AccountInfo) error {
	res, err := s.svc.GetAccounts(args.Chain)
	if err == nil {
		*result = res
	}
	return toRPCError(err)
}

// Connect api
func (s *WalletAPI) Connect(r *http.Request, args *ProviderArgs, result *walletapi.StateInfo) error {
	res, err := s.svc.Connect(r.Context(), args.Provider)
	if err == nil && res != nil {
		*result = *res
	}
	return toRPCError(err)
}

// Disconnect api
func (s *WalletAPI) Disconnect(r *http.Request, args *ProviderArgs, result *walletapi.StateInfo) error {
	res, err := s.svc.Disconnect(r.Context(), args.Provider)
	if res != nil {
		*result = *res
	}
	return toRPCError(err)
}

// Select api
func (s *WalletAPI) Select(r *http.Request, args *SelectArgs, result *walletapi.AccountInfo) error {
	res, err := s.svc.Select(r.Context(), args.Chain, args.Address)
	if err == nil && res != nil {
		*result = *res
	}
	return toRPCError(err)
}

// Simulate api
func (s *WalletAPI) Simulate(r *http.Request, args *walletapi.SimulateArgs, result *tokens.Simulation) error {
	res, err := s.svc.Simulate(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return toRPCError(err)
}

// SignAndBroadcast api
func (s *WalletAPI) SignAndBroadcast(r *http.Request, args *SimulationArgs, result *tokens.TxResult) error {
	res, err := s.svc.SignAndBroadcast(r.Context(), args.ID, args.Inbound)
	if err == nil && res != nil {
		*result = *res
	}
	return toRPCError(err)
}

// BuildMemo api
func (s *WalletAPI) BuildMemo(r *http.Request, args *walletapi.BuildMemoArgs, result *string) error {
	res, err := s.svc.BuildMemo(args)
	if err == nil {
		*result = res
	}
	return toRPCError(err)
}
