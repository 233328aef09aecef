package ripple

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
)

// ErrAccountNotFound account is not funded on ledger
var ErrAccountNotFound = errors.New("xrp account not found")

// AccountInfo account root fields used by builder
type AccountInfo struct {
	Balance            int64 // drops
	Sequence           uint32
	LedgerCurrentIndex uint32
}

// SubmitResult submit result
type SubmitResult struct {
	EngineResult        string
	EngineResultCode    int
	EngineResultMessage string
	Hash                string
}

// Success tx is applied or queued
func (r *SubmitResult) Success() bool {
	return strings.HasPrefix(r.EngineResult, "tes") || r.EngineResult == "terQUEUED"
}

// API rippled json-rpc api used by the adapter
type API interface {
	GetAccountInfo(ctx context.Context, account string) (*AccountInfo, error)
	Submit(ctx context.Context, txBlob string) (*SubmitResult, error)
}

// RPCClient rippled json-rpc client, tries urls in order
type RPCClient struct {
	urls []string
}

// NewRPCClient new client
func NewRPCClient(urls []string) *RPCClient {
	return &RPCClient{urls: urls}
}

// DialRPC client of configured gateway
func DialRPC() (*RPCClient, error) {
	gateway := params.GetGatewayConfig(tokens.XRP.String())
	if gateway == nil || len(gateway.APIAddress) == 0 {
		return nil, fmt.Errorf("no gateway config for %v", tokens.XRP)
	}
	return NewRPCClient(gateway.APIAddress), nil
}

type resultStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

func (s *resultStatus) err() error {
	if s.Status == "success" || s.Error == "" {
		return nil
	}
	return fmt.Errorf("%v: %v", s.Error, s.ErrorMessage)
}

type accountInfoResult struct {
	resultStatus
	AccountData struct {
		Balance  string `json:"Balance"`
		Sequence uint32 `json:"Sequence"`
	} `json:"account_data"`
	LedgerCurrentIndex uint32 `json:"ledger_current_index"`
}

type submitResult struct {
	resultStatus
	EngineResult        string `json:"engine_result"`
	EngineResultCode    int    `json:"engine_result_code"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}

// GetAccountInfo call account_info on current ledger
func (c *RPCClient) GetAccountInfo(ctx context.Context, account string) (*AccountInfo, error) {
	var res accountInfoResult
	req := map[string]interface{}{"account": account, "ledger_index": "current"}
	if err := tokens.RPCCall(ctx, &res, c.urls, "account_info", req); err != nil {
		return nil, err
	}
	if res.Error == "actNotFound" {
		return nil, fmt.Errorf("%w: %v", ErrAccountNotFound, account)
	}
	if err := res.err(); err != nil {
		return nil, tokens.WrapRPCQueryError(err, "account_info", account)
	}
	balance, err := strconv.ParseInt(res.AccountData.Balance, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("wrong balance '%v': %w", res.AccountData.Balance, err)
	}
	return &AccountInfo{
		Balance:            balance,
		Sequence:           res.AccountData.Sequence,
		LedgerCurrentIndex: res.LedgerCurrentIndex,
	}, nil
}

// Submit call submit with signed blob
func (c *RPCClient) Submit(ctx context.Context, txBlob string) (*SubmitResult, error) {
	var res submitResult
	if err := tokens.RPCCall(ctx, &res, c.urls, "submit", map[string]interface{}{"tx_blob": txBlob}); err != nil {
		return nil, err
	}
	if err := res.err(); err != nil {
		return nil, tokens.WrapRPCQueryError(err, "submit")
	}
	return &SubmitResult{
		EngineResult:        res.EngineResult,
		EngineResultCode:    res.EngineResultCode,
		EngineResultMessage: res.EngineResultMessage,
		Hash:                res.TxJSON.Hash,
	}, nil
}
