package tron

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/fbsobreira/gotron-sdk/pkg/proto/core"
	"google.golang.org/protobuf/proto"
)

// API tron node http api used by the adapter
type API interface {
	CreateTransaction(ctx context.Context, from, to string, amount int64) (*core.Transaction, error)
	TriggerSmartContract(ctx context.Context, call *ContractCall) (*core.Transaction, error)
	EstimateEnergy(ctx context.Context, call *ContractCall) (int64, error)
	BroadcastHex(ctx context.Context, txHex string) error
}

// ContractCall trigger smart contract arguments, addresses are `41` hex
type ContractCall struct {
	OwnerAddress     string `json:"owner_address"`
	ContractAddress  string `json:"contract_address"`
	FunctionSelector string `json:"function_selector"`
	Parameter        string `json:"parameter"`
	FeeLimit         int64  `json:"fee_limit,omitempty"`
	CallValue        int64  `json:"call_value"`
}

// HTTPClient node http api client, tries gateway urls in order
type HTTPClient struct {
	urls []string
}

// NewHTTPClient new http client with urls
func NewHTTPClient(urls []string) *HTTPClient {
	return &HTTPClient{urls: urls}
}

// DialHTTP http client of configured gateway
func DialHTTP() (*HTTPClient, error) {
	gateway := params.GetGatewayConfig(tokens.TRON.String())
	if gateway == nil || len(gateway.APIAddress) == 0 {
		return nil, fmt.Errorf("no gateway config for %v", tokens.TRON)
	}
	return NewHTTPClient(gateway.APIAddress), nil
}

type txResponse struct {
	Error      string `json:"Error"`
	TxID       string `json:"txID"`
	RawDataHex string `json:"raw_data_hex"`
}

type triggerResponse struct {
	Result struct {
		Result  bool   `json:"result"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"result"`
	EnergyUsed  int64       `json:"energy_used"`
	Transaction *txResponse `json:"transaction"`
}

type broadcastResponse struct {
	Result  bool   `json:"result"`
	Code    string `json:"code"`
	TxID    string `json:"txid"`
	Message string `json:"message"`
}

func decodeRawTx(res *txResponse) (*core.Transaction, error) {
	if res == nil {
		return nil, errors.New("empty transaction")
	}
	if res.Error != "" {
		return nil, errors.New(res.Error)
	}
	bz, err := hex.DecodeString(res.RawDataHex)
	if err != nil {
		return nil, err
	}
	rawdata := &core.TransactionRaw{}
	if err = proto.Unmarshal(bz, rawdata); err != nil {
		return nil, err
	}
	return &core.Transaction{RawData: rawdata}, nil
}

// decode message field, it is hex encoded by the node
func decodeMessage(msg string) string {
	if bz, err := hex.DecodeString(msg); err == nil {
		return string(bz)
	}
	return msg
}

// CreateTransaction build trx transfer
func (c *HTTPClient) CreateTransaction(ctx context.Context, from, to string, amount int64) (*core.Transaction, error) {
	body := map[string]interface{}{
		"owner_address": from,
		"to_address":    to,
		"amount":        amount,
	}
	var res txResponse
	if err := tokens.RESTPost(ctx, &res, c.urls, "/wallet/createtransaction", body); err != nil {
		return nil, err
	}
	return decodeRawTx(&res)
}

// TriggerSmartContract build contract call
func (c *HTTPClient) TriggerSmartContract(ctx context.Context, call *ContractCall) (*core.Transaction, error) {
	var res triggerResponse
	if err := tokens.RESTPost(ctx, &res, c.urls, "/wallet/triggersmartcontract", call); err != nil {
		return nil, err
	}
	if !res.Result.Result {
		return nil, fmt.Errorf("trigger smart contract failed: %v %v", res.Result.Code, decodeMessage(res.Result.Message))
	}
	return decodeRawTx(res.Transaction)
}

// EstimateEnergy energy used by a constant call of the contract
func (c *HTTPClient) EstimateEnergy(ctx context.Context, call *ContractCall) (int64, error) {
	var res triggerResponse
	if err := tokens.RESTPost(ctx, &res, c.urls, "/wallet/triggerconstantcontract", call); err != nil {
		return 0, err
	}
	if !res.Result.Result {
		return 0, fmt.Errorf("trigger constant contract failed: %v %v", res.Result.Code, decodeMessage(res.Result.Message))
	}
	return res.EnergyUsed, nil
}

// BroadcastHex broadcast signed tx
func (c *HTTPClient) BroadcastHex(ctx context.Context, txHex string) error {
	var res broadcastResponse
	body := map[string]string{"transaction": txHex}
	if err := tokens.RESTPost(ctx, &res, c.urls, "/wallet/broadcasthex", body); err != nil {
		return err
	}
	if !res.Result {
		msg := decodeMessage(res.Message)
		log.Warn("broadcast tron tx failed", "txid", res.TxID, "code", res.Code, "message", msg)
		return &tokens.BroadcastTxError{Codespace: res.Code, Log: msg, Hash: res.TxID}
	}
	return nil
}
