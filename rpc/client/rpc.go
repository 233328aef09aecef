package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/anyswap/CrossChain-Wallet/log"
)

var requestID uint64

// Request json-rpc request
type Request struct {
	Version string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// RPCError json-rpc error object
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (err *RPCError) Error() string {
	return fmt.Sprintf("json-rpc error %d: %v", err.Code, err.Message)
}

type jsonrpcResponse struct {
	Error  *RPCError       `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// NewRequest new json-rpc request
func NewRequest(method string, params ...interface{}) *Request {
	if params == nil {
		params = []interface{}{}
	}
	return &Request{
		Version: "2.0",
		Method:  method,
		Params:  params,
		ID:      atomic.AddUint64(&requestID, 1),
	}
}

// RPCPostWithContext json-rpc post
func RPCPostWithContext(ctx context.Context, result interface{}, url, method string, params ...interface{}) error {
	req := NewRequest(method, params...)
	resp, err := HTTPPostWithContext(ctx, url, req, nil, nil)
	if err != nil {
		log.Trace("post rpc error", "url", url, "method", method, "err", err)
		return err
	}
	body, err := ReadBody(resp)
	if err != nil {
		return err
	}
	var jsonResp jsonrpcResponse
	if err = json.Unmarshal(body, &jsonResp); err != nil {
		return fmt.Errorf("unmarshal body error, body is %q err=%w", string(body), err)
	}
	if jsonResp.Error != nil {
		return jsonResp.Error
	}
	if result == nil {
		return nil
	}
	if err = json.Unmarshal(jsonResp.Result, result); err != nil {
		return fmt.Errorf("unmarshal result error: %w", err)
	}
	return nil
}

// RPCGetWithContext rest get and unmarshal json result
func RPCGetWithContext(ctx context.Context, result interface{}, url string) error {
	resp, err := HTTPGetWithContext(ctx, url, nil, nil)
	if err != nil {
		return err
	}
	return decodeBody(resp, result)
}

// RPCRawPostWithContext rest post and unmarshal json result
func RPCRawPostWithContext(ctx context.Context, result interface{}, url string, body interface{}) error {
	resp, err := HTTPPostWithContext(ctx, url, body, nil, nil)
	if err != nil {
		return err
	}
	return decodeBody(resp, result)
}

func decodeBody(resp *http.Response, result interface{}) error {
	body, err := ReadBody(resp)
	if err != nil {
		return err
	}
	switch r := result.(type) {
	case nil:
		return nil
	case *[]byte:
		*r = body
		return nil
	case *string:
		*r = string(body)
		return nil
	}
	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal body error, body is %q err=%w", string(body), err)
	}
	return nil
}
