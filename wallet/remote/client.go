// Package remote implements the wallet provider backed by an external signer
// daemon speaking json-rpc 2.0, keys never leave the daemon.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/rpc/client"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/gorilla/rpc/v2/json2"
)

// CodeUserRejected error code returned when the user declines a request
const CodeUserRejected json2.ErrorCode = 4001

const defaultTimeout = 120 * time.Second

// Client json-rpc 2.0 client of the signer daemon
type Client struct {
	url     string
	token   string
	timeout time.Duration
}

// NewClient new client, token is sent as bearer authorization when set
func NewClient(url, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{url: url, token: token, timeout: timeout}
}

// Call call method of the signer daemon
func (c *Client) Call(ctx context.Context, method string, args, reply interface{}) error {
	body, err := json2.EncodeClientRequest(method, args)
	if err != nil {
		return err
	}
	var headers map[string]string
	if c.token != "" {
		headers = map[string]string{"Authorization": "Bearer " + c.token}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := client.HTTPPostWithContext(ctx, c.url, body, nil, headers)
	if err != nil {
		return fmt.Errorf("%w: %v", tokens.ErrProviderUnavailable, err)
	}
	data, err := client.ReadBody(resp)
	if err != nil {
		return fmt.Errorf("%w: %v", tokens.ErrProviderUnavailable, err)
	}
	err = json2.DecodeClientResponse(bytes.NewReader(data), reply)
	if err == nil {
		return nil
	}
	var rpcErr *json2.Error
	if errors.As(err, &rpcErr) && rpcErr.Code == CodeUserRejected {
		log.Info("remote signer request rejected", "method", method, "message", rpcErr.Message)
		return fmt.Errorf("%w: %v", tokens.ErrUserRejected, rpcErr.Message)
	}
	log.Warn("call remote signer failed", "method", method, "err", err)
	return fmt.Errorf("remote signer %v: %w", method, err)
}
