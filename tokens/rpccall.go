package tokens

import (
	"context"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/rpc/client"
)

// WrapRPCQueryError wrap rpc error
func WrapRPCQueryError(err error, method string, params ...interface{}) error {
	if err == nil {
		err = ErrTxNotFound
	}
	return fmt.Errorf("%w: call '%s %v' failed, err='%v'", ErrRPCQueryError, method, params, err)
}

// RPCCall common json-rpc calling, tries urls in order
func RPCCall(ctx context.Context, result interface{}, urls []string, method string, params ...interface{}) (err error) {
	for _, url := range urls {
		err = client.RPCPostWithContext(ctx, result, url, method, params...)
		if err == nil {
			return nil
		}
	}
	return WrapRPCQueryError(err, method, params...)
}

// RESTGet common rest GET calling, tries urls in order
func RESTGet(ctx context.Context, result interface{}, urls []string, path string) (err error) {
	for _, url := range urls {
		err = client.RPCGetWithContext(ctx, result, client.JoinURLPath(url, path))
		if err == nil {
			return nil
		}
	}
	return WrapRPCQueryError(err, "GET", path)
}

// RESTPost common rest POST calling, tries urls in order
func RESTPost(ctx context.Context, result interface{}, urls []string, path string, body interface{}) (err error) {
	for _, url := range urls {
		err = client.RPCRawPostWithContext(ctx, result, client.JoinURLPath(url, path), body)
		if err == nil {
			return nil
		}
	}
	return WrapRPCQueryError(err, "POST", path)
}
