package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
	"github.com/anyswap/CrossChain-Wallet/rpc/rpcapi"
	"github.com/anyswap/CrossChain-Wallet/session"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	rpcjson "github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	registry := wallet.NewRegistry()
	require.NoError(t, registry.Register("absent", func(context.Context) (wallet.Provider, error) {
		return nil, tokens.ErrProviderUnavailable
	}))
	manager := session.NewManager(registry, session.NewMemoryStore())
	svc := walletapi.NewService(manager, walletapi.NewPendingSimulations(0))
	ts := httptest.NewServer(NewRouter(svc))
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, url, method string, args, reply interface{}) error {
	body, err := rpcjson.EncodeClientRequest(RPCServiceName+"."+method, args)
	require.NoError(t, err)
	resp, err := http.Post(url+"/rpc", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	return rpcjson.DecodeClientResponse(resp.Body, reply)
}

func TestRPCService(t *testing.T) {
	ts := newTestServer(t)

	var networks []*walletapi.NetworkInfo
	require.NoError(t, call(t, ts.URL, "GetNetworks", &rpcapi.RPCNullArgs{}, &networks))
	require.Len(t, networks, len(tokens.AllNetworks()))
	require.Equal(t, tokens.BTC, networks[0].Chain)

	var memo string
	require.NoError(t, call(t, ts.URL, "BuildMemo", &walletapi.BuildMemoArgs{
		Type: walletapi.AddLiquidityMemo, Pool: "BTC.BTC", Address: "thor1abc",
	}, &memo))
	require.Equal(t, "+:BTC.BTC:thor1abc::", memo)

	cases := []struct {
		Method   string
		Args     interface{}
		Expected rpcjson.ErrorCode
	}{
		{"SignAndBroadcast", &rpcapi.SimulationArgs{ID: "missing"}, rpcapi.CodeSimulationError},
		{"Connect", &rpcapi.ProviderArgs{Provider: "absent"}, rpcapi.CodeProviderError},
		{"Connect", &rpcapi.ProviderArgs{Provider: "ledger"}, rpcapi.CodeProviderError},
		{"Select", &rpcapi.SelectArgs{Chain: "SOL"}, rpcjson.E_INVALID_REQ},
		{"BuildMemo", &walletapi.BuildMemoArgs{Type: "swap"}, rpcjson.E_INVALID_REQ},
	}
	for _, c := range cases {
		var reply json.RawMessage
		err := call(t, ts.URL, c.Method, c.Args, &reply)
		var rpcErr *rpcjson.Error
		if !errors.As(err, &rpcErr) || rpcErr.Code != c.Expected {
			t.Fatalf("%s expected %v, but got %v", c.Method, c.Expected, err)
		}
	}
}

func TestRESTService(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	var state walletapi.StateInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	require.Equal(t, "disconnected", state.Status)

	resp2, err := http.Get(ts.URL + "/accounts/ETH")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}
