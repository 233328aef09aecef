package main

import (
	"bytes"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/stretchr/testify/require"
)

func TestExampleConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, toml.NewEncoder(&buf).Encode(exampleConfig()))

	config := &params.WalletConfig{}
	_, err := toml.Decode(buf.String(), config)
	require.NoError(t, err)
	require.NoError(t, config.CheckConfig())
	require.Equal(t, "leveldb", config.Session.Store)
	require.Len(t, config.Gateways, 3)
}
