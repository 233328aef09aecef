package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckConfigDefaults(t *testing.T) {
	config := &WalletConfig{
		Identifier: "xwallet-test",
		Session:    &SessionConfig{},
		EVM:        &EVMConfig{FallbackPriorityFee: "2000000000"},
		Cosmos:     &CosmosConfig{},
		Gateways: map[string]*GatewayConfig{
			"thor": {APIAddress: []string{"http://127.0.0.1:1317"}},
		},
	}
	require.NoError(t, config.CheckConfig())
	require.Equal(t, "leveldb", config.Session.Store)
	require.Equal(t, DefaultInputBytes, config.UTXO.InputBytes)
	require.Equal(t, MinGasMultiplier, config.Cosmos.GetGasMultiplier())
	require.Equal(t, 0, big.NewInt(2000000000).Cmp(config.EVM.GetFallbackPriorityFee()))
	require.NotNil(t, config.Gateways["THOR"])
}

func TestCheckConfigErrors(t *testing.T) {
	cases := []struct {
		name   string
		config *WalletConfig
	}{
		{"bad identifier", &WalletConfig{Identifier: "router", Session: &SessionConfig{}}},
		{"no session", &WalletConfig{Identifier: "xwallet"}},
		{"bad store", &WalletConfig{Identifier: "xwallet", Session: &SessionConfig{Store: "sqlite"}}},
		{"mongo without url", &WalletConfig{Identifier: "xwallet", Session: &SessionConfig{Store: "mongodb"}}},
		{"low multiplier", &WalletConfig{Identifier: "xwallet", Session: &SessionConfig{}, Cosmos: &CosmosConfig{GasMultiplier: 1.1}}},
		{"bad tip", &WalletConfig{Identifier: "xwallet", Session: &SessionConfig{}, EVM: &EVMConfig{FallbackPriorityFee: "abc"}}},
		{"empty gateway", &WalletConfig{Identifier: "xwallet", Session: &SessionConfig{}, Gateways: map[string]*GatewayConfig{"ETH": {}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.config.CheckConfig(); err == nil {
				t.Fatalf("%s expected error, but got nil", c.name)
			}
		})
	}
}

func TestGetWalletConfigFallsBackToDefaults(t *testing.T) {
	require.Equal(t, DefaultOutputBytes, GetUTXOConfig().OutputBytes)
	require.Equal(t, DefaultXrpFee, GetXRPConfig().DefaultFee)
	require.Equal(t, DefaultPollInterval, GetCosmosConfig().GetPollInterval())
}
