package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/anyswap/CrossChain-Wallet/cmd/utils"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/urfave/cli/v2"
)

var (
	configCommand = &cli.Command{
		Name:  "config",
		Usage: "wallet config helpers",
		Description: `
print an example config or check a config file
`,
		Subcommands: []*cli.Command{
			{
				Name:   "example",
				Usage:  "print example config",
				Action: printExampleConfig,
			},
			{
				Name:   "check",
				Usage:  "check config file",
				Action: checkConfig,
				Flags: []cli.Flag{
					utils.ConfigFileFlag,
				},
			},
		},
	}
)

func exampleConfig() *params.WalletConfig {
	config := params.DefaultConfig()
	config.APIServer = &params.APIServerConfig{
		Port:             11556,
		AllowedOrigins:   []string{"*"},
		MaxRequestsLimit: 10,
	}
	config.Session = &params.SessionConfig{
		Store:           "leveldb",
		RefreshInterval: 60,
		SimulationTTL:   300,
		RequiredChain:   "THOR",
	}
	config.Providers = &params.ProvidersConfig{
		Keystore: &params.KeystoreProviderConfig{File: "./keystore.json"},
		Remote:   &params.RemoteProviderConfig{URL: "http://127.0.0.1:8585", Timeout: 30},
	}
	config.Gateways["BTC"] = &params.GatewayConfig{APIAddress: []string{"https://blockstream.info/api"}}
	config.Gateways["ETH"] = &params.GatewayConfig{APIAddress: []string{"https://ethereum-rpc.publicnode.com"}}
	config.Gateways["THOR"] = &params.GatewayConfig{
		APIAddress:     []string{"https://thornode.ninerealms.com"},
		GRPCAPIAddress: []string{"grpc.thor.pfc.zone:443"},
	}
	return config
}

func printExampleConfig(*cli.Context) error {
	return toml.NewEncoder(os.Stdout).Encode(exampleConfig())
}

func checkConfig(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	configFile := utils.GetConfigFilePath(ctx)
	config := &params.WalletConfig{}
	if _, err := toml.DecodeFile(configFile, config); err != nil {
		return err
	}
	if err := config.CheckConfig(); err != nil {
		return err
	}
	fmt.Println("check config success", configFile)
	return nil
}
