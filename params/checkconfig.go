package params

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/log"
)

var defaultConfig = &WalletConfig{
	Identifier: WalletPrefixID,
	Session:    &SessionConfig{Store: "memory", RefreshInterval: 60, SimulationTTL: 300},
	Providers:  &ProvidersConfig{},
	Gateways:   map[string]*GatewayConfig{},
	UTXO: &UTXOConfig{
		InputBytes:    DefaultInputBytes,
		OutputBytes:   DefaultOutputBytes,
		MemoBaseBytes: DefaultMemoBaseBytes,
	},
	Cosmos: &CosmosConfig{
		GasMultiplier: MinGasMultiplier,
		HubNativeFee:  DefaultHubNativeFee,
		HubNativeGas:  DefaultHubNativeGas,
	},
	EVM: &EVMConfig{
		DepositExpirySeconds: DefaultDepositExpiry,
		DefaultGasLimit:      DefaultEVMGasLimit,
		fallbackPriorityFee:  new(big.Int).Mul(big.NewInt(DefaultFallbackTipGwei), big.NewInt(1e9)),
	},
	Tron: &TronConfig{
		BandwidthPrice: DefaultTronBandwidthPrice,
		EnergyPrice:    DefaultTronEnergyPrice,
		FeeLimit:       DefaultTronFeeLimit,
	},
	XRP: &XRPConfig{
		DefaultFee:     DefaultXrpFee,
		AccountReserve: DefaultXrpAccountReserve,
	},
}

// DefaultConfig returns a copy of the built-in defaults
func DefaultConfig() *WalletConfig {
	config := *defaultConfig
	config.Gateways = make(map[string]*GatewayConfig)
	return &config
}

// CheckConfig check wallet config
func (config *WalletConfig) CheckConfig() (err error) {
	if !strings.HasPrefix(config.Identifier, WalletPrefixID) {
		return fmt.Errorf("wrong identifier '%v', missing prefix '%v'", config.Identifier, WalletPrefixID)
	}
	log.Info("check identifier pass", "identifier", config.Identifier)

	if config.APIServer != nil {
		if err = config.APIServer.CheckConfig(); err != nil {
			return err
		}
	}
	if config.Session == nil {
		return errors.New("must config 'Session'")
	}
	if err = config.Session.CheckConfig(); err != nil {
		return err
	}
	if config.Providers == nil {
		config.Providers = &ProvidersConfig{}
	}
	if err = config.Providers.CheckConfig(); err != nil {
		return err
	}
	if err = config.checkGateways(); err != nil {
		return err
	}

	if config.UTXO == nil {
		config.UTXO = defaultConfig.UTXO
	} else if err = config.UTXO.CheckConfig(); err != nil {
		return err
	}
	if config.Cosmos == nil {
		config.Cosmos = defaultConfig.Cosmos
	} else if err = config.Cosmos.CheckConfig(); err != nil {
		return err
	}
	if config.EVM == nil {
		config.EVM = defaultConfig.EVM
	} else if err = config.EVM.CheckConfig(); err != nil {
		return err
	}
	if config.Tron == nil {
		config.Tron = defaultConfig.Tron
	} else {
		config.Tron.CheckConfig()
	}
	if config.XRP == nil {
		config.XRP = defaultConfig.XRP
	} else {
		config.XRP.CheckConfig()
	}
	return nil
}

// CheckConfig check api server config
func (c *APIServerConfig) CheckConfig() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("wrong api server port %v", c.Port)
	}
	if c.MaxRequestsLimit <= 0 {
		c.MaxRequestsLimit = 10
	}
	return nil
}

// CheckConfig check session config
func (c *SessionConfig) CheckConfig() error {
	switch c.Store {
	case "", "leveldb":
		c.Store = "leveldb"
	case "mongodb":
		if c.MongoDB == nil || c.MongoDB.DBURL == "" || c.MongoDB.DBName == "" {
			return errors.New("session store mongodb must config 'MongoDB.DBURL' and 'MongoDB.DBName'")
		}
	case "redis":
		if c.Redis == nil || c.Redis.Addr == "" {
			return errors.New("session store redis must config 'Redis.Addr'")
		}
		if c.Redis.Key == "" {
			c.Redis.Key = WalletPrefixID + ":session"
		}
	case "memory":
	default:
		return fmt.Errorf("unknown session store '%v'", c.Store)
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = 60
	}
	if c.SimulationTTL == 0 {
		c.SimulationTTL = 300
	}
	return nil
}

// CheckConfig check providers config
func (c *ProvidersConfig) CheckConfig() error {
	if c.Remote != nil && c.Remote.URL != "" {
		if _, err := url.ParseRequestURI(c.Remote.URL); err != nil {
			return fmt.Errorf("wrong remote signer url '%v': %w", c.Remote.URL, err)
		}
	}
	return nil
}

func (config *WalletConfig) checkGateways() error {
	gateways := make(map[string]*GatewayConfig, len(config.Gateways))
	for chain, gateway := range config.Gateways {
		if gateway == nil || (len(gateway.APIAddress) == 0 && len(gateway.GRPCAPIAddress) == 0) {
			return fmt.Errorf("chain '%v' has no gateway", chain)
		}
		gateways[strings.ToUpper(chain)] = gateway
	}
	config.Gateways = gateways
	return nil
}

// CheckConfig check utxo config
func (c *UTXOConfig) CheckConfig() error {
	if c.InputBytes == 0 {
		c.InputBytes = DefaultInputBytes
	}
	if c.OutputBytes == 0 {
		c.OutputBytes = DefaultOutputBytes
	}
	if c.MemoBaseBytes == 0 {
		c.MemoBaseBytes = DefaultMemoBaseBytes
	}
	return nil
}

// CheckConfig check cosmos config
func (c *CosmosConfig) CheckConfig() error {
	if c.GasMultiplier != 0 && c.GasMultiplier < MinGasMultiplier {
		return fmt.Errorf("cosmos gas multiplier %v is lower than %v", c.GasMultiplier, MinGasMultiplier)
	}
	if c.HubNativeFee == 0 {
		c.HubNativeFee = DefaultHubNativeFee
	}
	if c.HubNativeGas == 0 {
		c.HubNativeGas = DefaultHubNativeGas
	}
	for chain, price := range c.GasPrices {
		if price < 0 {
			return fmt.Errorf("negative gas price %v of chain %v", price, chain)
		}
	}
	return nil
}

// CheckConfig check evm config
func (c *EVMConfig) CheckConfig() error {
	if c.DepositExpirySeconds <= 0 {
		c.DepositExpirySeconds = DefaultDepositExpiry
	}
	if c.DefaultGasLimit == 0 {
		c.DefaultGasLimit = DefaultEVMGasLimit
	}
	if c.FallbackPriorityFee == "" {
		c.fallbackPriorityFee = defaultConfig.EVM.fallbackPriorityFee
		return nil
	}
	fee, ok := new(big.Int).SetString(c.FallbackPriorityFee, 0)
	if !ok || fee.Sign() <= 0 {
		return fmt.Errorf("wrong evm fallback priority fee '%v'", c.FallbackPriorityFee)
	}
	c.fallbackPriorityFee = fee
	return nil
}

// CheckConfig check tron config
func (c *TronConfig) CheckConfig() {
	if c.BandwidthPrice <= 0 {
		c.BandwidthPrice = DefaultTronBandwidthPrice
	}
	if c.EnergyPrice <= 0 {
		c.EnergyPrice = DefaultTronEnergyPrice
	}
	if c.FeeLimit <= 0 {
		c.FeeLimit = DefaultTronFeeLimit
	}
}

// CheckConfig check xrp config
func (c *XRPConfig) CheckConfig() {
	if c.DefaultFee <= 0 {
		c.DefaultFee = DefaultXrpFee
	}
	if c.AccountReserve <= 0 {
		c.AccountReserve = DefaultXrpAccountReserve
	}
}
