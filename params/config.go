package params

import (
	"encoding/json"
	"math/big"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/anyswap/CrossChain-Wallet/common"
	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/joho/godotenv"
)

// wallet identifier prefix
const (
	WalletPrefixID = "xwallet"
)

// utxo byte cost defaults
const (
	DefaultInputBytes    uint64 = 148
	DefaultOutputBytes   uint64 = 34
	DefaultMemoBaseBytes uint64 = 11
)

// cosmos defaults
const (
	MinGasMultiplier      = 1.3
	DefaultPollInterval   = 3 * time.Second
	DefaultConfirmTimeout = 60 * time.Second
	DefaultHubNativeFee   = 2000000
	DefaultHubNativeGas   = 600000000
)

// evm defaults
const (
	DefaultDepositExpiry   int64  = 600 // seconds
	DefaultEVMGasLimit     uint64 = 90000
	DefaultFallbackTipGwei int64  = 3
)

// tron and xrp defaults
const (
	DefaultTronBandwidthPrice int64 = 1000 // sun per byte
	DefaultTronEnergyPrice    int64 = 420  // sun per energy
	DefaultTronFeeLimit       int64 = 100000000
	DefaultXrpFee             int64 = 10       // drops
	DefaultXrpAccountReserve  int64 = 10000000 // drops
)

// env keys read from dotenv file
const (
	EnvKeystorePassword  = "KEYSTORE_PASSWORD"
	EnvRemoteSignerToken = "REMOTE_SIGNER_TOKEN"
)

var (
	walletConfig atomic.Value // *WalletConfig
	locDataDir   string
)

// WalletConfig config
type WalletConfig struct {
	Identifier string
	APIServer  *APIServerConfig `toml:",omitempty" json:",omitempty"`
	Session    *SessionConfig
	Providers  *ProvidersConfig
	Gateways   map[string]*GatewayConfig // key is chain

	UTXO   *UTXOConfig   `toml:",omitempty" json:",omitempty"`
	Cosmos *CosmosConfig `toml:",omitempty" json:",omitempty"`
	EVM    *EVMConfig    `toml:",omitempty" json:",omitempty"`
	Tron   *TronConfig   `toml:",omitempty" json:",omitempty"`
	XRP    *XRPConfig    `toml:",omitempty" json:",omitempty"`
}

// APIServerConfig api service config
type APIServerConfig struct {
	Port             int
	AllowedOrigins   []string
	MaxRequestsLimit int `toml:",omitempty" json:",omitempty"`
}

// SessionConfig session persistence config
type SessionConfig struct {
	Store           string         // leveldb, mongodb, redis, memory
	LevelDBPath     string         `toml:",omitempty" json:",omitempty"`
	MongoDB         *MongoDBConfig `toml:",omitempty" json:",omitempty"`
	Redis           *RedisConfig   `toml:",omitempty" json:",omitempty"`
	RefreshInterval uint64         `toml:",omitempty" json:",omitempty"` // seconds
	SimulationTTL   uint64         `toml:",omitempty" json:",omitempty"` // seconds
	RequiredChain   string         `toml:",omitempty" json:",omitempty"`
}

// GetRefreshInterval interval of refreshing connected accounts
func (c *SessionConfig) GetRefreshInterval() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// GetSimulationTTL lifetime of a simulation waiting to be signed
func (c *SessionConfig) GetSimulationTTL() time.Duration {
	return time.Duration(c.SimulationTTL) * time.Second
}

// MongoDBConfig mongodb config
type MongoDBConfig struct {
	DBURL    string
	DBName   string
	UserName string `json:"-"`
	Password string `json:"-"`
}

// RedisConfig redis config
type RedisConfig struct {
	Addr     string
	Password string `json:"-"`
	DB       int
	Key      string
}

// ProvidersConfig wallet providers config
type ProvidersConfig struct {
	Keystore *KeystoreProviderConfig `toml:",omitempty" json:",omitempty"`
	Remote   *RemoteProviderConfig   `toml:",omitempty" json:",omitempty"`
}

// KeystoreProviderConfig local mnemonic keystore provider
type KeystoreProviderConfig struct {
	File   string
	Chains []string
}

// RemoteProviderConfig remote signer provider
type RemoteProviderConfig struct {
	URL     string
	Timeout uint64 `toml:",omitempty" json:",omitempty"` // seconds
}

// GatewayConfig per chain endpoints
type GatewayConfig struct {
	APIAddress     []string
	GRPCAPIAddress []string `toml:",omitempty" json:",omitempty"`
	EIP712API      string   `toml:",omitempty" json:",omitempty"`
}

// UTXOConfig utxo byte costs
type UTXOConfig struct {
	InputBytes    uint64
	OutputBytes   uint64
	MemoBaseBytes uint64
}

// CosmosConfig cosmos signing config
type CosmosConfig struct {
	GasMultiplier  float64
	PollInterval   uint64 // milliseconds
	ConfirmTimeout uint64 // seconds
	HubNativeFee   uint64
	HubNativeGas   uint64
	GasPrices      map[string]float64 `toml:",omitempty" json:",omitempty"` // key is chain
}

// EVMConfig evm gas config
type EVMConfig struct {
	FallbackPriorityFee  string // wei
	DepositExpirySeconds int64
	DefaultGasLimit      uint64

	fallbackPriorityFee *big.Int
}

// TronConfig tron fee config
type TronConfig struct {
	BandwidthPrice int64
	EnergyPrice    int64
	FeeLimit       int64
}

// XRPConfig xrp fee config
type XRPConfig struct {
	DefaultFee     int64
	AccountReserve int64
}

// GetFallbackPriorityFee get fallback priority fee
func (c *EVMConfig) GetFallbackPriorityFee() *big.Int {
	return c.fallbackPriorityFee
}

// GetWalletConfig get wallet config
func GetWalletConfig() *WalletConfig {
	if config, ok := walletConfig.Load().(*WalletConfig); ok {
		return config
	}
	return defaultConfig
}

// SetWalletConfig set wallet config (used by tests and reload)
func SetWalletConfig(config *WalletConfig) {
	walletConfig.Store(config)
}

// GetIdentifier get identifier
func GetIdentifier() string {
	return GetWalletConfig().Identifier
}

// GetUTXOConfig get utxo config
func GetUTXOConfig() *UTXOConfig {
	if c := GetWalletConfig().UTXO; c != nil {
		return c
	}
	return defaultConfig.UTXO
}

// GetCosmosConfig get cosmos config
func GetCosmosConfig() *CosmosConfig {
	if c := GetWalletConfig().Cosmos; c != nil {
		return c
	}
	return defaultConfig.Cosmos
}

// GetEVMConfig get evm config
func GetEVMConfig() *EVMConfig {
	if c := GetWalletConfig().EVM; c != nil {
		return c
	}
	return defaultConfig.EVM
}

// GetTronConfig get tron config
func GetTronConfig() *TronConfig {
	if c := GetWalletConfig().Tron; c != nil {
		return c
	}
	return defaultConfig.Tron
}

// GetXRPConfig get xrp config
func GetXRPConfig() *XRPConfig {
	if c := GetWalletConfig().XRP; c != nil {
		return c
	}
	return defaultConfig.XRP
}

// GetGatewayConfig get gateway config of chain
func GetGatewayConfig(chain string) *GatewayConfig {
	return GetWalletConfig().Gateways[strings.ToUpper(chain)]
}

// GetPollInterval get cosmos confirmation poll interval
func (c *CosmosConfig) GetPollInterval() time.Duration {
	if c.PollInterval == 0 {
		return DefaultPollInterval
	}
	return time.Duration(c.PollInterval) * time.Millisecond
}

// GetConfirmTimeout get default confirmation timeout
func (c *CosmosConfig) GetConfirmTimeout() time.Duration {
	if c.ConfirmTimeout == 0 {
		return DefaultConfirmTimeout
	}
	return time.Duration(c.ConfirmTimeout) * time.Second
}

// GetGasMultiplier get gas multiplier (never below the minimum)
func (c *CosmosConfig) GetGasMultiplier() float64 {
	if c.GasMultiplier < MinGasMultiplier {
		return MinGasMultiplier
	}
	return c.GasMultiplier
}

// LoadConfig load wallet config
func LoadConfig(configFile string) *WalletConfig {
	if configFile == "" {
		log.Fatal("must specify config file")
	}
	log.Info("load wallet config file", "configFile", configFile)
	if !common.FileExist(configFile) {
		log.Fatalf("LoadConfig error: config file '%v' not exist", configFile)
	}
	config := &WalletConfig{}
	if _, err := toml.DecodeFile(configFile, &config); err != nil {
		log.Fatalf("LoadConfig error (toml DecodeFile): %v", err)
	}

	var bs []byte
	if log.JSONFormat {
		bs, _ = json.Marshal(config)
	} else {
		bs, _ = json.MarshalIndent(config, "", "  ")
	}
	log.Println("LoadConfig finished.", string(bs))

	if err := config.CheckConfig(); err != nil {
		log.Fatalf("Check config failed. %v", err)
	}

	SetWalletConfig(config)
	return config
}

// ReloadGateways reload gateway endpoints only
func ReloadGateways(configFile string) error {
	config := &WalletConfig{}
	if _, err := toml.DecodeFile(configFile, &config); err != nil {
		return err
	}
	if err := config.checkGateways(); err != nil {
		return err
	}
	current := *GetWalletConfig()
	current.Gateways = config.Gateways
	SetWalletConfig(&current)
	log.Info("reload gateways success", "count", len(config.Gateways))
	return nil
}

// LoadEnvFile load secrets from dotenv file
func LoadEnvFile(envFile string) {
	if envFile == "" {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Fatal("load env file failed", "envFile", envFile, "err", err)
	}
	log.Info("load env file success", "envFile", envFile)
}

// GetEnv get env value
func GetEnv(key string) string {
	return os.Getenv(key)
}

// SetDataDir set data dir
func SetDataDir(dir string) {
	if dir == "" {
		log.Warn("suggest specify '--datadir' to persist sessions")
		return
	}
	currDir, err := common.CurrentDir()
	if err != nil {
		log.Fatal("get current dir failed", "err", err)
	}
	locDataDir = common.AbsolutePath(currDir, dir)
	log.Info("set data dir success", "datadir", locDataDir)
}

// GetDataDir get data dir
func GetDataDir() string {
	return locDataDir
}
