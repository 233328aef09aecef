// Command xwallet is main program to start the wallet service or its sub commands.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anyswap/CrossChain-Wallet/cmd/utils"
	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/mongodb"
	"github.com/anyswap/CrossChain-Wallet/params"
	rpcserver "github.com/anyswap/CrossChain-Wallet/rpc/server"
	"github.com/anyswap/CrossChain-Wallet/session"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"github.com/anyswap/CrossChain-Wallet/wallet/keystore"
	"github.com/anyswap/CrossChain-Wallet/wallet/remote"
	"github.com/anyswap/CrossChain-Wallet/worker"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

var (
	clientIdentifier = "xwallet"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the xwallet command line interface")
)

func initApp() {
	// Initialize the CLI app and start action
	app.Action = xwallet
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2017-2023 The CrossChain-Wallet Authors"
	app.Commands = []*cli.Command{
		configCommand,
		keystoreCommand,
		memoCommand,
		utxoFeeCommand,
		utils.LicenseCommand,
		utils.VersionCommand,
	}
	app.Flags = []cli.Flag{
		utils.DataDirFlag,
		utils.ConfigFileFlag,
		utils.EnvFileFlag,
		utils.LogFileFlag,
		utils.LogRotationFlag,
		utils.LogMaxAgeFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
	}
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func xwallet(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}

	params.SetDataDir(utils.GetDataDir(ctx))
	params.LoadEnvFile(ctx.String(utils.EnvFileFlag.Name))
	configFile := utils.GetConfigFilePath(ctx)
	config := params.LoadConfig(configFile)

	backends := wallet.NewGatewayBackends()
	registry := wallet.NewRegistry()
	if err := registry.Register(keystore.ProviderID, keystore.NewFactory(backends)); err != nil {
		return err
	}
	if err := registry.Register(remote.ProviderID, remote.NewFactory(backends)); err != nil {
		return err
	}

	workCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(workCtx, config.Session)
	if err != nil {
		log.Fatal("open session store failed", "store", config.Session.Store, "err", err)
	}
	manager := session.NewManager(registry, store)

	var required tokens.Chain
	if config.Session.RequiredChain != "" {
		required, err = tokens.ParseChain(config.Session.RequiredChain)
		if err != nil {
			return err
		}
	}
	result, err := manager.Restore(workCtx, required)
	if err != nil {
		log.Fatal("restore session failed", "err", err)
	}
	for id, ferr := range result.Failed {
		log.Warn("provider not restored", "provider", id, "err", ferr)
	}

	pending := walletapi.NewPendingSimulations(config.Session.GetSimulationTTL())
	svc := walletapi.NewService(manager, pending)

	worker.StartWork(workCtx, svc, backends, configFile)
	time.Sleep(100 * time.Millisecond)
	rpcserver.StartAPIServer(svc)

	utils.TopWaitGroup.Add(1)
	go utils.WaitAndCleanup(func() {
		cancel()
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := registry.Close(closeCtx); err != nil {
			log.Warn("close wallet providers failed", "err", err)
		}
		if err := manager.Close(); err != nil {
			log.Warn("close session store failed", "err", err)
		}
	})

	utils.TopWaitGroup.Wait()
	return nil
}

func openStore(ctx context.Context, config *params.SessionConfig) (store session.Store, err error) {
	switch config.Store {
	case "leveldb":
		path := config.LevelDBPath
		if path == "" {
			path = filepath.Join(params.GetDataDir(), "session")
		}
		var db *session.LevelDBStore
		if db, err = session.OpenLevelDBStore(path); err == nil {
			store = db
		}
	case "mongodb":
		dbConfig := config.MongoDB
		var mgo *mongodb.Store
		mgo, err = mongodb.Open(ctx, params.GetIdentifier(),
			dbConfig.DBURL, dbConfig.DBName, dbConfig.UserName, dbConfig.Password)
		if err == nil {
			store = mgo
		}
	case "redis":
		rc := config.Redis
		var rs *session.RedisStore
		rs, err = session.NewRedisStore(ctx, &redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		}, rc.Key)
		if err == nil {
			store = rs
		}
	default:
		store = session.NewMemoryStore()
	}
	return store, err
}
