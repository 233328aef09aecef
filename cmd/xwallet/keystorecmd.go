package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/common"
	"github.com/anyswap/CrossChain-Wallet/tools"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"github.com/anyswap/CrossChain-Wallet/wallet/keystore"
	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/urfave/cli/v2"
)

var (
	keyFileFlag = &cli.StringFlag{
		Name:     "keystore",
		Aliases:  []string{"k"},
		Usage:    "keystore file",
		Required: true,
	}
	passFileFlag = &cli.StringFlag{
		Name:     "passfile",
		Aliases:  []string{"p"},
		Usage:    "password file",
		Required: true,
	}
	mnemonicFileFlag = &cli.StringFlag{
		Name:  "mnemonic",
		Usage: "import mnemonic from file instead of generating one",
	}
	accountIndexFlag = &cli.UintFlag{
		Name:  "index",
		Usage: "account index of derivation paths",
	}
	lightKDFFlag = &cli.BoolFlag{
		Name:  "lightkdf",
		Usage: "use light scrypt parameters",
	}
	chainsFlag = &cli.StringSliceFlag{
		Name:  "chains",
		Usage: "chains to derive, default all",
	}

	keystoreCommand = &cli.Command{
		Name:  "keystore",
		Usage: "manage mnemonic keystore",
		Description: `
create a mnemonic keystore file or show the accounts derived from it
`,
		Subcommands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "create keystore file",
				Action: createKeystore,
				Flags: []cli.Flag{
					keyFileFlag,
					passFileFlag,
					mnemonicFileFlag,
					accountIndexFlag,
					lightKDFFlag,
				},
			},
			{
				Name:   "show",
				Usage:  "show derived accounts",
				Action: showKeystore,
				Flags: []cli.Flag{
					keyFileFlag,
					passFileFlag,
					chainsFlag,
				},
			},
			{
				Name:   "verify",
				Usage:  "verify keystore can be decrypted",
				Action: verifyKeystore,
				Flags: []cli.Flag{
					keyFileFlag,
					passFileFlag,
				},
			},
		},
	}
)

func createKeystore(ctx *cli.Context) error {
	keyfile := ctx.String(keyFileFlag.Name)
	if common.FileExist(keyfile) {
		return fmt.Errorf("keystore file %v already exist", keyfile)
	}
	password, err := tools.LoadPassword(ctx.String(passFileFlag.Name))
	if err != nil {
		return err
	}

	var mnemonic string
	if mnemonicFile := ctx.String(mnemonicFileFlag.Name); mnemonicFile != "" {
		data, errf := os.ReadFile(mnemonicFile)
		if errf != nil {
			return errf
		}
		mnemonic = strings.TrimSpace(string(data))
	} else {
		if mnemonic, err = keystore.NewMnemonic(); err != nil {
			return err
		}
		fmt.Println("generated mnemonic, write it down and keep it secret:")
		fmt.Println(mnemonic)
	}

	scryptN, scryptP := ethkeystore.StandardScryptN, ethkeystore.StandardScryptP
	if ctx.Bool(lightKDFFlag.Name) {
		scryptN, scryptP = ethkeystore.LightScryptN, ethkeystore.LightScryptP
	}
	index := uint32(ctx.Uint(accountIndexFlag.Name))
	if err = keystore.Write(keyfile, mnemonic, password, index, scryptN, scryptP); err != nil {
		return err
	}
	fmt.Println("create keystore success", keyfile)
	return nil
}

func showKeystore(ctx *cli.Context) error {
	password, err := tools.LoadPassword(ctx.String(passFileFlag.Name))
	if err != nil {
		return err
	}
	provider, err := keystore.New(wallet.NewDispatcher(nil),
		ctx.String(keyFileFlag.Name), password, ctx.StringSlice(chainsFlag.Name))
	if err != nil {
		return err
	}
	accounts, err := provider.GetAccounts(context.Background())
	if err != nil {
		return err
	}
	for _, account := range accounts {
		fmt.Printf("%-6v %-5v %v\n", account.Chain, account.KindName(), account.Address)
	}
	return nil
}

func verifyKeystore(ctx *cli.Context) error {
	mnemonic, index, err := tools.LoadKeyStore(ctx.String(keyFileFlag.Name), ctx.String(passFileFlag.Name))
	if err != nil {
		return err
	}
	fmt.Printf("keystore ok, %d words, account index %d\n", len(strings.Fields(mnemonic)), index)
	return nil
}
