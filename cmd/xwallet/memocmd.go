package main

import (
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

var (
	memoTypeFlag = &cli.StringFlag{
		Name:     "type",
		Usage:    "memo type (add, withdraw, execute, switch, secure-deposit, secure-withdraw)",
		Required: true,
	}
	memoPoolFlag = &cli.StringFlag{
		Name:  "pool",
		Usage: "pool asset, eg. BTC.BTC",
	}
	memoAddressFlag = &cli.StringFlag{
		Name:  "address",
		Usage: "paired or destination address",
	}
	memoAffiliateFlag = &cli.StringFlag{
		Name:  "affiliate",
		Usage: "affiliate name",
	}
	memoBpsFlag = &cli.UintFlag{
		Name:  "bps",
		Usage: "basis points (1-10000)",
	}
	memoContractFlag = &cli.StringFlag{
		Name:  "contract",
		Usage: "execute contract address",
	}
	memoPayloadFlag = &cli.StringFlag{
		Name:  "payload",
		Usage: "execute payload in hex",
	}

	memoCommand = &cli.Command{
		Name:   "memo",
		Usage:  "build transaction memo",
		Action: buildMemo,
		Flags: []cli.Flag{
			memoTypeFlag,
			memoPoolFlag,
			memoAddressFlag,
			memoAffiliateFlag,
			memoBpsFlag,
			memoContractFlag,
			memoPayloadFlag,
		},
	}
)

func buildMemo(ctx *cli.Context) error {
	args := &walletapi.BuildMemoArgs{
		Type:      ctx.String(memoTypeFlag.Name),
		Pool:      ctx.String(memoPoolFlag.Name),
		Address:   ctx.String(memoAddressFlag.Name),
		Affiliate: ctx.String(memoAffiliateFlag.Name),
		Bps:       uint32(ctx.Uint(memoBpsFlag.Name)),
		Contract:  ctx.String(memoContractFlag.Name),
	}
	if payload := ctx.String(memoPayloadFlag.Name); payload != "" {
		data, err := hexutil.Decode(payload)
		if err != nil {
			return fmt.Errorf("wrong payload: %w", err)
		}
		args.Payload = data
	}
	memo, err := walletapi.BuildMemo(args)
	if err != nil {
		return err
	}
	fmt.Println(memo)
	return nil
}
