// Package worker runs the background jobs of the wallet service.
package worker

import (
	"context"
	"time"

	"github.com/anyswap/CrossChain-Wallet/cmd/utils"
	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
	"github.com/anyswap/CrossChain-Wallet/params"
)

const interval = 10 * time.Millisecond

// Resetter drops cached chain backends
type Resetter interface {
	Reset()
}

func startJob(ctx context.Context, job func(context.Context)) {
	utils.TopWaitGroup.Add(1)
	go func() {
		defer utils.TopWaitGroup.Done()
		job(ctx)
	}()
	time.Sleep(interval)
}

// StartWork start wallet jobs, they stop when ctx is done
func StartWork(ctx context.Context, svc *walletapi.Service, backends Resetter, configFile string) {
	logWorker("worker", "start wallet worker")

	refreshInterval := params.GetWalletConfig().Session.GetRefreshInterval()
	startJob(ctx, func(ctx context.Context) { StartRefreshJob(ctx, svc.Manager(), refreshInterval) })
	startJob(ctx, func(ctx context.Context) { StartExpireJob(ctx, svc.Pending()) })
	if configFile != "" {
		startJob(ctx, func(ctx context.Context) { StartWatchConfigJob(ctx, configFile, backends) })
	}
}
