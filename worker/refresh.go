package worker

import (
	"context"
	"time"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/session"
)

// StartRefreshJob reload accounts of the connected providers periodically
func StartRefreshJob(ctx context.Context, manager *session.Manager, interval time.Duration) {
	if interval <= 0 {
		logWorker("refresh", "session refresh job disabled")
		return
	}
	logWorker("refresh", "start session refresh job", "interval", interval)
	for restInJob(ctx, interval) {
		failed := manager.RefreshAll(ctx)
		for provider, err := range failed {
			logWorkerWarn("refresh", "refresh wallet provider failed", err, "provider", provider)
		}
		logFunc := log.GetLogFuncOr(len(failed) > 0, log.Info, log.Trace)
		logFunc("[refresh] refresh session finished", "status", manager.State().Status, "failed", len(failed))
	}
	logWorker("refresh", "stop session refresh job")
}
