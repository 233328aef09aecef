package worker

import (
	"context"

	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
)

// StartExpireJob drop stale simulations which were never signed
func StartExpireJob(ctx context.Context, pending *walletapi.PendingSimulations) {
	rest := pending.TTL() / 2
	logWorker("expire", "start simulation expire job", "ttl", pending.TTL())
	for restInJob(ctx, rest) {
		if count := pending.Expire(); count > 0 {
			logWorker("expire", "drop expired simulations", "count", count, "left", pending.Len())
		} else {
			logWorkerTrace("expire", "no expired simulations", "left", pending.Len())
		}
	}
	logWorker("expire", "stop simulation expire job")
}
