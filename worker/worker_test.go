package worker

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Wallet/internal/walletapi"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/stretchr/testify/require"
)

type countResetter struct {
	resets int32
}

func (r *countResetter) Reset() { atomic.AddInt32(&r.resets, 1) }

func TestWatchConfigJob(t *testing.T) {
	defer params.SetWalletConfig(params.DefaultConfig())
	params.SetWalletConfig(params.DefaultConfig())

	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("Identifier = \"xwallet\"\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	resetter := &countResetter{}
	go func() {
		StartWatchConfigJob(ctx, file, resetter)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	content := "Identifier = \"xwallet\"\n[Gateways.eth]\nAPIAddress = [\"http://127.0.0.1:8545\"]\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	require.Eventually(t, func() bool {
		return params.GetGatewayConfig("ETH") != nil && atomic.LoadInt32(&resetter.resets) > 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch config job not stopped")
	}
}

func TestExpireJob(t *testing.T) {
	pending := walletapi.NewPendingSimulations(40 * time.Millisecond)
	pending.Add(&tokens.Simulation{Chain: tokens.ETH}, tokens.AccountRef{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go StartExpireJob(ctx, pending)
	require.Eventually(t, func() bool {
		return pending.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRestInJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, restInJob(ctx, time.Millisecond))
	cancel()
	require.False(t, restInJob(ctx, time.Hour))
}
