package walletapi

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Wallet/session"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

type fakeProvider struct {
	broadcasts int32
	inbound    *tokens.InboundAddress
}

func (p *fakeProvider) ID() string        { return "fake" }
func (p *fakeProvider) IsAvailable() bool { return true }

func (p *fakeProvider) GetAccounts(context.Context) ([]*wallet.AccountContext, error) {
	return []*wallet.AccountContext{
		wallet.NewAccountContext(tokens.ETH, testAddress, "fake", &wallet.EvmContext{}),
	}, nil
}

func (p *fakeProvider) Simulate(_ context.Context, _ wallet.Context, account *tokens.Account,
	msg message.Message, _ *tokens.InboundAddress) (*tokens.Simulation, error) {
	if msg.GetAsset().Chain != account.Chain {
		return nil, tokens.NewIncorrectNetworkError(msg.GetAsset().Chain, account.Chain)
	}
	return &tokens.Simulation{Chain: account.Chain, Symbol: "ETH", Decimals: 18, Amount: big.NewInt(21000), Gas: 21000}, nil
}

func (p *fakeProvider) SignAndBroadcast(_ context.Context, _ wallet.Context, account *tokens.Account,
	sim *tokens.Simulation, _ message.Message, inbound *tokens.InboundAddress) (*tokens.TxResult, error) {
	atomic.AddInt32(&p.broadcasts, 1)
	p.inbound = inbound
	return tokens.NewTxResult(sim.Chain, account.Address, "0xabcdef"), nil
}

func newTestService(t *testing.T) (*Service, *fakeProvider) {
	provider := &fakeProvider{}
	registry := wallet.NewRegistry()
	require.NoError(t, registry.Register("fake", func(context.Context) (wallet.Provider, error) {
		return provider, nil
	}))
	manager := session.NewManager(registry, session.NewMemoryStore())
	t.Cleanup(func() { _ = manager.Close() })
	return NewService(manager, NewPendingSimulations(time.Minute)), provider
}

func TestSimulateAndSign(t *testing.T) {
	svc, provider := newTestService(t)
	ctx := context.Background()
	args := &SimulateArgs{Message: MessageArgs{
		Type:      SendMessage,
		Asset:     "ETH.ETH",
		Amount:    "0.5",
		Recipient: "0x90529c2cea2c77856e777c993c6392cc60c5d5a2",
	}}

	_, err := svc.Simulate(ctx, args)
	require.ErrorIs(t, err, tokens.ErrAccountNotFound)

	state, err := svc.Connect(ctx, "fake")
	require.NoError(t, err)
	require.Equal(t, "selected", state.Status)
	require.True(t, state.Accounts[0].Selected)
	require.Equal(t, "evm", state.Accounts[0].Kind)

	sim, err := svc.Simulate(ctx, args)
	require.NoError(t, err)
	require.NotEmpty(t, sim.ID)
	require.Equal(t, 1, svc.Pending().Len())

	result, err := svc.SignAndBroadcast(ctx, sim.ID, nil)
	require.NoError(t, err)
	require.Equal(t, testAddress, result.Address)

	_, err = svc.SignAndBroadcast(ctx, sim.ID, nil)
	require.ErrorIs(t, err, tokens.ErrSimulationConsumed)
	_, err = svc.SignAndBroadcast(ctx, "unknown", nil)
	require.ErrorIs(t, err, tokens.ErrSimulationNotFound)
	require.Equal(t, int32(1), atomic.LoadInt32(&provider.broadcasts))

	args.Chain = "BSC"
	_, err = svc.Simulate(ctx, args)
	require.ErrorIs(t, err, tokens.ErrAccountNotFound)

	args.Chain = "ETH"
	args.Address = "0x90529c2cea2c77856e777c993c6392cc60c5d5a2"
	_, err = svc.Simulate(ctx, args)
	require.ErrorIs(t, err, tokens.ErrAccountNotFound)

	accounts, err := svc.GetAccounts("eth")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	_, err = svc.GetAccounts("sol")
	require.ErrorIs(t, err, tokens.ErrUnknownChain)
}

func TestPendingSimulations(t *testing.T) {
	pending := NewPendingSimulations(time.Minute)
	now := time.Unix(1700000000, 0)
	pending.now = func() time.Time { return now }

	ref := tokens.AccountRef{Chain: tokens.ETH, Address: testAddress, Provider: "fake"}
	first := pending.Add(&tokens.Simulation{Chain: tokens.ETH}, ref, nil, nil)
	second := pending.Add(&tokens.Simulation{Chain: tokens.ETH}, ref, nil, nil)
	require.NotEqual(t, first, second)

	item, err := pending.Take(first, nil)
	require.NoError(t, err)
	require.Equal(t, ref, item.account)
	_, err = pending.Take(first, nil)
	require.ErrorIs(t, err, tokens.ErrSimulationConsumed)

	now = now.Add(2 * time.Minute)
	_, err = pending.Take(second, nil)
	require.ErrorIs(t, err, tokens.ErrSimulationNotFound)
	require.Equal(t, 2, pending.Expire())
	require.Equal(t, 0, pending.Len())
}

func TestPendingInboundAge(t *testing.T) {
	pending := NewPendingSimulations(time.Minute * 5)
	now := time.Unix(1700000000, 0)
	pending.now = func() time.Time { return now }

	ref := tokens.AccountRef{Chain: tokens.BTC, Address: "bc1qsender", Provider: "fake"}
	simulated := &tokens.InboundAddress{Chain: tokens.BTC, Address: "bc1qold"}
	fresh := &tokens.InboundAddress{Chain: tokens.BTC, Address: "bc1qnew"}
	id := pending.Add(&tokens.Simulation{Chain: tokens.BTC}, ref, nil, simulated)
	noInbound := pending.Add(&tokens.Simulation{Chain: tokens.THOR}, ref, nil, nil)

	now = now.Add(2 * DefaultInboundMaxAge)
	_, err := pending.Take(id, nil)
	require.ErrorIs(t, err, tokens.ErrInvalidInbound)
	_, err = pending.Take(id, &tokens.InboundAddress{Chain: tokens.ETH, Address: "0xnew"})
	require.ErrorIs(t, err, tokens.ErrInvalidInbound)

	// rejected takes keep the simulation pending
	item, err := pending.Take(id, fresh)
	require.NoError(t, err)
	require.Same(t, fresh, item.inbound)
	_, err = pending.Take(id, fresh)
	require.ErrorIs(t, err, tokens.ErrSimulationConsumed)

	item, err = pending.Take(noInbound, nil)
	require.NoError(t, err)
	require.Nil(t, item.inbound)
}

func TestSignWithFreshInbound(t *testing.T) {
	svc, provider := newTestService(t)
	ctx := context.Background()
	_, err := svc.Connect(ctx, "fake")
	require.NoError(t, err)

	simulated := &tokens.InboundAddress{Chain: tokens.ETH, Address: "0x52908400098527886E0F7030069857D2E4169EE7"}
	fresh := &tokens.InboundAddress{Chain: tokens.ETH, Address: "0x90529c2cea2c77856e777c993c6392cc60c5d5a2"}
	args := &SimulateArgs{
		Message: MessageArgs{Type: DepositMessage, Asset: "ETH.ETH", Amount: "0.5", Memo: "=:BTC.BTC:bc1qvault"},
		Inbound: simulated,
	}
	sim, err := svc.Simulate(ctx, args)
	require.NoError(t, err)
	_, err = svc.SignAndBroadcast(ctx, sim.ID, fresh)
	require.NoError(t, err)
	require.Same(t, fresh, provider.inbound)

	sim, err = svc.Simulate(ctx, args)
	require.NoError(t, err)
	_, err = svc.SignAndBroadcast(ctx, sim.ID, nil)
	require.NoError(t, err)
	require.Same(t, simulated, provider.inbound)
}

func TestBuildMemo(t *testing.T) {
	svc, _ := newTestService(t)
	cases := []struct {
		Args     *BuildMemoArgs
		Expected string
	}{
		{&BuildMemoArgs{Type: AddLiquidityMemo, Pool: "BTC.BTC", Address: "thor1abc"}, "+:BTC.BTC:thor1abc::"},
		{&BuildMemoArgs{Type: WithdrawMemo, Pool: "BTC.BTC", Bps: 5000}, "-:BTC.BTC:5000"},
		{&BuildMemoArgs{Type: ExecuteMemo, Contract: "thor1contract", Payload: []byte("hi")}, "x:thor1contract:aGk="},
		{&BuildMemoArgs{Type: SecureDepositMemo, Address: "thor1abc"}, "secure+:thor1abc"},
	}
	for _, c := range cases {
		memo, err := svc.BuildMemo(c.Args)
		require.NoError(t, err)
		if memo != c.Expected {
			t.Fatalf("%s expected %v, but got %v", c.Args.Type, c.Expected, memo)
		}
	}
	_, err := svc.BuildMemo(&BuildMemoArgs{Type: "swap"})
	require.True(t, errors.Is(err, ErrInvalidArgs))
}

func TestTokenDecimals(t *testing.T) {
	const usdc = "ETH.USDC-0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	inbound := &tokens.InboundAddress{
		Chain:   tokens.ETH,
		Address: "0x52908400098527886E0F7030069857D2E4169EE7",
		Router:  "0xD37BbE5744D730a1d98d8DC97c42F0Ca46aD7146",
	}
	six := uint8(6)
	args := &MessageArgs{Type: SwapMessage, Asset: usdc, Decimals: &six, Amount: "1", Memo: "=:BTC.BTC:bc1qvault"}
	msg, err := args.ToMessage()
	require.NoError(t, err)
	require.Equal(t, int64(100000000), msg.GetAmount().Int64())
	intent, err := msg.ToEvm(tokens.ETH, testAddress, inbound)
	require.NoError(t, err)
	require.Equal(t, "1000000", intent.Amount.String())
	require.Equal(t, "1000000", intent.Allowance.Required.String())

	args.Decimals = nil
	_, err = args.ToMessage()
	require.ErrorIs(t, err, tokens.ErrUnknownDecimals)

	// gas asset decimals are fixed by its chain
	args = &MessageArgs{Type: SendMessage, Asset: "ETH.ETH", Decimals: &six, Amount: "1"}
	_, err = args.ToMessage()
	require.ErrorIs(t, err, ErrInvalidArgs)
	eighteen := uint8(18)
	args.Decimals = &eighteen
	_, err = args.ToMessage()
	require.NoError(t, err)
}

func TestToMessage(t *testing.T) {
	cases := []struct {
		Args     *MessageArgs
		Expected string
		Err      error
	}{
		{&MessageArgs{Type: SendMessage, Asset: "BTC.BTC", Amount: "1"}, "send", nil},
		{&MessageArgs{Type: SwapMessage, Asset: "BTC.BTC", Amount: "1", Memo: "=:ETH.ETH:0xabc"}, "swap", nil},
		{&MessageArgs{Type: AddLiquidityMessage, Asset: "BTC.BTC", Pool: "BTC.BTC", Amount: "1"}, "add-liquidity", nil},
		{&MessageArgs{Type: WithdrawLiquidityMessage, Asset: "THOR.RUNE", Pool: "BTC.BTC", Bps: 10000}, "withdraw-liquidity", nil},
		{&MessageArgs{Type: AddLiquidityMessage, Asset: "BTC.BTC", Amount: "1"}, "", tokens.ErrInvalidAsset},
		{&MessageArgs{Type: SendMessage, Asset: "BTC.BTC", Amount: "-1"}, "", tokens.ErrInvalidAmount},
		{&MessageArgs{Type: "bond", Asset: "BTC.BTC"}, "", ErrInvalidArgs},
	}
	for _, c := range cases {
		msg, err := c.Args.ToMessage()
		if c.Err != nil {
			if !errors.Is(err, c.Err) {
				t.Fatalf("%s expected %v, but got %v", c.Args.Type, c.Err, err)
			}
			continue
		}
		require.NoError(t, err)
		if msg.Name() != c.Expected {
			t.Fatalf("%s expected %v, but got %v", c.Args.Type, c.Expected, msg.Name())
		}
	}
	amount, err := (&MessageArgs{Type: SendMessage, Asset: "BTC.BTC", Amount: "0.5"}).ToMessage()
	require.NoError(t, err)
	require.Equal(t, int64(50000000), amount.GetAmount().Int64())
}
