// Package cosmos simulates, signs and broadcasts cosmos sdk transactions for connected accounts.
package cosmos

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/cosmos/grpc"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	cosmosClient "github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codecTypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	cryptoTypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	authTx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// DefaultGasPrice gas price used when the chain has none configured
const DefaultGasPrice = 0.025

// NewClientContext client context able to encode and decode every msg the wallet sends
func NewClientContext() cosmosClient.Context {
	amino := codec.NewLegacyAmino()

	interfaceRegistry := codecTypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(interfaceRegistry)
	authtypes.RegisterInterfaces(interfaceRegistry)
	banktypes.RegisterInterfaces(interfaceRegistry)
	interfaceRegistry.RegisterImplementations((*cryptoTypes.PubKey)(nil), &EthPubKey{})
	interfaceRegistry.RegisterImplementations((*sdk.Msg)(nil), &MsgDeposit{}, &MsgTransfer{})

	protoCodec := codec.NewProtoCodec(interfaceRegistry)
	txConfig := authTx.NewTxConfig(protoCodec, authTx.DefaultSignModes)

	return cosmosClient.Context{}.
		WithCodec(protoCodec).
		WithInterfaceRegistry(interfaceRegistry).
		WithTxConfig(txConfig).
		WithLegacyAmino(amino)
}

// Client signing client of one cosmos chain
type Client struct {
	Chain     tokens.Chain
	network   *tokens.Network
	clientCtx grpc.ClientContext

	GasPrice     float64
	PollInterval time.Duration
	Timeout      time.Duration
	FetchTyped   TypedDataFetcher
}

// NewClient new client over tendermint rpc client
func NewClient(chain tokens.Chain, rpcClient rpcclient.Client) (*Client, error) {
	network, err := tokens.GetNetwork(chain)
	if err != nil {
		return nil, err
	}
	if network.Family != tokens.CosmosFamily {
		return nil, fmt.Errorf("%w: %v is not a cosmos chain", tokens.ErrUnknownFamily, chain)
	}
	config := params.GetCosmosConfig()
	gasPrice, exist := config.GasPrices[chain.String()]
	if !exist {
		gasPrice = DefaultGasPrice
	}
	var eip712API string
	if gateway := params.GetGatewayConfig(chain.String()); gateway != nil {
		eip712API = gateway.EIP712API
	}
	clientCtx := grpc.NewClientContext(NewClientContext()).
		WithChainID(network.CosmosChainID).
		WithClient(rpcClient)
	return &Client{
		Chain:        chain,
		network:      network,
		clientCtx:    clientCtx,
		GasPrice:     gasPrice,
		PollInterval: config.GetPollInterval(),
		Timeout:      config.GetConfirmTimeout(),
		FetchTyped:   NewTypedDataFetcher(eip712API),
	}, nil
}

// Dial connect to the first reachable tendermint rpc endpoint in gateway config
func Dial(chain tokens.Chain) (*Client, error) {
	gateway := params.GetGatewayConfig(chain.String())
	if gateway == nil || len(gateway.GRPCAPIAddress) == 0 {
		return nil, fmt.Errorf("no grpc gateway config for %v", chain)
	}
	var lastErr error
	for _, url := range gateway.GRPCAPIAddress {
		rpcClient, err := cosmosClient.NewClientFromNode(url)
		if err != nil {
			log.Warn("new grpc client failed", "chain", chain, "url", url, "err", err)
			lastErr = err
			continue
		}
		return NewClient(chain, rpcClient)
	}
	return nil, lastErr
}

// ClientContext grpc client context
func (c *Client) ClientContext() grpc.ClientContext {
	return c.clientCtx
}

// GetAccountInfo account number and sequence
func (c *Client) GetAccountInfo(ctx context.Context, address string) (authtypes.AccountI, error) {
	return grpc.GetAccountInfo(ctx, c.clientCtx, address)
}

// GetDenomBalance balance of denom
func (c *Client) GetDenomBalance(ctx context.Context, address, denom string) (sdk.Int, error) {
	return grpc.GetDenomBalance(ctx, c.clientCtx, address, denom)
}

// GetTransactionByHash tx response by hash
func (c *Client) GetTransactionByHash(ctx context.Context, txHash string) (*sdk.TxResponse, error) {
	return grpc.GetTransactionByHash(ctx, c.clientCtx, txHash)
}

// GetLatestBlockNumber latest block height
func (c *Client) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	return grpc.GetLatestBlockNumber(ctx, c.clientCtx)
}

func (c *Client) checkIntent(intent *message.CosmosIntent) error {
	if intent.Chain != c.Chain {
		return tokens.NewIncorrectNetworkError(c.Chain, intent.Chain)
	}
	return nil
}

// Simulate estimates gas and fee of intent.
// Hub deposits are charged a fixed native fee and are not simulated.
func (c *Client) Simulate(ctx context.Context, sc *SigningContext, intent *message.CosmosIntent) (*tokens.Simulation, error) {
	if err := c.checkIntent(intent); err != nil {
		return nil, err
	}
	msgs, err := BuildMsgs(intent)
	if err != nil {
		return nil, err
	}
	if intent.Kind == message.HubDepositKind {
		config := params.GetCosmosConfig()
		return c.newSimulation(config.HubNativeGas, new(big.Int).SetUint64(config.HubNativeFee)), nil
	}

	acc, err := c.GetAccountInfo(ctx, intent.From)
	if err != nil {
		return nil, err
	}
	mode := sc.SignMode()
	sig := BuildSignatures(sc.simulationPubKey(), acc.GetSequence(), mode, nil)
	txBuilder, err := buildTx(c.clientCtx.TxConfig(), msgs, intent.Memo, nil, 0, sig)
	if err != nil {
		return nil, err
	}
	txBytes, err := c.clientCtx.TxConfig().TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return nil, err
	}
	simRes, err := grpc.SimulateTx(ctx, c.clientCtx, txBytes)
	if err != nil {
		return nil, err
	}
	multiplier := params.GetCosmosConfig().GetGasMultiplier()
	gas := uint64(math.Ceil(float64(simRes.GasInfo.GasUsed) * multiplier))
	fee := new(big.Int).SetUint64(uint64(math.Ceil(float64(gas) * c.GasPrice)))
	log.Debug("simulate cosmos tx", "chain", c.Chain, "kind", intent.Kind, "gasUsed", simRes.GasInfo.GasUsed, "gas", gas, "fee", fee)
	return c.newSimulation(gas, fee), nil
}

func (c *Client) newSimulation(gas uint64, fee *big.Int) *tokens.Simulation {
	return &tokens.Simulation{
		Chain:    c.Chain,
		Symbol:   c.network.GetGasAsset().Ticker,
		Decimals: c.network.GasDecimals,
		Amount:   fee,
		Gas:      gas,
	}
}

// SignAndBroadcast signs intent with the simulated gas, broadcasts it once and waits for inclusion.
// A tx not seen in a block before the timeout returns *tokens.TimeoutError.
func (c *Client) SignAndBroadcast(ctx context.Context, sc *SigningContext, intent *message.CosmosIntent, sim *tokens.Simulation) (*tokens.TxResult, error) {
	if err := c.checkIntent(intent); err != nil {
		return nil, err
	}
	if sim == nil {
		var err error
		if sim, err = c.Simulate(ctx, sc, intent); err != nil {
			return nil, err
		}
	}
	msgs, err := BuildMsgs(intent)
	if err != nil {
		return nil, err
	}
	acc, err := c.GetAccountInfo(ctx, intent.From)
	if err != nil {
		return nil, err
	}
	signerData := BuildSignerData(c.clientCtx.ChainID(), acc.GetAccountNumber(), acc.GetSequence())

	var fee sdk.Coins
	if intent.Kind != message.HubDepositKind {
		fee = feeCoins(c.network, sim.Amount)
	}

	var txBuilder cosmosClient.TxBuilder
	if sc.IsEIP712() {
		txBuilder, err = c.signTypedData(ctx, sc.TypedSigner, intent, msgs, fee, sim.Gas, signerData)
	} else {
		txBuilder, err = c.signWithMode(ctx, sc, intent, msgs, fee, sim.Gas, signerData)
	}
	if err != nil {
		return nil, err
	}

	txBytes, err := c.clientCtx.TxConfig().TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return nil, err
	}
	txHash, err := grpc.BroadcastTxSync(ctx, c.clientCtx, txBytes)
	if err != nil {
		log.Warn("broadcast cosmos tx failed", "chain", c.Chain, "hash", txHash, "err", err)
		return nil, err
	}
	log.Info("broadcast cosmos tx success", "chain", c.Chain, "hash", txHash, "from", intent.From, "kind", intent.Kind)

	res, err := grpc.AwaitTx(ctx, c.clientCtx, txHash, c.PollInterval, c.Timeout)
	if err != nil {
		log.Warn("await cosmos tx failed", "chain", c.Chain, "hash", txHash, "err", err)
		return nil, err
	}
	log.Info("cosmos tx included", "chain", c.Chain, "hash", txHash, "height", res.Height)

	result := tokens.NewTxResult(c.Chain, intent.From, txHash)
	result.Deposited = intent.Deposited
	return result, nil
}

func (c *Client) signWithMode(
	ctx context.Context,
	sc *SigningContext,
	intent *message.CosmosIntent,
	msgs []sdk.Msg,
	fee sdk.Coins,
	gas uint64,
	signerData authsigning.SignerData,
) (cosmosClient.TxBuilder, error) {
	if err := VerifyPubKey(c.Chain, intent.From, sc.Signer.PubKey()); err != nil {
		return nil, err
	}
	mode := sc.SignMode()
	sig := BuildSignatures(sc.Signer.PubKey(), signerData.Sequence, mode, nil)
	txBuilder, err := buildTx(c.clientCtx.TxConfig(), msgs, intent.Memo, fee, gas, sig)
	if err != nil {
		return nil, err
	}
	signBytes, err := c.clientCtx.TxConfig().SignModeHandler().GetSignBytes(mode, signerData, txBuilder.GetTx())
	if err != nil {
		return nil, err
	}
	signature, err := sc.Signer.Sign(ctx, mode, signBytes)
	if err != nil {
		return nil, err
	}
	sig = BuildSignatures(sc.Signer.PubKey(), signerData.Sequence, mode, signature)
	if err = txBuilder.SetSignatures(sig); err != nil {
		return nil, err
	}
	return txBuilder, nil
}

// signTypedData signs the amino json document through EIP-712.
// The public key is only known once the signature is recovered.
func (c *Client) signTypedData(
	ctx context.Context,
	signer TypedDataSigner,
	intent *message.CosmosIntent,
	msgs []sdk.Msg,
	fee sdk.Coins,
	gas uint64,
	signerData authsigning.SignerData,
) (cosmosClient.TxBuilder, error) {
	from, err := AccAddressBytes(c.Chain, intent.From)
	if err != nil {
		return nil, err
	}
	if signer.Address() != ethcommon.BytesToAddress(from) {
		return nil, fmt.Errorf("%w: %v is not controlled by %v", tokens.ErrSenderMismatch, intent.From, signer.Address().Hex())
	}
	mode := signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON
	txBuilder, err := buildTx(c.clientCtx.TxConfig(), msgs, intent.Memo, fee, gas, signing.SignatureV2{})
	if err != nil {
		return nil, err
	}
	signBytes, err := c.clientCtx.TxConfig().SignModeHandler().GetSignBytes(mode, signerData, txBuilder.GetTx())
	if err != nil {
		return nil, err
	}
	typedData, err := c.FetchTyped(ctx, signerData.ChainID, signBytes)
	if err != nil {
		return nil, err
	}
	hash, err := TypedDataHash(typedData)
	if err != nil {
		return nil, err
	}
	signature, err := signer.SignTypedData(ctx, typedData)
	if err != nil {
		return nil, err
	}
	pubKey, signature, err := recoverTypedSigner(hash, signature, signer.Address())
	if err != nil {
		return nil, err
	}
	sig := BuildSignatures(pubKey, signerData.Sequence, mode, signature)
	if err = txBuilder.SetSignatures(sig); err != nil {
		return nil, err
	}
	return txBuilder, nil
}
