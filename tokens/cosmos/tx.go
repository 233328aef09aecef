package cosmos

import (
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	cosmosClient "github.com/cosmos/cosmos-sdk/client"
	cryptoTypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	signingTypes "github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/cosmos/cosmos-sdk/x/auth/signing"
	bankTypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// BuildSignerData signer data of sign mode handlers
func BuildSignerData(chainID string, accountNumber, sequence uint64) signing.SignerData {
	return signing.SignerData{
		ChainID:       chainID,
		AccountNumber: accountNumber,
		Sequence:      sequence,
	}
}

// BuildSendMsg bank send msg
func BuildSendMsg(from, to string, coins sdk.Coins) *bankTypes.MsgSend {
	return &bankTypes.MsgSend{
		FromAddress: from,
		ToAddress:   to,
		Amount:      coins,
	}
}

// BuildSignatures signature of single signer
func BuildSignatures(publicKey cryptoTypes.PubKey, sequence uint64, mode signingTypes.SignMode, signature []byte) signingTypes.SignatureV2 {
	return signingTypes.SignatureV2{
		PubKey: publicKey,
		Data: &signingTypes.SingleSignatureData{
			SignMode:  mode,
			Signature: signature,
		},
		Sequence: sequence,
	}
}

func toCoins(coins []*message.Coin) (sdk.Coins, error) {
	result := make(sdk.Coins, 0, len(coins))
	for _, coin := range coins {
		if coin.Amount == nil || coin.Amount.Sign() < 0 {
			return nil, fmt.Errorf("%w: %v", tokens.ErrInvalidAmount, coin.Amount)
		}
		result = append(result, sdk.NewCoin(coin.Denom(), sdk.NewIntFromBigInt(coin.Amount)))
	}
	return result.Sort(), nil
}

// BuildMsgs map cosmos encode object to sdk msgs
func BuildMsgs(intent *message.CosmosIntent) ([]sdk.Msg, error) {
	switch intent.Kind {
	case message.BankSendKind:
		coins, err := toCoins(intent.Coins)
		if err != nil {
			return nil, err
		}
		return []sdk.Msg{BuildSendMsg(intent.From, intent.To, coins)}, nil
	case message.HubDepositKind:
		signer, err := AccAddressBytes(intent.Chain, intent.From)
		if err != nil {
			return nil, err
		}
		msg := &MsgDeposit{Memo: intent.Memo, Signer: signer}
		for _, coin := range intent.Coins {
			msg.Coins = append(msg.Coins, &HubCoin{
				Asset:  NewHubAsset(coin.Asset),
				Amount: sdk.NewIntFromBigInt(coin.Amount),
			})
		}
		return []sdk.Msg{msg}, nil
	case message.IbcTransferKind:
		if intent.IBC == nil || len(intent.Coins) != 1 {
			return nil, fmt.Errorf("%w: malformed ibc transfer", tokens.ErrInvalidAmount)
		}
		coins, err := toCoins(intent.Coins)
		if err != nil {
			return nil, err
		}
		return []sdk.Msg{&MsgTransfer{
			SourcePort:       intent.IBC.SourcePort,
			SourceChannel:    intent.IBC.SourceChannel,
			Token:            coins[0],
			Sender:           intent.From,
			Receiver:         intent.IBC.Receiver,
			TimeoutTimestamp: intent.IBC.TimeoutNanos,
			Memo:             intent.Memo,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown cosmos intent kind %v", intent.Kind)
	}
}

// buildTx unsigned tx with fee, gas and a signature placeholder
func buildTx(
	txConfig cosmosClient.TxConfig,
	msgs []sdk.Msg,
	memo string,
	fee sdk.Coins,
	gas uint64,
	sig signingTypes.SignatureV2,
) (cosmosClient.TxBuilder, error) {
	txBuilder := txConfig.NewTxBuilder()
	if err := txBuilder.SetMsgs(msgs...); err != nil {
		return nil, err
	}
	txBuilder.SetMemo(memo)
	txBuilder.SetFeeAmount(fee)
	txBuilder.SetGasLimit(gas)
	if sig.PubKey != nil {
		if err := txBuilder.SetSignatures(sig); err != nil {
			return nil, err
		}
	}
	return txBuilder, nil
}

// feeCoins fee in gas denom of chain
func feeCoins(network *tokens.Network, amount *big.Int) sdk.Coins {
	if amount == nil || amount.Sign() == 0 {
		return sdk.NewCoins()
	}
	return sdk.NewCoins(sdk.NewCoin(network.GasDenom, sdk.NewIntFromBigInt(amount)))
}
