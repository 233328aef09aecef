package tron

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fbsobreira/gotron-sdk/pkg/proto/core"
	"google.golang.org/protobuf/proto"
)

const trc20TransferSelector = "transfer(address,uint256)"

// bytes added to raw data when the tx is signed and stored
const (
	signatureBandwidth = 67
	resultBandwidth    = 64
)

// TransferParameter abi encoded trc20 transfer arguments, without selector
func TransferParameter(to string, amount *big.Int) (string, error) {
	toAddr, err := ToEthAddress(to)
	if err != nil {
		return "", err
	}
	param := make([]byte, 0, 64)
	param = append(param, common.LeftPadBytes(toAddr.Bytes(), 32)...)
	param = append(param, common.LeftPadBytes(amount.Bytes(), 32)...)
	return hex.EncodeToString(param), nil
}

func trc20Call(intent *message.TronIntent, feeLimit int64) (*ContractCall, error) {
	owner, err := ToHexAddress(intent.From)
	if err != nil {
		return nil, err
	}
	contract, err := ToHexAddress(intent.Contract)
	if err != nil {
		return nil, err
	}
	param, err := TransferParameter(intent.To, intent.Amount)
	if err != nil {
		return nil, err
	}
	return &ContractCall{
		OwnerAddress:     owner,
		ContractAddress:  contract,
		FunctionSelector: trc20TransferSelector,
		Parameter:        param,
		FeeLimit:         feeLimit,
	}, nil
}

// BuildTx build unsigned tx of intent with memo attached
func BuildTx(ctx context.Context, api API, intent *message.TronIntent, feeLimit int64) (tx *core.Transaction, call *ContractCall, err error) {
	if intent.Amount == nil || intent.Amount.Sign() < 0 || !intent.Amount.IsInt64() {
		return nil, nil, fmt.Errorf("%w: %v", tokens.ErrInvalidAmount, intent.Amount)
	}
	switch intent.Kind {
	case message.TrxTransfer:
		var from, to string
		if from, err = ToHexAddress(intent.From); err != nil {
			return nil, nil, err
		}
		if to, err = ToHexAddress(intent.To); err != nil {
			return nil, nil, err
		}
		tx, err = api.CreateTransaction(ctx, from, to, intent.Amount.Int64())
	case message.Trc20Transfer:
		if call, err = trc20Call(intent, feeLimit); err != nil {
			return nil, nil, err
		}
		tx, err = api.TriggerSmartContract(ctx, call)
	default:
		return nil, nil, fmt.Errorf("%w: tron intent kind %v", tokens.ErrNotImplemented, intent.Kind)
	}
	if err != nil {
		log.Warn("build tron tx failed", "kind", intent.Kind, "from", intent.From, "to", intent.To, "err", err)
		return nil, nil, err
	}
	if intent.Memo != "" {
		tx.RawData.Data = []byte(intent.Memo)
	}
	return tx, call, nil
}

// CalcTxHash sha256 of the marshaled raw data, the node recomputes it on broadcast
func CalcTxHash(tx *core.Transaction) (string, error) {
	hash, err := rawDataHash(tx)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hash), nil
}

func rawDataHash(tx *core.Transaction) ([]byte, error) {
	rawData, err := proto.Marshal(tx.GetRawData())
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(rawData)
	return hash[:], nil
}

// EstimateBandwidth bytes charged for tx once signed
func EstimateBandwidth(tx *core.Transaction) (int64, error) {
	rawData, err := proto.Marshal(tx.GetRawData())
	if err != nil {
		return 0, err
	}
	return int64(len(rawData)) + signatureBandwidth + resultBandwidth, nil
}

// MarshalTx hex of the signed tx
func MarshalTx(tx *core.Transaction) (string, error) {
	bz, err := proto.Marshal(tx)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bz), nil
}
