package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/params"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxRequest unsigned call of an evm intent
type TxRequest struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Data  []byte
}

// CallMsg call message used for estimating
func (r *TxRequest) CallMsg() ethereum.CallMsg {
	return ethereum.CallMsg{From: r.From, To: &r.To, Value: r.Value, Data: r.Data}
}

// GasPrice gas pricing of a tx, TipCap is nil for legacy txs
type GasPrice struct {
	FeeCap *big.Int // max fee per gas, or legacy gas price
	TipCap *big.Int
}

// IsDynamic is eip1559 pricing
func (p *GasPrice) IsDynamic() bool {
	return p.TipCap != nil
}

// BuildTxRequest render intent to call fields
func BuildTxRequest(intent *message.EvmIntent, now time.Time) (*TxRequest, error) {
	from, err := toAddress(intent.From)
	if err != nil {
		return nil, err
	}
	amount := intent.Amount
	if amount == nil {
		amount = new(big.Int)
	}
	req := &TxRequest{From: from, Value: new(big.Int)}
	switch intent.Kind {
	case message.NativeTransfer:
		if req.To, err = toAddress(intent.To); err != nil {
			return nil, err
		}
		req.Value.Set(amount)
	case message.Erc20Transfer:
		if req.To, err = toAddress(intent.Token); err != nil {
			return nil, err
		}
		if req.Data, err = PackTransfer(intent.To, amount); err != nil {
			return nil, err
		}
	case message.RouterDeposit:
		if req.To, err = toAddress(intent.Router); err != nil {
			return nil, err
		}
		expiry := params.GetEVMConfig().DepositExpirySeconds
		expiration := big.NewInt(now.Unix() + expiry)
		req.Data, err = PackDepositWithExpiry(intent.Vault, intent.Token, amount, intent.Memo, expiration)
		if err != nil {
			return nil, err
		}
		if intent.IsGasAsset() {
			req.Value.Set(amount)
		}
	case message.ContractCall:
		if req.To, err = toAddress(intent.To); err != nil {
			return nil, err
		}
		req.Value.Set(amount)
		req.Data = intent.Data
	default:
		return nil, fmt.Errorf("%w: evm intent kind %v", tokens.ErrNotImplemented, intent.Kind)
	}
	return req, nil
}

// BuildApproveIntent erc20 approve intent for an insufficient allowance
func BuildApproveIntent(chain tokens.Chain, req *message.AllowanceRequirement) (*message.EvmIntent, *TxRequest, error) {
	data, err := PackApprove(req.Spender, req.Required)
	if err != nil {
		return nil, nil, err
	}
	intent := &message.EvmIntent{
		Kind:   message.ContractCall,
		Chain:  chain,
		From:   req.Owner,
		To:     req.Token,
		Amount: new(big.Int),
		Data:   data,
	}
	txReq, err := BuildTxRequest(intent, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return intent, txReq, nil
}

func (a *Adapter) checkAllowance(ctx context.Context, req *message.AllowanceRequirement) error {
	if req == nil {
		return nil
	}
	input, err := PackAllowance(req.Owner, req.Spender)
	if err != nil {
		return err
	}
	token := common.HexToAddress(req.Token)
	output, err := a.Backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: input}, nil)
	if err != nil {
		return tokens.WrapRPCQueryError(err, "allowance", req.Token, req.Owner, req.Spender)
	}
	current, err := UnpackAllowance(output)
	if err != nil {
		return err
	}
	if current.Cmp(req.Required) < 0 {
		return &tokens.InsufficientAllowanceError{
			Token:    req.Token,
			Spender:  req.Spender,
			Current:  current,
			Required: new(big.Int).Set(req.Required),
		}
	}
	return nil
}

// gasPrice dynamic fee when the latest header carries a base fee, else legacy
func (a *Adapter) gasPrice(ctx context.Context) (*GasPrice, error) {
	header, err := a.Backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, tokens.WrapRPCQueryError(err, "eth_getBlockByNumber", "latest")
	}
	if header.BaseFee == nil {
		price, errf := a.Backend.SuggestGasPrice(ctx)
		if errf != nil {
			return nil, tokens.WrapRPCQueryError(errf, "eth_gasPrice")
		}
		return &GasPrice{FeeCap: price}, nil
	}
	tip, err := a.Backend.SuggestGasTipCap(ctx)
	if err != nil || tip == nil || tip.Sign() == 0 {
		if err != nil {
			log.Debug("suggest gas tip cap failed, use fallback", "err", err)
		}
		tip = new(big.Int).Set(params.GetEVMConfig().GetFallbackPriorityFee())
	}
	feeCap := new(big.Int).Mul(tip, big.NewInt(2))
	feeCap.Add(feeCap, header.BaseFee)
	return &GasPrice{FeeCap: feeCap, TipCap: tip}, nil
}

func (a *Adapter) estimateGas(ctx context.Context, req *TxRequest) (uint64, error) {
	esGasLimit, err := a.Backend.EstimateGas(ctx, req.CallMsg())
	if err != nil {
		log.Warn("estimate gas failed", "from", req.From, "to", req.To, "value", req.Value, "err", err)
		if mapped := mapProviderError(err); mapped != err {
			return 0, mapped
		}
		return 0, fmt.Errorf("%w: %v", tokens.ErrEstimateGasFailed, err)
	}
	esGasLimit += esGasLimit * 30 / 100
	defGasLimit := params.GetEVMConfig().DefaultGasLimit
	if esGasLimit < defGasLimit {
		esGasLimit = defGasLimit
	}
	return esGasLimit, nil
}

func (a *Adapter) checkBalance(ctx context.Context, req *TxRequest, fee *big.Int) error {
	balance, err := a.Backend.BalanceAt(ctx, req.From, nil)
	if err != nil {
		return tokens.WrapRPCQueryError(mapProviderError(err), "eth_getBalance", req.From, "latest")
	}
	needValue := new(big.Int).Add(req.Value, fee)
	if balance.Cmp(needValue) < 0 {
		return fmt.Errorf("%w: %v < %v", tokens.ErrInsufficientFundsForGas, balance, needValue)
	}
	return nil
}

// NewTx build unsigned tx
func NewTx(chainID *big.Int, nonce uint64, req *TxRequest, gas uint64, price *GasPrice) *types.Transaction {
	to := req.To
	if price.IsDynamic() {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: price.TipCap,
			GasFeeCap: price.FeeCap,
			Gas:       gas,
			To:        &to,
			Value:     req.Value,
			Data:      req.Data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: price.FeeCap,
		Gas:      gas,
		To:       &to,
		Value:    req.Value,
		Data:     req.Data,
	})
}

var insufficientGasPatterns = []string{
	"missing revert data",
	"invalid bignumber value",
	"malformed numeric value",
	"insufficient funds for gas",
}

// mapProviderError map node errors which indicate a lack of gas funds
func mapProviderError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range insufficientGasPatterns {
		if strings.Contains(msg, pattern) {
			return fmt.Errorf("%w: %v", tokens.ErrInsufficientFundsForGas, err)
		}
	}
	return err
}
