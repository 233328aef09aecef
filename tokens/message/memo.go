package message

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/tokens"
)

// memo opcodes
const (
	OpSwap           = "="
	OpAddLiquidity   = "+"
	OpWithdraw       = "-"
	OpExecute        = "x"
	OpSwitch         = "switch"
	OpSecureDeposit  = "secure+"
	OpSecureWithdraw = "secure-"

	MaxBasisPoints = 10000
)

var opAliases = map[string]string{
	"=":        OpSwap,
	"s":        OpSwap,
	"swap":     OpSwap,
	"+":        OpAddLiquidity,
	"a":        OpAddLiquidity,
	"add":      OpAddLiquidity,
	"-":        OpWithdraw,
	"wd":       OpWithdraw,
	"withdraw": OpWithdraw,
	"x":        OpExecute,
	"switch":   OpSwitch,
	"secure+":  OpSecureDeposit,
	"secure-":  OpSecureWithdraw,
}

// Memo parsed memo
type Memo struct {
	Op        string
	Asset     string // swap target or pool
	Address   string
	Limit     string
	Interval  string
	Quantity  string
	Affiliate string
	Bps       uint32
	Contract  string
	Payload   []byte
}

// AddLiquidityMemo `+:<POOL>:<ADDR>:<AFFILIATE>:<BPS>`, affiliate slots are always rendered
func AddLiquidityMemo(pool, address, affiliate string, bps uint32) (string, error) {
	if pool == "" {
		return "", fmt.Errorf("%w: empty pool", tokens.ErrInvalidMemo)
	}
	if bps > MaxBasisPoints {
		return "", fmt.Errorf("%w: affiliate bps %v", tokens.ErrInvalidMemo, bps)
	}
	feeBps := ""
	if affiliate != "" {
		feeBps = strconv.FormatUint(uint64(bps), 10)
	}
	return strings.Join([]string{OpAddLiquidity, pool, address, affiliate, feeBps}, ":"), nil
}

// WithdrawMemo `-:<POOL>:<BPS>`
func WithdrawMemo(pool string, bps uint32) (string, error) {
	if pool == "" {
		return "", fmt.Errorf("%w: empty pool", tokens.ErrInvalidMemo)
	}
	if bps == 0 || bps > MaxBasisPoints {
		return "", fmt.Errorf("%w: withdraw bps %v not in [1, %v]", tokens.ErrInvalidMemo, bps, MaxBasisPoints)
	}
	return fmt.Sprintf("%v:%v:%v", OpWithdraw, pool, bps), nil
}

// ExecuteMemo `x:<CONTRACT>:<BASE64-PAYLOAD>`
func ExecuteMemo(contract string, payload []byte) (string, error) {
	if contract == "" {
		return "", fmt.Errorf("%w: empty contract", tokens.ErrInvalidMemo)
	}
	return fmt.Sprintf("%v:%v:%v", OpExecute, contract, base64.StdEncoding.EncodeToString(payload)), nil
}

// SwitchMemo `switch:<ADDR>`
func SwitchMemo(address string) (string, error) {
	return addressMemo(OpSwitch, address)
}

// SecureDepositMemo `secure+:<ADDR>`
func SecureDepositMemo(address string) (string, error) {
	return addressMemo(OpSecureDeposit, address)
}

// SecureWithdrawMemo `secure-:<ADDR>`
func SecureWithdrawMemo(address string) (string, error) {
	return addressMemo(OpSecureWithdraw, address)
}

func addressMemo(op, address string) (string, error) {
	if address == "" || strings.Contains(address, ":") {
		return "", fmt.Errorf("%w: bad address %q", tokens.ErrInvalidMemo, address)
	}
	return op + ":" + address, nil
}

// ParseMemo parse memo of any known opcode
func ParseMemo(memo string) (*Memo, error) {
	parts := strings.Split(memo, ":")
	op, exist := opAliases[strings.ToLower(parts[0])]
	if !exist {
		return nil, fmt.Errorf("%w: unknown opcode %q", tokens.ErrInvalidMemo, parts[0])
	}
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	result := &Memo{Op: op}
	switch op {
	case OpSwap:
		if len(parts) < 3 || parts[1] == "" {
			return nil, fmt.Errorf("%w: swap memo %q", tokens.ErrInvalidMemo, memo)
		}
		result.Asset, result.Address = parts[1], parts[2]
		if limit := get(3); limit != "" {
			streaming := strings.Split(limit, "/")
			result.Limit = streaming[0]
			if len(streaming) > 1 {
				result.Interval = streaming[1]
			}
			if len(streaming) > 2 {
				result.Quantity = streaming[2]
			}
		}
		result.Affiliate = get(4)
		if err := result.parseBps(get(5)); err != nil {
			return nil, err
		}
	case OpAddLiquidity:
		if len(parts) < 2 || parts[1] == "" {
			return nil, fmt.Errorf("%w: add liquidity memo %q", tokens.ErrInvalidMemo, memo)
		}
		result.Asset, result.Address, result.Affiliate = parts[1], get(2), get(3)
		if err := result.parseBps(get(4)); err != nil {
			return nil, err
		}
	case OpWithdraw:
		if len(parts) != 3 || parts[1] == "" {
			return nil, fmt.Errorf("%w: withdraw memo %q", tokens.ErrInvalidMemo, memo)
		}
		result.Asset = parts[1]
		if err := result.parseBps(parts[2]); err != nil {
			return nil, err
		}
		if result.Bps == 0 {
			return nil, fmt.Errorf("%w: withdraw bps is zero", tokens.ErrInvalidMemo)
		}
	case OpExecute:
		if len(parts) != 3 || parts[1] == "" {
			return nil, fmt.Errorf("%w: execute memo %q", tokens.ErrInvalidMemo, memo)
		}
		payload, err := base64.StdEncoding.DecodeString(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: execute payload: %v", tokens.ErrInvalidMemo, err)
		}
		result.Contract, result.Payload = parts[1], payload
	default:
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("%w: %v memo %q", tokens.ErrInvalidMemo, op, memo)
		}
		result.Address = parts[1]
	}
	return result, nil
}

func (m *Memo) parseBps(s string) error {
	if s == "" {
		return nil
	}
	bps, err := strconv.ParseUint(s, 10, 32)
	if err != nil || bps > MaxBasisPoints {
		return fmt.Errorf("%w: bps %q", tokens.ErrInvalidMemo, s)
	}
	m.Bps = uint32(bps)
	return nil
}
