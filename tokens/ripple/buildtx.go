package ripple

import (
	"fmt"
	"strconv"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/rubblelabs/ripple/data"
)

// ledgers a payment stays valid for after the current ledger
const lastLedgerOffset = 20

// PaymentArgs unsigned payment fields
type PaymentArgs struct {
	Account        string
	Destination    string
	DestinationTag *uint32
	Amount         int64 // drops
	Fee            int64 // drops
	Sequence       uint32
	LastLedger     uint32
	Memo           string
}

// NewUnsignedPaymentTransaction build native xrp payment
func NewUnsignedPaymentTransaction(args *PaymentArgs) (*data.Payment, error) {
	if args.Amount <= 0 {
		return nil, fmt.Errorf("%w: %v drops", tokens.ErrInvalidAmount, args.Amount)
	}
	account, err := data.NewAccountFromAddress(args.Account)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrInvalidAddress, args.Account)
	}
	destination, err := data.NewAccountFromAddress(args.Destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokens.ErrInvalidAddress, args.Destination)
	}
	amount, err := data.NewAmount(args.Amount)
	if err != nil {
		return nil, err
	}
	tx := &data.Payment{
		Destination:    *destination,
		Amount:         *amount,
		DestinationTag: args.DestinationTag,
	}
	tx.TransactionType = data.PAYMENT

	txFlags := data.TransactionFlag(0)
	tx.Flags = &txFlags

	if args.Memo != "" {
		memo := new(data.Memo)
		memo.Memo.MemoData = []byte(args.Memo)
		tx.Memos = append(tx.Memos, *memo)
	}

	base := tx.GetBase()
	base.Account = *account
	base.Sequence = args.Sequence
	if args.LastLedger > 0 {
		lastLedger := args.LastLedger
		base.LastLedgerSequence = &lastLedger
	}

	fee, err := data.NewValue(strconv.FormatInt(args.Fee, 10), true)
	if err != nil {
		return nil, err
	}
	base.Fee = *fee

	log.Debug("build unsigned payment tx", "account", args.Account,
		"destination", args.Destination, "tag", args.DestinationTag, "amount", args.Amount,
		"memo", args.Memo, "fee", args.Fee, "sequence", args.Sequence, "lastLedger", args.LastLedger)
	return tx, nil
}
