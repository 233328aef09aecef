// Package tokens defines the chain registry, assets, amounts and the common
// types shared by the chain family builders in sub directories.
package tokens

import (
	"context"
	"math/big"
)

// Fee quoted fee item
type Fee struct {
	Asset  string   `json:"asset"`
	Amount *big.Int `json:"amount"`
	Type   string   `json:"type"`
}

// Quote swap quote returned by an external quote service
type Quote struct {
	Memo              string          `json:"memo"`
	ExpectedBuyAmount *big.Int        `json:"expectedBuyAmount"`
	Fees              []*Fee          `json:"fees"`
	InboundAddress    *InboundAddress `json:"inboundAddress"`
}

// QuoteService consumed quote service
type QuoteService interface {
	GetSwapQuote(ctx context.Context, sellAsset, buyAsset string, amount *big.Int, destination string) (*Quote, error)
}

// PriceService consumed price/rate service
type PriceService interface {
	GetPrice(ctx context.Context, asset string) (*big.Float, error)
}

// InboundService consumed inbound address discovery service
type InboundService interface {
	GetInboundAddress(ctx context.Context, chain Chain) (*InboundAddress, error)
}
