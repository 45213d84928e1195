// Package interfaces defines service contracts for stonkbot
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceClient looks up the current market price for a ticker. Every failure
// mode (network, parse, unknown ticker) surfaces as an error wrapping the
// client's price-unavailable sentinel; callers do not distinguish causes.
type PriceClient interface {
	GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}
