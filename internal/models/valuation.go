package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Movements holds the price-movement figures for one position at one quote.
// Day figures are nil when the position has no prior valuation snapshot.
type Movements struct {
	Day      *decimal.Decimal
	DayPct   *decimal.Decimal
	Total    decimal.Decimal
	TotalPct decimal.Decimal
}

// HasDay reports whether both day figures are present.
func (m Movements) HasDay() bool {
	return m.Day != nil && m.DayPct != nil
}

// ComputeMovements derives day and lifetime movement for a position from a
// freshly fetched price. Day movement is computed only against a present,
// non-zero LastPrice; the percentage is derived from the rounded day movement
// so its sign can never diverge from the movement itself. Every figure is
// rounded to 2 decimal places independently.
func ComputeMovements(pos *Position, currentPrice decimal.Decimal) (Movements, error) {
	if !pos.BuyPrice.IsPositive() {
		return Movements{}, fmt.Errorf("%w: position buy price must be > 0, got %s", ErrInvalidArgument, pos.BuyPrice)
	}

	var m Movements

	if pos.LastPrice != nil && !pos.LastPrice.IsZero() {
		day := currentPrice.Sub(*pos.LastPrice).Round(2)
		dayPct := day.Div(*pos.LastPrice).Mul(decimal.NewFromInt(100)).Round(2)
		m.Day = &day
		m.DayPct = &dayPct
	}

	diff := currentPrice.Sub(pos.BuyPrice)
	m.Total = diff.Mul(pos.Amount).Round(2)
	m.TotalPct = diff.Div(pos.BuyPrice).Mul(decimal.NewFromInt(100)).Round(2)

	return m, nil
}
