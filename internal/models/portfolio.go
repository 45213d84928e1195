// Package models defines data structures for stonkbot
package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument marks malformed or out-of-range caller input. Handlers
// recover from it locally with a usage message; it never mutates state.
var ErrInvalidArgument = errors.New("invalid argument")

// Position is a user's aggregated holding in one ticker.
type Position struct {
	Amount   decimal.Decimal `json:"amount"`
	BuyPrice decimal.Decimal `json:"buy_price"`

	// LastPrice is the price observed at the last successful valuation.
	// Nil until the first valuation, and cleared back to nil when a price
	// fetch fails so the next day movement starts fresh.
	LastPrice *decimal.Decimal `json:"last_price,omitempty"`
}

// Ledger maps ticker symbols to positions for a single chat user.
type Ledger struct {
	Positions map[string]*Position `json:"positions"`
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{Positions: make(map[string]*Position)}
}

// NormalizeTicker applies the uppercase ticker convention.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// RecordBuy merges a buy lot into the ledger. A new ticker creates a position
// with no last price; an existing ticker is merged using the amount-weighted
// average cost, leaving LastPrice untouched. Amount and price must both be
// positive or the ledger is left unchanged.
func (l *Ledger) RecordBuy(ticker string, amount, buyPrice decimal.Decimal) error {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return fmt.Errorf("%w: empty ticker", ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be > 0, got %s", ErrInvalidArgument, amount)
	}
	if !buyPrice.IsPositive() {
		return fmt.Errorf("%w: buy price must be > 0, got %s", ErrInvalidArgument, buyPrice)
	}

	if l.Positions == nil {
		l.Positions = make(map[string]*Position)
	}

	old, ok := l.Positions[ticker]
	if !ok {
		l.Positions[ticker] = &Position{Amount: amount, BuyPrice: buyPrice}
		return nil
	}

	newAmount := old.Amount.Add(amount)
	cost := old.Amount.Mul(old.BuyPrice).Add(amount.Mul(buyPrice))
	old.Amount = newAmount
	old.BuyPrice = cost.Div(newAmount)
	return nil
}

// Get returns the position for a ticker, if held.
func (l *Ledger) Get(ticker string) (*Position, bool) {
	pos, ok := l.Positions[NormalizeTicker(ticker)]
	return pos, ok
}

// Remove deletes a ticker's position.
func (l *Ledger) Remove(ticker string) {
	delete(l.Positions, NormalizeTicker(ticker))
}

// Tickers returns the held ticker symbols in sorted order, so one report
// visits every ticker exactly once in a stable order.
func (l *Ledger) Tickers() []string {
	tickers := make([]string, 0, len(l.Positions))
	for t := range l.Positions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// IsEmpty reports whether the ledger holds no positions.
func (l *Ledger) IsEmpty() bool {
	return len(l.Positions) == 0
}

// Len returns the number of held tickers.
func (l *Ledger) Len() int {
	return len(l.Positions)
}
