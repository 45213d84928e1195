package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stonkbot/internal/models"
)

// signedFixed renders a movement figure with an explicit sign and exactly
// two decimal places.
func signedFixed(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}

// FormatLine renders one ticker's report line: bold ticker, current price,
// an optional day-movement segment, and the total-movement segment.
//
//	*TSLA*: $220.00 D:($+20.00/+10.00%) T:($+100.00/+4.76%)
func FormatLine(ticker string, currentPrice decimal.Decimal, m models.Movements) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*: $%s", ticker, currentPrice.StringFixed(2))

	if m.HasDay() {
		fmt.Fprintf(&b, " D:($%s/%s%%)", signedFixed(*m.Day), signedFixed(*m.DayPct))
	}

	fmt.Fprintf(&b, " T:($%s/%s%%)", signedFixed(m.Total), signedFixed(m.TotalPct))
	return b.String()
}

// FormatFailureLine is the degraded line for a ticker whose price lookup
// failed.
func FormatFailureLine(ticker string) string {
	return fmt.Sprintf("Failed to retrieve price for %s", ticker)
}

// FormatTrackConfirmation summarizes the merged position after a buy.
func FormatTrackConfirmation(ticker string, pos *models.Position) string {
	return fmt.Sprintf("Tracking *%s*: %s @ $%s", ticker, pos.Amount.String(), pos.BuyPrice.StringFixed(2))
}
