// Package format renders quotes and watchlist reports as chat text
package format

import (
	"fmt"
	"strings"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	NoCoinsMessage = "🚫 No coins tracked"
	PriceHeader    = "💰 *Current prices of tracked coins:*"
	DailyTitle     = "📊 Daily coin prices:"

	RisingIndicator  = "📈"
	FallingIndicator = "📉"

	smallPricePlaces = 8
	pricePlaces      = 2
	changePlaces     = 2
)

// SmallPriceThreshold is the price below which 8 decimal places are shown
var SmallPriceThreshold = decimal.RequireFromString("0.1")

// Entry is one watchlist line: a symbol and its quote, if it could be fetched
type Entry struct {
	Symbol core.Symbol
	Quote  core.PriceQuote
	OK     bool
}

// Price renders a price with 8 decimals under SmallPriceThreshold, 2 otherwise
func Price(price decimal.Decimal) string {
	if price.LessThan(SmallPriceThreshold) {
		return price.StringFixed(smallPricePlaces)
	}
	return price.StringFixed(pricePlaces)
}

// Change renders a 24h change with an explicit sign and 2 decimals
func Change(change decimal.Decimal) string {
	if change.Sign() >= 0 {
		return "+" + change.StringFixed(changePlaces)
	}
	return change.StringFixed(changePlaces)
}

// Indicator returns the trend emoji for a quote
func Indicator(quote core.PriceQuote) string {
	if quote.Rising() {
		return RisingIndicator
	}
	return FallingIndicator
}

// Quote renders a single quote line, eg: - *BITCOIN*: $64000.00 📈 (24h: +1.25%)
func Quote(symbol core.Symbol, quote core.PriceQuote) string {
	return fmt.Sprintf("- *%s*: $%s %s (24h: %s%%)",
		symbol.Display(), Price(quote.Price), Indicator(quote), Change(quote.Change24h))
}

// Unavailable is the report line for a symbol whose quote could not be fetched
func Unavailable(symbol core.Symbol) string {
	return fmt.Sprintf("%s - ❌ price unavailable", symbol.Display())
}

// FetchFailed is the reply for a single price lookup that failed
func FetchFailed(symbol core.Symbol) string {
	return fmt.Sprintf("❌ Could not fetch price data for %s", symbol)
}

// Report renders one line per entry, each terminated by a line break.
// A non-empty header goes on its own first line.
func Report(entries []Entry, header string) string {
	if len(entries) == 0 {
		return NoCoinsMessage
	}

	var sb strings.Builder
	if header != "" {
		sb.WriteString(header)
		sb.WriteString("\n")
	}

	for _, entry := range entries {
		if entry.OK {
			sb.WriteString(Quote(entry.Symbol, entry.Quote))
		} else {
			sb.WriteString(Unavailable(entry.Symbol))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Tracking renders the list of tracked symbols
func Tracking(symbols []core.Symbol) string {
	if len(symbols) == 0 {
		return NoCoinsMessage
	}

	names := lo.Map(symbols, func(s core.Symbol, _ int) string {
		return s.Display()
	})
	return "📋 Tracking: " + strings.Join(names, ", ")
}
