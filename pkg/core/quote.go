package core

import "github.com/shopspring/decimal"

// PriceQuote is a fresh market snapshot for a single symbol
type PriceQuote struct {
	Price     decimal.Decimal // Current price in USD
	Change24h decimal.Decimal // Signed 24h change in percent
}

// Rising reports whether the 24h change is non-negative
func (q PriceQuote) Rising() bool {
	return q.Change24h.Sign() >= 0
}
