package core

import "context"

// PriceSource fetches a quote for a single symbol.
// A failed fetch is reported through ok == false, never as an error.
type PriceSource interface {
	Name() string
	FetchPrice(ctx context.Context, symbol Symbol) (quote PriceQuote, ok bool)
}

// Notifier delivers a broadcast message
type Notifier interface {
	Notify(text string) error
}

type NotifierWithStart interface {
	Notifier
	Start()
	Stop()
}
