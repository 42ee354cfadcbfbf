// Package report builds watchlist price reports shared by chat commands and the daily broadcast
package report

import (
	"context"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/format"
)

// Lister provides the current watchlist snapshot
type Lister interface {
	List() ([]core.Symbol, error)
}

// Reporter fetches quotes for every tracked symbol and renders them
type Reporter struct {
	watchlist Lister
	source    core.PriceSource
}

func NewReporter(watchlist Lister, source core.PriceSource) *Reporter {
	return &Reporter{
		watchlist: watchlist,
		source:    source,
	}
}

// Collect fetches quotes one symbol at a time in watchlist order.
// A failed fetch yields an entry without a quote and does not stop the others.
func (r *Reporter) Collect(ctx context.Context) ([]format.Entry, error) {
	symbols, err := r.watchlist.List()
	if err != nil {
		return nil, err
	}

	entries := make([]format.Entry, 0, len(symbols))
	for _, symbol := range symbols {
		quote, ok := r.source.FetchPrice(ctx, symbol)
		entries = append(entries, format.Entry{Symbol: symbol, Quote: quote, OK: ok})
	}

	return entries, nil
}

// Report collects the watchlist quotes and renders them under header
func (r *Reporter) Report(ctx context.Context, header string) (string, error) {
	entries, err := r.Collect(ctx)
	if err != nil {
		return "", err
	}

	return format.Report(entries, header), nil
}
