// Package binance fetches 24h ticker statistics from Binance spot markets
package binance

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/logger"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DefaultQuote is appended to symbols that carry no quote asset
const DefaultQuote = "USDT"

// stableQuotes may be written glued to the base, eg: btcusdt. Crypto quotes need a
// separator (eth-btc) since many base assets end in one, eg: wbtc, steth.
var stableQuotes = []string{"USDT", "USDC", "FDUSD", "BUSD"}

// Ticker implements core.PriceSource using the 24hr ticker endpoint
type Ticker struct {
	client *binance.Client
	log    logger.Logger
}

// Option is a function that configures a Ticker
type Option func(*Ticker)

// WithBaseURL overrides the REST endpoint, eg: https://api.binance.us
func WithBaseURL(baseURL string) Option {
	return func(t *Ticker) {
		t.client.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout bounds every ticker request
func WithTimeout(timeout time.Duration) Option {
	return func(t *Ticker) {
		t.client.HTTPClient = &http.Client{Timeout: timeout}
	}
}

// NewTicker creates a Binance price source
func NewTicker(log logger.Logger, options ...Option) *Ticker {
	ticker := &Ticker{
		client: binance.NewClient("", ""),
		log:    log,
	}

	for _, option := range options {
		option(ticker)
	}

	return ticker
}

// Name implements core.PriceSource
func (t *Ticker) Name() string {
	return "binance"
}

// Pair maps a symbol to a Binance trading pair, eg: btc -> BTCUSDT, eth-btc -> ETHBTC
func Pair(symbol core.Symbol) string {
	pair := strings.ToUpper(symbol.String())

	if base, quote, found := strings.Cut(pair, "-"); found && base != "" && quote != "" {
		return base + quote
	}

	_, hasQuote := lo.Find(stableQuotes, func(quote string) bool {
		return len(pair) > len(quote) && strings.HasSuffix(pair, quote)
	})
	if hasQuote {
		return pair
	}

	return strings.ReplaceAll(pair, "-", "") + DefaultQuote
}

// FetchPrice implements core.PriceSource. Every failure is logged and reported as ok == false.
func (t *Ticker) FetchPrice(ctx context.Context, symbol core.Symbol) (core.PriceQuote, bool) {
	quote, err := t.fetch(ctx, Pair(symbol))
	if err != nil {
		t.log.WithError(err).WithField("symbol", symbol).Warn("failed to fetch ticker")
		return core.PriceQuote{}, false
	}

	return quote, true
}

func (t *Ticker) fetch(ctx context.Context, pair string) (core.PriceQuote, error) {
	stats, err := t.client.NewListPriceChangeStatsService().Symbol(pair).Do(ctx)
	if err != nil {
		return core.PriceQuote{}, fmt.Errorf("%w: %v", core.ErrPriceFetchFailed, err)
	}

	stat, found := lo.Find(stats, func(s *binance.PriceChangeStats) bool {
		return s != nil && s.Symbol == pair
	})
	if !found {
		return core.PriceQuote{}, fmt.Errorf("%w: no ticker for %s", core.ErrPriceFetchFailed, pair)
	}

	price, err := decimal.NewFromString(stat.LastPrice)
	if err != nil {
		return core.PriceQuote{}, fmt.Errorf("%w: last price: %v", core.ErrPriceFetchFailed, err)
	}

	change, err := decimal.NewFromString(stat.PriceChangePercent)
	if err != nil {
		return core.PriceQuote{}, fmt.Errorf("%w: change percent: %v", core.ErrPriceFetchFailed, err)
	}

	return core.PriceQuote{Price: price, Change24h: change}, nil
}
