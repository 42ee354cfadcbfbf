package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/format"
	"github.com/raykavin/coinbot/pkg/logger"
	"github.com/raykavin/coinbot/pkg/report"
	"github.com/raykavin/coinbot/pkg/watchlist"
)

const (
	internalErrorMessage = "⚠️ Something went wrong, please try again"
	invalidSymbolMessage = "🚫 Coin names may only contain letters, digits and dashes, eg: shiba-inu"
)

// Watchlist is the subset of watchlist.Watchlist used by the router
type Watchlist interface {
	Add(raw string) (watchlist.Outcome, error)
	Remove(raw string) (watchlist.Outcome, error)
	List() ([]core.Symbol, error)
}

// Request is an inbound chat command
type Request struct {
	Name string // Command name, eg: add or /add@coinbot
	Coin string // Optional coin argument
}

// Router turns requests into exactly one reply each
type Router struct {
	watchlist Watchlist
	source    core.PriceSource
	reporter  *report.Reporter
	log       logger.Logger
}

func NewRouter(wl Watchlist, source core.PriceSource, log logger.Logger) *Router {
	return &Router{
		watchlist: wl,
		source:    source,
		reporter:  report.NewReporter(wl, source),
		log:       log,
	}
}

// Dispatch handles a request. Unknown commands return ok == false and no reply.
func (r *Router) Dispatch(ctx context.Context, req Request) (reply string, ok bool) {
	cmd, ok := ParseCommand(req.Name)
	if !ok {
		r.log.WithField("command", req.Name).Debug("ignoring unknown command")
		return "", false
	}

	return r.Handle(ctx, cmd, req.Coin)
}

// Handle runs a parsed command. Every known command yields exactly one reply.
func (r *Router) Handle(ctx context.Context, cmd Command, coin string) (reply string, ok bool) {
	switch cmd {
	case CommandAdd:
		return r.add(cmd, coin), true
	case CommandRemove:
		return r.remove(cmd, coin), true
	case CommandCheck:
		return r.check(), true
	case CommandPrice:
		return r.price(ctx, coin), true
	default:
		return "", false
	}
}

func (r *Router) add(cmd Command, coin string) string {
	outcome, err := r.watchlist.Add(coin)
	if errors.Is(err, core.ErrEmptySymbol) {
		return cmd.Usage()
	}
	if errors.Is(err, core.ErrInvalidSymbol) {
		return invalidSymbolMessage
	}
	if err != nil {
		r.log.WithError(err).Error("failed to add coin")
		return internalErrorMessage
	}

	symbol := core.NormalizeSymbol(coin)
	r.log.WithFields(map[string]any{"symbol": symbol, "outcome": outcome}).Info("watchlist add")

	if outcome == watchlist.AlreadyPresent {
		return fmt.Sprintf("🚨 *%s* is already on the watchlist!", symbol.Display())
	}
	return fmt.Sprintf("✅ Added *%s* to the watchlist!", symbol.Display())
}

func (r *Router) remove(cmd Command, coin string) string {
	outcome, err := r.watchlist.Remove(coin)
	if errors.Is(err, core.ErrEmptySymbol) {
		return cmd.Usage()
	}
	if errors.Is(err, core.ErrInvalidSymbol) {
		return invalidSymbolMessage
	}
	if err != nil {
		r.log.WithError(err).Error("failed to remove coin")
		return internalErrorMessage
	}

	symbol := core.NormalizeSymbol(coin)
	r.log.WithFields(map[string]any{"symbol": symbol, "outcome": outcome}).Info("watchlist remove")

	if outcome == watchlist.NotPresent {
		return fmt.Sprintf("🚫 %s is not on the watchlist", symbol.Display())
	}
	return fmt.Sprintf("❌ Removed %s from the watchlist", symbol.Display())
}

func (r *Router) check() string {
	symbols, err := r.watchlist.List()
	if err != nil {
		r.log.WithError(err).Error("failed to list watchlist")
		return internalErrorMessage
	}

	return format.Tracking(symbols)
}

func (r *Router) price(ctx context.Context, coin string) string {
	symbol, err := core.ParseSymbol(coin)
	if errors.Is(err, core.ErrInvalidSymbol) {
		return invalidSymbolMessage
	}
	if err != nil {
		text, err := r.reporter.Report(ctx, format.PriceHeader)
		if err != nil {
			r.log.WithError(err).Error("failed to build price report")
			return internalErrorMessage
		}
		return text
	}

	quote, ok := r.source.FetchPrice(ctx, symbol)
	if !ok {
		return format.FetchFailed(symbol)
	}

	return format.Quote(symbol, quote)
}
