// Package coinbot wires the watchlist, price source, chat transport and daily
// scheduler into a runnable bot
package coinbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/raykavin/coinbot/pkg/command"
	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/logger"
	"github.com/raykavin/coinbot/pkg/scheduler"
	"github.com/raykavin/coinbot/pkg/watchlist"
)

// Bot represents the coin tracking bot
type Bot struct {
	settings  *core.Settings
	source    core.PriceSource
	watchlist *watchlist.Watchlist
	router    *command.Router
	scheduler *scheduler.Scheduler
	telegram  core.NotifierWithStart
	notifiers []core.Notifier
	log       logger.Logger
}

// NewBot creates the bot: an empty watchlist, the command router, the chat
// transport and the daily scheduler
func NewBot(
	ctx context.Context,
	settings *core.Settings,
	source core.PriceSource,
	log logger.Logger,
	options ...Option,
) (*Bot, error) {
	if err := validate(settings, source, log); err != nil {
		return nil, err
	}

	wl, err := watchlist.New()
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		settings:  settings,
		source:    source,
		watchlist: wl,
		router:    command.NewRouter(wl, source, log),
		log:       log,
	}

	// Apply custom options
	for _, option := range options {
		option(bot)
	}

	// Initialize notification systems
	if err := initializeNotifications(ctx, bot); err != nil {
		_ = wl.Close()
		return nil, err
	}

	bot.scheduler, err = scheduler.New(
		settings.Schedule.Spec,
		settings.Schedule.Timezone,
		wl,
		source,
		bot.broadcaster(),
		log,
	)
	if err != nil {
		_ = wl.Close()
		return nil, err
	}

	return bot, nil
}

// validate checks if the provided settings, source and logger are usable
func validate(settings *core.Settings, source core.PriceSource, log logger.Logger) error {
	if settings == nil {
		return errors.New("settings cannot be nil")
	}

	if source == nil {
		return errors.New("price source cannot be nil")
	}

	if log == nil {
		return errors.New("logger cannot be nil")
	}

	return nil
}

// Router returns the command router
func (b *Bot) Router() *command.Router {
	return b.router
}

// Watchlist returns the tracked coins
func (b *Bot) Watchlist() *watchlist.Watchlist {
	return b.watchlist
}

// Scheduler returns the daily broadcast scheduler
func (b *Bot) Scheduler() *scheduler.Scheduler {
	return b.scheduler
}

// Run starts the chat transport and the scheduler and blocks until ctx is done
func (b *Bot) Run(ctx context.Context) error {
	if b.telegram != nil {
		b.telegram.Start()
		defer b.telegram.Stop()
	}

	b.scheduler.Start(ctx)
	defer b.scheduler.Stop()

	b.log.WithFields(map[string]any{
		"source":   b.source.Name(),
		"schedule": b.settings.Schedule.Spec,
		"timezone": b.settings.Schedule.Timezone,
	}).Info("coinbot running")

	<-ctx.Done()
	b.log.Info("shutting down")

	if err := b.watchlist.Close(); err != nil {
		return fmt.Errorf("failed to close watchlist: %w", err)
	}

	return nil
}
