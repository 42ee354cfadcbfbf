package coinbot

import "github.com/raykavin/coinbot/pkg/core"

// Option is a functional option for configuring a Bot instance
type Option func(*Bot)

// WithNotifier adds a broadcast destination for the daily report
func WithNotifier(notifier core.Notifier) Option {
	return func(bot *Bot) {
		bot.notifiers = append(bot.notifiers, notifier)
	}
}

// WithTelegram sets the chat transport instead of creating one from the settings
func WithTelegram(telegram core.NotifierWithStart) Option {
	return func(bot *Bot) {
		bot.telegram = telegram
		bot.notifiers = append(bot.notifiers, telegram)
	}
}
