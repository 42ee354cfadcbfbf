package coinbot

import (
	"context"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/notification"
)

// initializeNotifications logs in to Telegram unless a transport was injected
// and adds the Discord mirror when configured
func initializeNotifications(ctx context.Context, bot *Bot) error {
	if bot.telegram == nil {
		telegram, err := notification.NewTelegram(ctx, bot.settings.Telegram, bot.router, bot.log)
		if err != nil {
			return err
		}
		WithTelegram(telegram)(bot)
	}

	if bot.settings.Discord.Enabled() {
		WithNotifier(notification.NewDiscordWebhook(bot.settings.Discord.WebhookURL, bot.log))(bot)
	}

	return nil
}

// broadcaster returns the notifier receiving the daily report
func (b *Bot) broadcaster() core.Notifier {
	if len(b.notifiers) == 1 {
		return b.notifiers[0]
	}
	return notification.Multi(b.notifiers)
}
