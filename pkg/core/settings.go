package core

import "time"

// Settings represents the main configuration for the application
type Settings struct {
	Telegram TelegramSettings // Telegram bot settings
	Discord  DiscordSettings  // Optional Discord mirror for broadcasts
	Schedule ScheduleSettings // Daily broadcast schedule
	Price    PriceSettings    // Market data source
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Token     string // Bot token
	ClientID  int64  // Bot application id, must match the token
	ChannelID int64  // Chat receiving the daily broadcast
	Users     []int  // Authorized user IDs, empty allows everyone
}

// DiscordSettings holds the webhook used to mirror broadcasts
type DiscordSettings struct {
	WebhookURL string
}

// Enabled reports whether a webhook is configured
func (d DiscordSettings) Enabled() bool {
	return d.WebhookURL != ""
}

// ScheduleSettings configures the daily broadcast
type ScheduleSettings struct {
	Spec     string // Cron expression, eg: 0 9 * * *
	Timezone string // IANA zone, eg: Asia/Bangkok
}

// PriceSettings configures the market data source
type PriceSettings struct {
	Source  string        // coingecko or binance
	BaseURL string        // Optional endpoint override
	Timeout time.Duration // Per request timeout
}
