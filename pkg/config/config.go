// Package config loads the bot configuration from the environment and an optional dotenv file
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

const (
	DefaultEnvFile     = ".env"
	DefaultPriceSource = "coingecko"
	DefaultSchedule    = "0 9 * * *"
	DefaultTimezone    = "Asia/Bangkok"
	DefaultTimeout     = "10s"
)

// Environment variable names
const (
	envBotToken       = "BOT_TOKEN"
	envClientID       = "CLIENT_ID"
	envChannelID      = "CHANNEL_ID"
	envTelegramUsers  = "TELEGRAM_USERS"
	envDiscordWebhook = "DISCORD_WEBHOOK_URL"
	envSchedule       = "DAILY_SCHEDULE"
	envTimezone       = "TIMEZONE"
	envPriceSource    = "PRICE_SOURCE"
	envPriceAPIURL    = "PRICE_API_URL"
	envPriceTimeout   = "PRICE_TIMEOUT"
	envLogLevel       = "LOG_LEVEL"
	envLogTimeFormat  = "LOG_TIME_FORMAT"
	envLogColor       = "LOG_COLOR"
	envLogJSON        = "LOG_JSON"
)

var (
	ErrMissingToken    = errors.New("missing " + envBotToken)
	ErrMissingClientID = errors.New("missing " + envClientID)
	ErrMissingChannel  = errors.New("missing " + envChannelID)
	ErrClientMismatch  = errors.New(envClientID + " does not match " + envBotToken)
)

// AppConfig holds the application configuration
type AppConfig struct {
	Settings core.Settings
	Log      LogConfig
}

// LogConfig holds logger options
type LogConfig struct {
	Level      string
	TimeFormat string
	Colored    bool
	JSON       bool
}

// Load reads configuration from the environment. When envFile exists it is read first
// and real environment variables take precedence over it.
func Load(envFile string) (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(envSchedule, DefaultSchedule)
	v.SetDefault(envTimezone, DefaultTimezone)
	v.SetDefault(envPriceSource, DefaultPriceSource)
	v.SetDefault(envPriceTimeout, DefaultTimeout)
	v.SetDefault(envLogLevel, "info")
	v.SetDefault(envLogTimeFormat, "2006-01-02 15:04:05")
	v.SetDefault(envLogColor, true)
	v.SetDefault(envLogJSON, false)

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	clientID, err := parseID(v.GetString(envClientID), envClientID)
	if err != nil {
		return nil, err
	}

	channelID, err := parseID(v.GetString(envChannelID), envChannelID)
	if err != nil {
		return nil, err
	}

	users, err := parseUsers(v.GetString(envTelegramUsers))
	if err != nil {
		return nil, err
	}

	timeout, err := str2duration.ParseDuration(v.GetString(envPriceTimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envPriceTimeout, err)
	}

	config := &AppConfig{
		Settings: core.Settings{
			Telegram: core.TelegramSettings{
				Token:     strings.TrimSpace(v.GetString(envBotToken)),
				ClientID:  clientID,
				ChannelID: channelID,
				Users:     users,
			},
			Discord: core.DiscordSettings{
				WebhookURL: v.GetString(envDiscordWebhook),
			},
			Schedule: core.ScheduleSettings{
				Spec:     v.GetString(envSchedule),
				Timezone: v.GetString(envTimezone),
			},
			Price: core.PriceSettings{
				Source:  strings.ToLower(v.GetString(envPriceSource)),
				BaseURL: v.GetString(envPriceAPIURL),
				Timeout: timeout,
			},
		},
		Log: LogConfig{
			Level:      v.GetString(envLogLevel),
			TimeFormat: v.GetString(envLogTimeFormat),
			Colored:    v.GetBool(envLogColor),
			JSON:       v.GetBool(envLogJSON),
		},
	}

	return config, nil
}

// Validate checks the settings needed to run the bot
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Settings.Telegram.Token == "" {
		errs = append(errs, ErrMissingToken)
	}
	if c.Settings.Telegram.ClientID == 0 {
		errs = append(errs, ErrMissingClientID)
	} else if id, ok := tokenBotID(c.Settings.Telegram.Token); ok && id != c.Settings.Telegram.ClientID {
		errs = append(errs, ErrClientMismatch)
	}
	if c.Settings.Telegram.ChannelID == 0 {
		errs = append(errs, ErrMissingChannel)
	}
	if c.Settings.Price.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", envPriceTimeout))
	}

	switch c.Settings.Price.Source {
	case "coingecko", "binance":
	default:
		errs = append(errs, fmt.Errorf("unknown %s %q", envPriceSource, c.Settings.Price.Source))
	}

	return errors.Join(errs...)
}

// tokenBotID extracts the bot id from a token of the form <id>:<secret>
func tokenBotID(token string) (int64, bool) {
	prefix, _, found := strings.Cut(token, ":")
	if !found {
		return 0, false
	}

	id, err := strconv.ParseInt(prefix, 10, 64)
	return id, err == nil
}

func parseID(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return id, nil
}

func parseUsers(raw string) ([]int, error) {
	var users []int
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envTelegramUsers, err)
		}
		users = append(users, id)
	}

	return users, nil
}
