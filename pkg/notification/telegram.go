// Package notification provides the chat transports: the Telegram bot that receives
// commands and delivers broadcasts, and an optional Discord webhook mirror
package notification

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/raykavin/coinbot/pkg/command"
	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/logger"
	"github.com/samber/lo"
	tb "gopkg.in/tucnak/telebot.v2"
)

const pollingTimeout = 10 * time.Second

// Dispatcher turns a chat command into a reply
type Dispatcher interface {
	Dispatch(ctx context.Context, req command.Request) (reply string, ok bool)
}

// Telegram implements core.NotifierWithStart
type Telegram struct {
	ctx      context.Context
	settings core.TelegramSettings
	router   Dispatcher
	client   *tb.Bot
	log      logger.Logger
}

// NewTelegram logs in, registers the bot commands and their handlers.
// Any failure here is a startup failure.
func NewTelegram(ctx context.Context, settings core.TelegramSettings, router Dispatcher, log logger.Logger) (
	*Telegram,
	error,
) {
	poller := &tb.LongPoller{Timeout: pollingTimeout}

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Token,
		Poller:    newAuthMiddleware(poller, settings, log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if err := verifyClientID(settings, client.Me); err != nil {
		return nil, err
	}

	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	bot := &Telegram{
		ctx:      ctx,
		settings: settings,
		router:   router,
		client:   client,
		log:      log,
	}

	registerHandlers(client, bot)

	log.WithField("username", client.Me.Username).Info("logged in to telegram")
	return bot, nil
}

// newAuthMiddleware drops non-message updates and, when users are configured, unknown senders
func newAuthMiddleware(poller *tb.LongPoller, settings core.TelegramSettings, log logger.Logger) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			return false
		}

		if len(settings.Users) == 0 || slices.Contains(settings.Users, int(u.Message.Sender.ID)) {
			return true
		}

		log.WithField("user", u.Message.Sender.ID).Warn("unauthorized user")
		return false
	})
}

// verifyClientID checks the configured application id against the logged in bot
func verifyClientID(settings core.TelegramSettings, me *tb.User) error {
	if settings.ClientID == 0 || me == nil {
		return nil
	}

	if int64(me.ID) != settings.ClientID {
		return fmt.Errorf("client id mismatch: token belongs to bot %d, configured %d", me.ID, settings.ClientID)
	}

	return nil
}

// botCommands lists the commands registered with Telegram
func botCommands() []tb.Command {
	return lo.Map(command.Commands, func(cmd command.Command, _ int) tb.Command {
		return tb.Command{Text: cmd.String(), Description: cmd.Description()}
	})
}

func setupCommands(client *tb.Bot) error {
	return client.SetCommands(botCommands())
}

func registerHandlers(client *tb.Bot, bot *Telegram) {
	for _, cmd := range command.Commands {
		client.Handle("/"+cmd.String(), bot.CommandHandle)
	}

	// unregistered slash commands still reach the router, which ignores them
	client.Handle(tb.OnText, bot.CommandHandle)
}

// parseMessage splits a message into command name and first argument
func parseMessage(text string) command.Request {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return command.Request{}
	}

	req := command.Request{Name: fields[0]}
	if len(fields) > 1 {
		req.Coin = fields[1]
	}

	return req
}

// CommandHandle dispatches a command message and replies in the same chat
func (t *Telegram) CommandHandle(m *tb.Message) {
	req := parseMessage(m.Text)
	if req.Name == "" {
		return
	}

	reply, ok := t.router.Dispatch(t.ctx, req)
	if !ok {
		return
	}

	if err := t.sendMessage(m.Chat, reply); err != nil {
		t.log.WithError(err).WithField("chat", m.Chat.ID).Error("failed to send reply")
	}
}

// Start begins long polling in the background
func (t *Telegram) Start() {
	go t.client.Start()
}

// Stop stops polling
func (t *Telegram) Stop() {
	t.client.Stop()
}

// Notify sends a message to the broadcast channel
func (t *Telegram) Notify(text string) error {
	return t.sendMessage(tb.ChatID(t.settings.ChannelID), text)
}

func (t *Telegram) sendMessage(to tb.Recipient, text string, options ...any) error {
	if _, err := t.client.Send(to, text, options...); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
