package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/raykavin/coinbot/pkg/logger"
)

const discordTimeout = 10 * time.Second

var boldSpan = regexp.MustCompile(`\*([^*\n]+)\*`)

// DiscordWebhookMessage is the webhook execute payload
type DiscordWebhookMessage struct {
	Content string `json:"content"`
}

// DiscordWebhook mirrors broadcasts to a Discord channel webhook
type DiscordWebhook struct {
	url        string
	httpClient *http.Client
	log        logger.Logger
}

func NewDiscordWebhook(url string, log logger.Logger) *DiscordWebhook {
	return &DiscordWebhook{
		url:        url,
		httpClient: &http.Client{Timeout: discordTimeout},
		log:        log,
	}
}

// Notify implements core.Notifier
func (w *DiscordWebhook) Notify(text string) error {
	return w.SendTextMessage(context.Background(), text)
}

// SendTextMessage posts text, converting Telegram bold spans to Discord ones
func (w *DiscordWebhook) SendTextMessage(ctx context.Context, text string) error {
	return w.SendMessage(ctx, DiscordWebhookMessage{
		Content: toDiscordMarkdown(text),
	})
}

// toDiscordMarkdown rewrites *bold* spans as **bold**, leaving lone asterisks alone
func toDiscordMarkdown(text string) string {
	return boldSpan.ReplaceAllString(text, "**$1**")
}

func (w *DiscordWebhook) SendMessage(ctx context.Context, message DiscordWebhookMessage) error {
	if w.url == "" {
		return nil
	}

	b, err := json.Marshal(message)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("discord webhook: %s", resp.Status)
	}

	w.log.Debug("discord webhook posted")
	return nil
}
