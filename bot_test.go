package coinbot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/raykavin/coinbot/pkg/command"
	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/format"
	"github.com/raykavin/coinbot/pkg/logger/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	messages []string
}

func (f *fakeTelegram) Notify(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeTelegram) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
}

func (f *fakeTelegram) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

type fakeSource struct{}

func (fakeSource) Name() string { return "fake" }

func (fakeSource) FetchPrice(context.Context, core.Symbol) (core.PriceQuote, bool) {
	return core.PriceQuote{Price: decimal.NewFromInt(2), Change24h: decimal.NewFromInt(1)}, true
}

func settings() *core.Settings {
	return &core.Settings{
		Schedule: core.ScheduleSettings{Spec: "0 9 * * *", Timezone: "Asia/Bangkok"},
	}
}

func TestNewBot_Validation(t *testing.T) {
	log := zerolog.NewNop()

	_, err := NewBot(t.Context(), nil, fakeSource{}, log)
	require.Error(t, err)

	_, err = NewBot(t.Context(), settings(), nil, log)
	require.Error(t, err)

	_, err = NewBot(t.Context(), settings(), fakeSource{}, nil)
	require.Error(t, err)
}

func TestNewBot_InvalidSchedule(t *testing.T) {
	s := settings()
	s.Schedule.Spec = "tomorrow"

	_, err := NewBot(t.Context(), s, fakeSource{}, zerolog.NewNop(), WithTelegram(&fakeTelegram{}))
	require.Error(t, err)
}

func TestBot_CommandsAndBroadcast(t *testing.T) {
	telegram, mirror := &fakeTelegram{}, &fakeTelegram{}
	bot, err := NewBot(t.Context(), settings(), fakeSource{}, zerolog.NewNop(),
		WithTelegram(telegram),
		WithNotifier(mirror),
	)
	require.NoError(t, err)

	// empty watchlist: no broadcast at all
	require.NoError(t, bot.Scheduler().Fire(t.Context()))
	require.Empty(t, telegram.messages)
	require.Empty(t, mirror.messages)

	reply, ok := bot.Router().Dispatch(t.Context(), command.Request{Name: "/add", Coin: "Bitcoin"})
	require.True(t, ok)
	require.Contains(t, reply, "BITCOIN")

	require.NoError(t, bot.Scheduler().Fire(t.Context()))
	expected := format.DailyTitle + "\n- *BITCOIN*: $2.00 📈 (24h: +1.00%)\n"
	require.Equal(t, []string{expected}, telegram.messages)
	require.Equal(t, []string{expected}, mirror.messages)
}

func TestBot_Run(t *testing.T) {
	telegram := &fakeTelegram{}
	bot, err := NewBot(t.Context(), settings(), fakeSource{}, zerolog.NewNop(), WithTelegram(telegram))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	require.Eventually(t, func() bool {
		telegram.mu.Lock()
		defer telegram.mu.Unlock()
		return telegram.started
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.True(t, telegram.stopped)
}
