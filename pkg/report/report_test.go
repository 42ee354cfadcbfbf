package report

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/format"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type staticList []core.Symbol

func (l staticList) List() ([]core.Symbol, error) {
	return l, nil
}

type failingList struct{}

func (failingList) List() ([]core.Symbol, error) {
	return nil, errors.New("database closed")
}

type fakeSource struct {
	mu     sync.Mutex
	quotes map[core.Symbol]core.PriceQuote
	calls  []core.Symbol
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchPrice(_ context.Context, symbol core.Symbol) (core.PriceQuote, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, symbol)
	quote, ok := f.quotes[symbol]
	return quote, ok
}

func TestReporter_CollectKeepsOrderAndFailures(t *testing.T) {
	source := &fakeSource{quotes: map[core.Symbol]core.PriceQuote{
		"bitcoin":  {Price: decimal.NewFromInt(64000), Change24h: decimal.NewFromInt(1)},
		"ethereum": {Price: decimal.NewFromInt(3000), Change24h: decimal.NewFromInt(-1)},
	}}
	reporter := NewReporter(staticList{"ethereum", "notacoin", "bitcoin"}, source)

	entries, err := reporter.Collect(t.Context())
	require.NoError(t, err)

	require.Equal(t, []core.Symbol{"ethereum", "notacoin", "bitcoin"}, source.calls)
	require.Len(t, entries, 3)
	require.True(t, entries[0].OK)
	require.False(t, entries[1].OK)
	require.True(t, entries[2].OK)
	require.Equal(t, core.Symbol("bitcoin"), entries[2].Symbol)
}

func TestReporter_Report(t *testing.T) {
	source := &fakeSource{quotes: map[core.Symbol]core.PriceQuote{
		"bitcoin": {Price: decimal.NewFromInt(64000), Change24h: decimal.NewFromInt(1)},
	}}
	reporter := NewReporter(staticList{"bitcoin"}, source)

	text, err := reporter.Report(t.Context(), format.PriceHeader)
	require.NoError(t, err)
	require.Equal(t, format.PriceHeader+"\n- *BITCOIN*: $64000.00 📈 (24h: +1.00%)\n", text)
}

func TestReporter_ReportEmpty(t *testing.T) {
	source := &fakeSource{}
	text, err := NewReporter(staticList{}, source).Report(t.Context(), "")

	require.NoError(t, err)
	require.Equal(t, format.NoCoinsMessage, text)
	require.Empty(t, source.calls)
}

func TestReporter_ListError(t *testing.T) {
	_, err := NewReporter(failingList{}, &fakeSource{}).Report(t.Context(), "")
	require.Error(t, err)
}
