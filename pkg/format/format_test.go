package format

import (
	"strings"
	"testing"

	"github.com/raykavin/coinbot/pkg/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(price, change string) core.PriceQuote {
	return core.PriceQuote{
		Price:     decimal.RequireFromString(price),
		Change24h: decimal.RequireFromString(change),
	}
}

func TestQuote_SmallPriceRising(t *testing.T) {
	line := Quote("bitcoin", quote("0.00000123", "5.5"))

	require.Contains(t, line, "BITCOIN")
	require.Contains(t, line, "$0.00000123")
	require.Contains(t, line, "+5.50%")
	require.Contains(t, line, RisingIndicator)
	require.NotContains(t, line, FallingIndicator)
}

func TestQuote_LargePriceFalling(t *testing.T) {
	line := Quote("ethereum", quote("1800.456", "-2.1"))

	require.Contains(t, line, "ETHEREUM")
	require.Contains(t, line, "$1800.46")
	require.Contains(t, line, "-2.10%")
	require.NotContains(t, line, "+")
	require.Contains(t, line, FallingIndicator)
	require.NotContains(t, line, RisingIndicator)
}

func TestQuote_Layout(t *testing.T) {
	require.Equal(t, "- *BITCOIN*: $64000.00 📈 (24h: +0.00%)", Quote("bitcoin", quote("64000", "0")))
}

func TestPrice(t *testing.T) {
	tests := []struct {
		price    string
		expected string
	}{
		{"0.1", "0.10"},
		{"0.09999999", "0.09999999"},
		{"0.05", "0.05000000"},
		{"1", "1.00"},
		{"12345.678", "12345.68"},
		{"0", "0.00000000"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			assert.Equal(t, tt.expected, Price(decimal.RequireFromString(tt.price)))
		})
	}
}

func TestChange(t *testing.T) {
	assert.Equal(t, "+0.00", Change(decimal.Zero))
	assert.Equal(t, "+12.35", Change(decimal.RequireFromString("12.345")))
	assert.Equal(t, "-0.50", Change(decimal.RequireFromString("-0.5")))
}

func TestReport_Empty(t *testing.T) {
	require.Equal(t, NoCoinsMessage, Report(nil, ""))
	require.Equal(t, NoCoinsMessage, Report([]Entry{}, PriceHeader))
}

func TestReport_LinesAndHeader(t *testing.T) {
	entries := []Entry{
		{Symbol: "bitcoin", Quote: quote("64000", "1.5"), OK: true},
		{Symbol: "notacoin"},
		{Symbol: "shiba-inu", Quote: quote("0.00001", "-3"), OK: true},
	}

	report := Report(entries, PriceHeader)
	lines := strings.Split(strings.TrimSuffix(report, "\n"), "\n")

	require.True(t, strings.HasSuffix(report, "\n"))
	require.Len(t, lines, 4)
	require.Equal(t, PriceHeader, lines[0])
	require.Equal(t, Quote("bitcoin", entries[0].Quote), lines[1])
	require.Equal(t, Unavailable("notacoin"), lines[2])
	require.Equal(t, Quote("shiba-inu", entries[2].Quote), lines[3])
}

func TestReport_NoHeader(t *testing.T) {
	report := Report([]Entry{{Symbol: "bitcoin"}}, "")
	require.Equal(t, "BITCOIN - ❌ price unavailable\n", report)
}

func TestTracking(t *testing.T) {
	require.Equal(t, NoCoinsMessage, Tracking(nil))
	require.Equal(t, "📋 Tracking: BITCOIN, ETHEREUM", Tracking([]core.Symbol{"bitcoin", "ethereum"}))
}
