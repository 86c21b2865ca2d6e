package fallback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Quote_PopulatesEveryRealField(t *testing.T) {
	g := NewWithSeed(1)

	quote := g.Quote("aapl")

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.NotEmpty(t, quote.Name)
	assert.Greater(t, quote.Price, 0.0)
	assert.Greater(t, quote.PreviousClose, 0.0)
	assert.Greater(t, quote.Volume, int64(0))
	assert.Greater(t, quote.MarketCap, 0.0)
	assert.Equal(t, "USD", quote.Currency)
	assert.False(t, quote.LastUpdated.IsZero())
	assert.True(t, quote.IsMock)
	assert.Equal(t, DefaultWarning, quote.Warning)
}

func TestGenerator_Quote_RecognizedSymbolStaysNearAnchor(t *testing.T) {
	g := NewWithSeed(7)

	for i := 0; i < 50; i++ {
		quote := g.Quote("AAPL")
		// Anchor 190, bounded move of ±4%.
		assert.InDelta(t, 190.0, quote.Price, 190.0*0.05)
	}
}

func TestGenerator_Quote_ChangeFieldsAgree(t *testing.T) {
	g := NewWithSeed(3)

	quote := g.Quote("MSFT")

	assert.InDelta(t, quote.Price-quote.PreviousClose, quote.Change, 1e-9)
	if quote.PreviousClose != 0 {
		assert.InDelta(t, quote.Change/quote.PreviousClose*100, quote.ChangePercent, 1e-9)
	}
}

func TestGenerator_Quotes_OnePerSymbol(t *testing.T) {
	g := NewWithSeed(5)

	quotes := g.Quotes([]string{"AAPL", "MSFT", "UNKNOWN1"})

	require.Len(t, quotes, 3)
	for _, quote := range quotes {
		assert.True(t, quote.IsMock)
		assert.Greater(t, quote.Price, 0.0)
	}
}

func TestGenerator_History_MonthOfDailyBars(t *testing.T) {
	g := NewWithSeed(11)

	history := g.History("AAPL", "1mo", "1d")

	// A month of trading days lands around 21-22 bars.
	assert.GreaterOrEqual(t, len(history.Points), 20)
	assert.LessOrEqual(t, len(history.Points), 23)
	assert.Equal(t, "1mo", history.Meta.Range)
	assert.Equal(t, "1d", history.Meta.Interval)
	assert.True(t, history.IsMock)
	assert.Equal(t, DefaultWarning, history.Warning)
}

func TestGenerator_History_BarsSatisfyOHLCInvariants(t *testing.T) {
	g := NewWithSeed(13)

	history := g.History("TSLA", "1y", "1d")

	require.NotEmpty(t, history.Points)
	var prev time.Time
	for i, point := range history.Points {
		assert.LessOrEqual(t, point.Low, point.Open, "bar %d: low > open", i)
		assert.LessOrEqual(t, point.Low, point.Close, "bar %d: low > close", i)
		assert.GreaterOrEqual(t, point.High, point.Open, "bar %d: high < open", i)
		assert.GreaterOrEqual(t, point.High, point.Close, "bar %d: high < close", i)
		assert.Greater(t, point.Volume, int64(0))
		if i > 0 {
			assert.True(t, point.Timestamp.After(prev), "bar %d: timestamps not increasing", i)
		}
		prev = point.Timestamp
	}
	assert.Equal(t, history.Points[len(history.Points)-1].Close, history.Meta.RegularMarketPrice)
}

func TestGenerator_History_IntradayShape(t *testing.T) {
	g := NewWithSeed(17)

	history := g.History("NVDA", "1d", "5m")

	// One day at five-minute bars, capped well below the 500-point limit.
	assert.Greater(t, len(history.Points), 100)
	assert.LessOrEqual(t, len(history.Points), 500)
}

func TestGenerator_History_UnknownRangeFallsBackToMonth(t *testing.T) {
	g := NewWithSeed(19)

	history := g.History("AAPL", "bogus", "bogus")

	assert.GreaterOrEqual(t, len(history.Points), 20)
	assert.LessOrEqual(t, len(history.Points), 23)
}

func TestGenerator_Search_PrefixMatchRanksFirst(t *testing.T) {
	g := NewWithSeed(23)

	results := g.Search("MS", 5)

	require.NotEmpty(t, results)
	assert.Equal(t, "MSFT", results[0].Symbol)
}

func TestGenerator_Search_RespectsLimit(t *testing.T) {
	g := NewWithSeed(29)

	results := g.Search("apple", 2)

	assert.Len(t, results, 2)
}

func TestGenerator_Trending_FixedList(t *testing.T) {
	g := NewWithSeed(31)

	symbols := g.Trending(3)

	assert.Equal(t, []string{"NVDA", "TSLA", "AAPL"}, symbols)
}

func TestGenerator_Gainers_PositiveBoundedMoves(t *testing.T) {
	g := NewWithSeed(37)

	gainers := g.Gainers(5)

	require.Len(t, gainers, 5)
	for _, gainer := range gainers {
		assert.Greater(t, gainer.ChangePercent, 0.0)
		assert.LessOrEqual(t, gainer.ChangePercent, 15.0)
		assert.Greater(t, gainer.Price, 0.0)
		assert.NotEmpty(t, gainer.Symbol)
	}
}

func TestGenerator_Earnings_ForwardPlaceholder(t *testing.T) {
	g := NewWithSeed(41)

	events := g.Earnings("AAPL")

	require.Len(t, events, 1)
	assert.True(t, events[0].Date.After(time.Now()))
	assert.Equal(t, "upcoming", events[0].Quarter)
	assert.Zero(t, events[0].EPSActual)
	assert.Zero(t, events[0].EPSEstimate)
}

func TestGenerator_DeterministicWithSeed(t *testing.T) {
	a := NewWithSeed(99).Quote("AAPL")
	b := NewWithSeed(99).Quote("AAPL")

	assert.Equal(t, a.Price, b.Price)
	assert.Equal(t, a.Volume, b.Volume)
}
