package fallback

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"stock-data-service/internal/domain/entities"
	"stock-data-service/pkg/utils"
)

// DefaultWarning is attached to every synthetic record so downstream readers
// can tell degraded data from the real thing without structural differences.
const DefaultWarning = "synthetic data: upstream provider unavailable"

// basePrices anchors synthetic prices for well-known symbols so the fake data
// stays plausible on a dashboard. Unknown symbols draw from a wide generic
// range instead.
var basePrices = map[string]float64{
	"AAPL":  190.0,
	"MSFT":  410.0,
	"GOOGL": 150.0,
	"GOOG":  152.0,
	"AMZN":  180.0,
	"META":  500.0,
	"NVDA":  120.0,
	"TSLA":  250.0,
	"AMD":   160.0,
	"INTC":  35.0,
	"NFLX":  600.0,
	"SPY":   520.0,
	"QQQ":   445.0,
}

// genericPriceMin and genericPriceMax bound the price range for symbols not
// in the base table.
const (
	genericPriceMin = 10.0
	genericPriceMax = 500.0
)

// searchFixtures are the illustrative results served when search cannot reach
// upstream.
var searchFixtures = []entities.SearchResult{
	{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Type: "EQUITY", Score: 100000},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", Type: "EQUITY", Score: 95000},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ", Type: "EQUITY", Score: 90000},
	{Symbol: "AMZN", Name: "Amazon.com, Inc.", Exchange: "NASDAQ", Type: "EQUITY", Score: 85000},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ", Type: "EQUITY", Score: 80000},
}

// trendingFixture is the fixed trending list used when no region data exists.
var trendingFixture = []string{"NVDA", "TSLA", "AAPL", "AMD", "META", "MSFT", "AMZN", "GOOGL"}

// Generator produces synthetic stand-ins for every fallback-eligible data
// kind. Values are randomized for plausibility but the shape is always a
// superset of the real record: every field a real record guarantees is
// populated here too.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator with its own random source.
func New() *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewWithSeed creates a deterministic generator for tests.
func NewWithSeed(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// basePrice picks the anchor price for a symbol.
func (g *Generator) basePrice(symbol string) float64 {
	if base, ok := basePrices[strings.ToUpper(symbol)]; ok {
		return base
	}
	return genericPriceMin + g.rng.Float64()*(genericPriceMax-genericPriceMin)
}

// Quote generates one synthetic quote near the symbol's anchor price with a
// bounded daily move.
func (g *Generator) Quote(symbol string) *entities.Quote {
	base := g.basePrice(symbol)

	// Bounded move of up to ±4% around the anchor.
	movePct := (g.rng.Float64()*8 - 4) / 100
	price := round2(base * (1 + movePct))
	previousClose := round2(base)

	quote := entities.NewQuote(
		strings.ToUpper(symbol),
		price,
		previousClose,
		int64(1_000_000+g.rng.Intn(150_000_000)),
		round2(price*float64(1_000_000_000+g.rng.Intn(2_000_000_000))),
		"USD",
	)
	quote.Name = strings.ToUpper(symbol)
	quote.IsMock = true
	quote.Warning = DefaultWarning
	return quote
}

// Quotes generates one synthetic quote per symbol.
func (g *Generator) Quotes(symbols []string) []*entities.Quote {
	quotes := make([]*entities.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		quotes = append(quotes, g.Quote(symbol))
	}
	return quotes
}

// History generates a bar series whose point count and stride match the
// requested range and interval. Each bar satisfies low <= open, close <= high
// and drifts mildly upward from the anchor.
func (g *Generator) History(symbol, rng, interval string) *entities.History {
	count, stride := seriesShape(rng, interval)
	base := g.basePrice(symbol)

	history := &entities.History{
		Meta: entities.HistoryMeta{
			Symbol:   strings.ToUpper(symbol),
			Currency: "USD",
			Range:    rng,
			Interval: interval,
			Timezone: "America/New_York",
		},
		Points: make([]entities.HistoryPoint, 0, count),
		IsMock: true,
	}
	history.Warning = DefaultWarning

	start := time.Now().UTC().Add(-time.Duration(count) * stride)
	// Daily bars land on trading days ending at the most recent weekday.
	dayAnchor := utils.NearestTradingDay(utils.TruncateToDay(time.Now().UTC()))
	prevClose := base

	for i := 0; i < count; i++ {
		// Daily volatility of up to ±2% plus a mild upward drift.
		open := prevClose * (1 + (g.rng.Float64()*0.6-0.3)/100)
		close := open * (1 + (g.rng.Float64()*4-1.9)/100)

		high := maxFloat(open, close) * (1 + g.rng.Float64()*0.01)
		low := minFloat(open, close) * (1 - g.rng.Float64()*0.01)

		ts := start.Add(time.Duration(i) * stride)
		if stride == 24*time.Hour {
			ts = utils.AddTradingDays(dayAnchor, i-(count-1))
		}

		history.Points = append(history.Points, entities.HistoryPoint{
			Timestamp: ts,
			Open:      round2(open),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(close),
			Volume:    int64(500_000 + g.rng.Intn(80_000_000)),
		})
		prevClose = close
	}

	if len(history.Points) > 0 {
		history.Meta.RegularMarketPrice = history.Points[len(history.Points)-1].Close
	} else {
		history.Meta.RegularMarketPrice = round2(base)
	}
	return history
}

// Search returns the fixed illustrative result list, best matches first.
func (g *Generator) Search(query string, limit int) []*entities.SearchResult {
	if limit <= 0 || limit > len(searchFixtures) {
		limit = len(searchFixtures)
	}

	results := make([]*entities.SearchResult, 0, limit)
	upperQuery := strings.ToUpper(strings.TrimSpace(query))
	for i := range searchFixtures {
		fixture := searchFixtures[i]
		if strings.HasPrefix(fixture.Symbol, upperQuery) {
			fixture.Score += 1_000_000
		}
		results = append(results, &fixture)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results[:limit]
}

// Trending returns the fixed trending list.
func (g *Generator) Trending(count int) []string {
	if count <= 0 || count > len(trendingFixture) {
		count = len(trendingFixture)
	}
	out := make([]string, count)
	copy(out, trendingFixture[:count])
	return out
}

// Gainers generates synthetic gainer rows with positive bounded moves.
func (g *Generator) Gainers(count int) []*entities.Gainer {
	if count <= 0 || count > len(trendingFixture) {
		count = len(trendingFixture)
	}

	gainers := make([]*entities.Gainer, 0, count)
	for _, symbol := range trendingFixture[:count] {
		base := g.basePrice(symbol)
		changePct := round2(2 + g.rng.Float64()*13)
		gainers = append(gainers, &entities.Gainer{
			Symbol:        symbol,
			Name:          symbol,
			Price:         round2(base * (1 + changePct/100)),
			ChangePercent: changePct,
		})
	}
	return gainers
}

// Earnings returns a single forward-looking placeholder event. Estimates and
// actuals stay zero: inventing analyst numbers would be worse than admitting
// we have none.
func (g *Generator) Earnings(symbol string) []*entities.EarningsEvent {
	// Next plausible report: somewhere in the next quarter.
	daysAhead := 30 + g.rng.Intn(60)
	date := utils.NearestTradingDay(utils.TruncateToDay(time.Now().UTC().AddDate(0, 0, daysAhead)))
	return []*entities.EarningsEvent{
		{
			Date:    date,
			Quarter: "upcoming",
		},
	}
}

// seriesShape maps a range/interval pair to a point count and timestamp
// stride. Unknown values fall back to a month of daily bars.
func seriesShape(rng, interval string) (int, time.Duration) {
	stride, ok := intervalStrides[interval]
	if !ok {
		stride = 24 * time.Hour
	}

	span, ok := rangeSpans[rng]
	if !ok {
		span = 30 * 24 * time.Hour
	}

	count := int(span / stride)
	if stride >= 24*time.Hour {
		// Trading days only, roughly 5 out of 7.
		count = count * 5 / 7
	}
	if count < 1 {
		count = 1
	}
	if count > 500 {
		count = 500
	}
	return count, stride
}

var intervalStrides = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"1d":  24 * time.Hour,
	"1wk": 7 * 24 * time.Hour,
	"1mo": 30 * 24 * time.Hour,
}

var rangeSpans = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"5d":  5 * 24 * time.Hour,
	"1mo": 30 * 24 * time.Hour,
	"3mo": 91 * 24 * time.Hour,
	"6mo": 182 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
	"2y":  730 * 24 * time.Hour,
	"5y":  5 * 365 * 24 * time.Hour,
	"max": 5 * 365 * 24 * time.Hour,
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
