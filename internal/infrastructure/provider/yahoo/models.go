package yahoo

import (
	"encoding/json"
	"time"

	"stock-data-service/internal/domain/entities"
)

// FlexNumber decodes the provider's loosely-shaped numeric fields. The same
// field arrives as a bare number, a numeric string, a {"raw": n, "fmt": "s"}
// wrapper or null depending on the endpoint and the symbol. Absent or null
// fields decode to zero with Valid=false so callers can tell "missing" from
// a real zero.
type FlexNumber struct {
	Value float64
	Valid bool
}

// UnmarshalJSON accepts every wrapper shape the provider is known to use.
func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	f.Value = 0
	f.Valid = false

	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Bare number.
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.Value = n
		f.Valid = true
		return nil
	}

	// {"raw": n, "fmt": "..."} wrapper. Some wrappers carry only fmt.
	var wrapper struct {
		Raw *float64 `json:"raw"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Raw != nil {
		f.Value = *wrapper.Raw
		f.Valid = true
		return nil
	}

	// Numeric string.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(s), &n); err == nil {
			f.Value = n
			f.Valid = true
		}
		return nil
	}

	// Unknown shape. Treat as absent rather than failing the whole payload.
	return nil
}

// Int64 returns the value truncated to int64.
func (f FlexNumber) Int64() int64 {
	return int64(f.Value)
}

// flexDate is the provider's {"raw": epochSeconds, "fmt": "2024-01-30"} date
// wrapper. Some endpoints send a bare epoch number instead.
type flexDate struct {
	Raw int64  `json:"raw"`
	Fmt string `json:"fmt"`
}

func (d *flexDate) UnmarshalJSON(data []byte) error {
	d.Raw = 0
	d.Fmt = ""

	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		d.Raw = n
		return nil
	}

	type alias flexDate
	var a alias
	if err := json.Unmarshal(data, &a); err == nil {
		*d = flexDate(a)
	}
	return nil
}

// Time converts the raw epoch to UTC. Zero time when absent.
func (d flexDate) Time() time.Time {
	if d.Raw == 0 {
		return time.Time{}
	}
	return time.Unix(d.Raw, 0).UTC()
}

// apiError is the error block every finance endpoint embeds on failure.
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// --- /v7/finance/quote ---

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                     string     `json:"symbol"`
	ShortName                  string     `json:"shortName"`
	LongName                   string     `json:"longName"`
	Currency                   string     `json:"currency"`
	RegularMarketPrice         FlexNumber `json:"regularMarketPrice"`
	RegularMarketPreviousClose FlexNumber `json:"regularMarketPreviousClose"`
	RegularMarketVolume        FlexNumber `json:"regularMarketVolume"`
	MarketCap                  FlexNumber `json:"marketCap"`
}

// toQuote normalizes one provider quote row into the domain shape.
func (q *quoteResult) toQuote() *entities.Quote {
	quote := entities.NewQuote(
		q.Symbol,
		q.RegularMarketPrice.Value,
		q.RegularMarketPreviousClose.Value,
		q.RegularMarketVolume.Int64(),
		q.MarketCap.Value,
		q.Currency,
	)
	quote.Name = q.LongName
	if quote.Name == "" {
		quote.Name = q.ShortName
	}
	return quote
}

// --- /v8/finance/chart ---

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		Currency           string  `json:"currency"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ExchangeTimezone   string  `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// toHistory flattens the parallel OHLCV arrays into a point list, skipping
// rows where the provider sent null for any price column (happens on halted
// sessions).
func (c *chartResult) toHistory(rng, interval string) *entities.History {
	history := &entities.History{
		Meta: entities.HistoryMeta{
			Symbol:             c.Meta.Symbol,
			Currency:           c.Meta.Currency,
			Range:              rng,
			Interval:           interval,
			RegularMarketPrice: c.Meta.RegularMarketPrice,
			Timezone:           c.Meta.ExchangeTimezone,
		},
		Points: make([]entities.HistoryPoint, 0, len(c.Timestamp)),
	}

	if len(c.Indicators.Quote) == 0 {
		return history
	}
	quote := c.Indicators.Quote[0]

	for i, ts := range c.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		point := entities.HistoryPoint{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *quote.Open[i],
			High:      *quote.High[i],
			Low:       *quote.Low[i],
			Close:     *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			point.Volume = *quote.Volume[i]
		}
		history.Points = append(history.Points, point)
	}

	return history
}

// --- /v10/finance/quoteSummary ---

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *apiError                    `json:"error"`
	} `json:"quoteSummary"`
}

// earningsHistoryModule is decoded from the raw "earningsHistory" module when
// building an earnings calendar.
type earningsHistoryModule struct {
	History []struct {
		EPSActual   FlexNumber `json:"epsActual"`
		EPSEstimate FlexNumber `json:"epsEstimate"`
		Quarter     flexDate   `json:"quarter"`
		Period      string     `json:"period"`
	} `json:"history"`
}

// calendarEventsModule is decoded from the raw "calendarEvents" module.
type calendarEventsModule struct {
	Earnings struct {
		EarningsDate    []flexDate `json:"earningsDate"`
		EarningsAverage FlexNumber `json:"earningsAverage"`
	} `json:"earnings"`
}

// --- /v1/finance/search ---

type searchResponse struct {
	Quotes []searchQuote `json:"quotes"`
}

type searchQuote struct {
	Symbol    string  `json:"symbol"`
	ShortName string  `json:"shortname"`
	LongName  string  `json:"longname"`
	ExchDisp  string  `json:"exchDisp"`
	QuoteType string  `json:"quoteType"`
	Score     float64 `json:"score"`
}

func (s *searchQuote) toSearchResult() *entities.SearchResult {
	name := s.LongName
	if name == "" {
		name = s.ShortName
	}
	return &entities.SearchResult{
		Symbol:   s.Symbol,
		Name:     name,
		Exchange: s.ExchDisp,
		Type:     s.QuoteType,
		Score:    s.Score,
	}
}

// --- /v1/finance/trending and screener ---

type financeListResponse struct {
	Finance struct {
		Result []struct {
			Quotes []screenerQuote `json:"quotes"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"finance"`
}

type screenerQuote struct {
	Symbol                     string     `json:"symbol"`
	ShortName                  string     `json:"shortName"`
	LongName                   string     `json:"longName"`
	RegularMarketPrice         FlexNumber `json:"regularMarketPrice"`
	RegularMarketChangePercent FlexNumber `json:"regularMarketChangePercent"`
}

func (s *screenerQuote) toGainer() *entities.Gainer {
	name := s.LongName
	if name == "" {
		name = s.ShortName
	}
	return &entities.Gainer{
		Symbol:        s.Symbol,
		Name:          name,
		Price:         s.RegularMarketPrice.Value,
		ChangePercent: s.RegularMarketChangePercent.Value,
	}
}
