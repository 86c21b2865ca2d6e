package entities

import "time"

// Quote is the normalized shape for a single stock quote. The same struct is
// used for real upstream data, cached data and synthetic fallback data; the
// IsMock and Warning markers are the only way to tell the three apart.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	MarketCap     float64   `json:"market_cap"`
	Currency      string    `json:"currency"`
	LastUpdated   time.Time `json:"last_updated"`

	FromCache bool   `json:"from_cache"`
	IsMock    bool   `json:"is_mock,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// NewQuote creates a quote with the change fields derived from price and
// previous close so the two can never disagree.
func NewQuote(symbol string, price, previousClose float64, volume int64, marketCap float64, currency string) *Quote {
	change := price - previousClose
	changePercent := 0.0
	if previousClose != 0 {
		changePercent = change / previousClose * 100
	}

	return &Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: previousClose,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        volume,
		MarketCap:     marketCap,
		Currency:      currency,
		LastUpdated:   time.Now(),
	}
}
