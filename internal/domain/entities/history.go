package entities

import "time"

// HistoryMeta mirrors the meta block of the upstream chart response.
type HistoryMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	Range              string  `json:"range"`
	Interval           string  `json:"interval"`
	RegularMarketPrice float64 `json:"regular_market_price"`
	Timezone           string  `json:"timezone,omitempty"`
}

// HistoryPoint is one OHLCV bar. Invariant: Low <= Open, Close <= High.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// History is a historical bar series for one symbol.
type History struct {
	Meta   HistoryMeta    `json:"meta"`
	Points []HistoryPoint `json:"points"`

	FromCache bool   `json:"from_cache"`
	IsMock    bool   `json:"is_mock,omitempty"`
	Warning   string `json:"warning,omitempty"`
}
