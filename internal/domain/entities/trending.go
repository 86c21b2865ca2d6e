package entities

// TrendingList holds the trending symbols for one region.
type TrendingList struct {
	Region  string   `json:"region"`
	Symbols []string `json:"symbols"`

	FromCache bool   `json:"from_cache"`
	IsMock    bool   `json:"is_mock,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// Gainer is one row of the daily-gainers screener.
type Gainer struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// GainersList holds the daily gainers for one region.
type GainersList struct {
	Region  string    `json:"region"`
	Gainers []*Gainer `json:"gainers"`

	FromCache bool   `json:"from_cache"`
	IsMock    bool   `json:"is_mock,omitempty"`
	Warning   string `json:"warning,omitempty"`
}
