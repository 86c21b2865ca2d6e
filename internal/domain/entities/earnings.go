package entities

import "time"

// EarningsEvent is one earnings calendar row. Estimate and Actual are zero
// when the provider does not report them (forward-looking dates have no
// actuals yet).
type EarningsEvent struct {
	Date        time.Time `json:"date"`
	EPSEstimate float64   `json:"eps_estimate"`
	EPSActual   float64   `json:"eps_actual"`
	Quarter     string    `json:"quarter,omitempty"`
}

// EarningsCalendar holds the earnings events for one symbol, most recent
// first.
type EarningsCalendar struct {
	Symbol string           `json:"symbol"`
	Events []*EarningsEvent `json:"events"`

	FromCache bool   `json:"from_cache"`
	IsMock    bool   `json:"is_mock,omitempty"`
	Warning   string `json:"warning,omitempty"`
}
