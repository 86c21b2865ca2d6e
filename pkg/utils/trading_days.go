// Package utils holds small calendar helpers shared across packages.
package utils

import (
	"time"
)

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// TruncateToDay drops the time-of-day component, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PreviousTradingDay returns the closest weekday strictly before t.
func PreviousTradingDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, -1)
	for IsWeekend(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// NextTradingDay returns the closest weekday strictly after t.
func NextTradingDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// NearestTradingDay returns t itself on a weekday, otherwise the following
// Monday.
func NearestTradingDay(t time.Time) time.Time {
	for IsWeekend(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddTradingDays moves t by n weekdays, skipping weekends in either
// direction. n may be negative; zero returns t unchanged.
func AddTradingDays(t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for i := 0; i < n; i++ {
		t = t.AddDate(0, 0, step)
		for IsWeekend(t) {
			t = t.AddDate(0, 0, step)
		}
	}
	return t
}
