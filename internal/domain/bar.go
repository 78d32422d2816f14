package domain

import "time"

// Bar represents a single OHLCV period of a price series.
type Bar struct {
	Timestamp time.Time // Start of the period, parsed from a millisecond epoch
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    float64   // Traded volume (0 when the source omits it)
}

// Series is an ordered sequence of bars, ascending by timestamp.
type Series []Bar

// Last returns the final bar of the series.
// The boolean is false for an empty series.
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// MaxClose returns the all-time-high close of the series.
// Returns 0 for an empty series.
func (s Series) MaxClose() float64 {
	max := 0.0
	for _, b := range s {
		if b.Close > max {
			max = b.Close
		}
	}
	return max
}
