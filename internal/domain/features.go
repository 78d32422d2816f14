package domain

import (
	"fmt"
	"math"
)

// Feature column names used by the indicator engine and the projection
// feature lists. Lag and rolling names are generated from these prefixes.
const (
	FeatureClose      = "close"
	FeatureVolatility = "volatility"
	FeatureRSI        = "rsi"
	FeatureOpenMA7    = "open_ma_7"
)

// Lag offsets and rolling window sizes computed by the indicator engine.
var (
	LagOffsets     = []int{1, 3, 7, 14, 30}
	RollingWindows = []int{7, 14, 30}
)

// LagFeature returns the column name for a lagged close offset.
func LagFeature(k int) string { return fmt.Sprintf("lagged_close_%d", k) }

// RollingMeanFeature returns the column name for a rolling mean window.
func RollingMeanFeature(w int) string { return fmt.Sprintf("rolling_mean_%d", w) }

// RollingStdFeature returns the column name for a rolling std window.
func RollingStdFeature(w int) string { return fmt.Sprintf("rolling_std_%d", w) }

// EnrichedBar is a Bar plus its derived feature columns. Columns that cannot
// be computed yet (incomplete lookback) hold NaN until DropIncomplete removes
// the row.
type EnrichedBar struct {
	Bar

	Volatility       float64
	RSI              float64
	OpenMA7          float64
	LaggedClose      map[int]float64 // keyed by lag offset
	RollingMean      map[int]float64 // keyed by window size
	RollingStd       map[int]float64 // keyed by window size
	DaysSinceHalving int
}

// Feature returns the named feature column of the bar.
func (b EnrichedBar) Feature(name string) (float64, error) {
	switch name {
	case FeatureClose:
		return b.Close, nil
	case FeatureVolatility:
		return b.Volatility, nil
	case FeatureRSI:
		return b.RSI, nil
	case FeatureOpenMA7:
		return b.OpenMA7, nil
	}
	for _, k := range LagOffsets {
		if name == LagFeature(k) {
			return b.LaggedClose[k], nil
		}
	}
	for _, w := range RollingWindows {
		if name == RollingMeanFeature(w) {
			return b.RollingMean[w], nil
		}
		if name == RollingStdFeature(w) {
			return b.RollingStd[w], nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}

// hasMissing reports whether any feature column of the bar is still NaN.
func (b EnrichedBar) hasMissing() bool {
	if math.IsNaN(b.Volatility) || math.IsNaN(b.RSI) || math.IsNaN(b.OpenMA7) {
		return true
	}
	for _, v := range b.LaggedClose {
		if math.IsNaN(v) {
			return true
		}
	}
	for _, v := range b.RollingMean {
		if math.IsNaN(v) {
			return true
		}
	}
	for _, v := range b.RollingStd {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// EnrichedSeries is an ordered sequence of enriched bars.
type EnrichedSeries []EnrichedBar

// DropIncomplete returns a dense copy of the series without any row that
// still carries a NaN feature cell. Historical OHLCV values are never
// altered, only rows removed.
func (s EnrichedSeries) DropIncomplete() EnrichedSeries {
	out := make(EnrichedSeries, 0, len(s))
	for _, b := range s {
		if !b.hasMissing() {
			out = append(out, b)
		}
	}
	return out
}

// Last returns the final enriched bar of the series.
func (s EnrichedSeries) Last() (EnrichedBar, bool) {
	if len(s) == 0 {
		return EnrichedBar{}, false
	}
	return s[len(s)-1], true
}

// Bars strips the feature columns, returning the underlying price series.
func (s EnrichedSeries) Bars() Series {
	bars := make(Series, len(s))
	for i, b := range s {
		bars[i] = b.Bar
	}
	return bars
}
