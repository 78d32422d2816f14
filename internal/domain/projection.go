package domain

import "time"

// ProjectedPoint is a single future (date, value) pair.
type ProjectedPoint struct {
	Date  time.Time
	Value float64
}

// ProjectedSeries is a daily future series with strictly increasing dates.
type ProjectedSeries []ProjectedPoint

// Last returns the final projected point.
func (p ProjectedSeries) Last() (ProjectedPoint, bool) {
	if len(p) == 0 {
		return ProjectedPoint{}, false
	}
	return p[len(p)-1], true
}

// FeatureFrame holds projected values for several features over a shared
// daily date index. Every column has exactly len(Dates) values.
type FeatureFrame struct {
	Dates   []time.Time
	Columns map[string][]float64
}
