package projection

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"athProjector/internal/domain"
	"athProjector/internal/ports"
)

// NearHighStats summarizes behavior of the series inside the near
// all-time-high band: bars whose close is within bandFraction of the
// maximum close.
type NearHighStats struct {
	AllTimeHigh   float64 // maximum close of the series
	AvgPctChange  float64 // mean period-over-period change starting in the band
	AvgVolatility float64 // mean (high - low) over band bars
	BandBars      int     // number of bars inside the band
}

// ComputeNearHighStats derives the near-ATH statistics for a series.
//
// A period-over-period percentage change contributes to AvgPctChange when
// the bar the change starts from lies inside the band. When no change
// starts inside the band the average is undefined and the computation fails
// with ports.ErrNoBarsNearHigh rather than propagating NaN downstream.
func ComputeNearHighStats(series domain.Series, bandFraction float64) (NearHighStats, error) {
	if len(series) < 2 {
		return NearHighStats{}, fmt.Errorf("need at least 2 bars for near-high statistics, got %d: %w",
			len(series), ports.ErrInsufficientData)
	}
	if bandFraction <= 0 || bandFraction >= 1 {
		return NearHighStats{}, fmt.Errorf("band fraction %v must be in (0,1): %w",
			bandFraction, ports.ErrConfigurationError)
	}

	ath := series.MaxClose()
	floor := ath - ath*bandFraction

	var (
		bandVolatility []float64
		bandChanges    []float64
	)
	for i, b := range series {
		inBand := b.Close >= floor
		if inBand {
			bandVolatility = append(bandVolatility, b.High-b.Low)
		}
		if i+1 < len(series) && inBand {
			bandChanges = append(bandChanges, series[i+1].Close/b.Close-1)
		}
	}

	if len(bandChanges) == 0 {
		return NearHighStats{}, fmt.Errorf("no percentage change starts within %.0f%% of the all-time high %.2f: %w",
			bandFraction*100, ath, ports.ErrNoBarsNearHigh)
	}

	return NearHighStats{
		AllTimeHigh:   ath,
		AvgPctChange:  stat.Mean(bandChanges, nil),
		AvgVolatility: stat.Mean(bandVolatility, nil),
		BandBars:      len(bandVolatility),
	}, nil
}
