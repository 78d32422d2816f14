package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athProjector/internal/domain"
	"athProjector/internal/ports"
)

// linearBars builds n daily bars with close rising linearly from first to
// last and high/low = close +/- 1.
func linearBars(n int, start time.Time, first, last float64) domain.Series {
	bars := make(domain.Series, n)
	for i := 0; i < n; i++ {
		c := first + (last-first)*float64(i)/float64(n-1)
		bars[i] = domain.Bar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
		}
	}
	return bars
}

func testStart() time.Time {
	return time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func TestComputeNearHighStatsLinearRise(t *testing.T) {
	// 100 bars rising 100 -> 200: the 5% band floor is 190, reached by the
	// final 10 bars.
	series := linearBars(100, testStart(), 100, 200)

	stats, err := ComputeNearHighStats(series, 0.05)
	require.NoError(t, err)

	assert.Equal(t, 200.0, stats.AllTimeHigh)
	assert.Equal(t, 10, stats.BandBars)
	assert.InDelta(t, 2.0, stats.AvgVolatility, 1e-9) // high-low is 2 everywhere
	assert.Greater(t, stats.AvgPctChange, 0.0)
	assert.Less(t, stats.AvgPctChange, 0.01) // ~1.01/190 per step
}

func TestComputeNearHighStatsChangeStartsInBand(t *testing.T) {
	// Band membership is decided by the bar a change starts from.
	start := testStart()
	closes := []float64{100, 105, 110, 195, 200}
	series := make(domain.Series, len(closes))
	for i, c := range closes {
		series[i] = domain.Bar{Timestamp: start.AddDate(0, 0, i), Open: c, High: c + 2, Low: c - 2, Close: c}
	}

	stats, err := ComputeNearHighStats(series, 0.05)
	require.NoError(t, err)

	// Floor is 190; band bars are 195 and 200. Only the 195->200 change
	// starts inside the band.
	assert.Equal(t, 2, stats.BandBars)
	assert.InDelta(t, 200.0/195.0-1, stats.AvgPctChange, 1e-12)
}

func TestComputeNearHighStatsDegenerate(t *testing.T) {
	// Only the final bar reaches the band, so no change starts inside it:
	// the average is undefined and must fail, never NaN.
	start := testStart()
	closes := []float64{100, 100, 100, 100, 200}
	series := make(domain.Series, len(closes))
	for i, c := range closes {
		series[i] = domain.Bar{Timestamp: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c}
	}

	_, err := ComputeNearHighStats(series, 0.05)
	assert.ErrorIs(t, err, ports.ErrNoBarsNearHigh)
}

func TestComputeNearHighStatsValidation(t *testing.T) {
	series := linearBars(10, testStart(), 100, 110)

	_, err := ComputeNearHighStats(series[:1], 0.05)
	assert.ErrorIs(t, err, ports.ErrInsufficientData)

	_, err = ComputeNearHighStats(series, 0)
	assert.ErrorIs(t, err, ports.ErrConfigurationError)

	_, err = ComputeNearHighStats(series, 1)
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}
