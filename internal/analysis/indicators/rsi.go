package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// NeutralRSI is the fill value used wherever the RSI is undefined.
const NeutralRSI = 50.0

// RelativeStrengthIndex computes a per-bar RSI over the close column using
// simple rolling means of gains and losses (not Wilder smoothing).
//
// The first close has no previous bar, so its delta counts as zero gain and
// zero loss. Bars whose trailing window is incomplete get the neutral value,
// and so does any bar whose windowed average loss is exactly zero: the
// neutral fill deliberately does not distinguish "no losses" from
// "insufficient data".
func RelativeStrengthIndex(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if period <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := 0; i < n; i++ {
		if i < period-1 {
			out[i] = NeutralRSI
			continue
		}
		avgGain := stat.Mean(gains[i-period+1:i+1], nil)
		avgLoss := stat.Mean(losses[i-period+1:i+1], nil)
		if avgLoss == 0 {
			out[i] = NeutralRSI
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - (100 / (1 + rs))
	}
	return out
}
