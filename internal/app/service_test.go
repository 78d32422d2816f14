package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athProjector/config"
	"athProjector/internal/analysis/halving"
	"athProjector/internal/analysis/indicators"
	"athProjector/internal/analysis/projection"
	"athProjector/internal/domain"
	"athProjector/internal/ports"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	warnMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// stubSource implements ports.SeriesSource
type stubSource struct {
	series domain.Series
	err    error
}

func (s *stubSource) FetchHistoricalData(ctx context.Context, symbol, timeframe string) (domain.Series, error) {
	return s.series, s.err
}

// stubRenderer implements ports.ChartRenderer
type stubRenderer struct {
	input  ports.ChartInput
	called bool
	err    error
}

func (r *stubRenderer) Render(ctx context.Context, input ports.ChartInput) error {
	r.called = true
	r.input = input
	return r.err
}

func testConfig() *config.Config {
	return &config.Config{
		Symbol:            "btcusd",
		Timeframe:         "d1",
		RSIPeriod:         14,
		OpenMAPeriod:      7,
		ATHBandFraction:   0.05,
		GrowthDamping:     0.1,
		ProjectionDays:    5,
		HalvingTargetYear: 2024,
		HeadlineYears:     7,
	}
}

// linearBars builds n daily bars with close rising linearly from first to
// last and high/low = close +/- 1.
func linearBars(n int, start time.Time, first, last float64) domain.Series {
	bars := make(domain.Series, n)
	for i := 0; i < n; i++ {
		c := first + (last-first)*float64(i)/float64(n-1)
		bars[i] = domain.Bar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func newService(t *testing.T, cfg *config.Config, source ports.SeriesSource, renderer ports.ChartRenderer, logger ports.Logger) *AnalysisService {
	t.Helper()
	cal := halving.NewCalendar()
	indEngine, err := indicators.New(indicators.Config{
		RSIPeriod:    cfg.RSIPeriod,
		OpenMAPeriod: cfg.OpenMAPeriod,
	}, cal, logger)
	require.NoError(t, err)
	projEngine, err := projection.New(projection.Config{
		BandFraction:  cfg.ATHBandFraction,
		GrowthDamping: cfg.GrowthDamping,
	}, cal, logger)
	require.NoError(t, err)
	svc, err := NewAnalysisService(cfg, logger, source, indEngine, projEngine, cal, renderer)
	require.NoError(t, err)
	return svc
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig()
	logger := &mockLogger{}
	// 100 bars ending 2024-03-09, ahead of the 2024-05-12 halving.
	start := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
	series := linearBars(100, start, 100, 200)
	renderer := &stubRenderer{}

	svc := newService(t, cfg, &stubSource{series: series}, renderer, logger)
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	// The 30-bar lag is the largest lookback, so 30 rows drop.
	assert.Len(t, result.Enriched, 70)
	assert.Equal(t, 200.0, result.CurrentPrice)
	assert.Equal(t, "2024-03-09", result.CurrentDate)

	// Strategy A: exactly ProjectionDays rows, geometric and increasing.
	closeCol := result.FixedHorizon.Columns[domain.FeatureClose]
	require.Len(t, closeCol, cfg.ProjectionDays)
	assert.Equal(t, 200.0, closeCol[0])
	ratio := closeCol[1] / closeCol[0]
	assert.Greater(t, ratio, 1.0)
	for i := 1; i < len(closeCol); i++ {
		assert.Greater(t, closeCol[i], closeCol[i-1])
		assert.InDelta(t, ratio, closeCol[i]/closeCol[i-1], 1e-12)
	}

	// Strategy B: horizon runs to the 2024 halving.
	halvingDate := time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC)
	lastTS := series[len(series)-1].Timestamp
	assert.Len(t, result.ToHalving.Dates, int(halvingDate.Sub(lastTS).Hours()/24))

	// Headline trajectory: 7 years of daily points, linear from the ATH.
	require.Len(t, result.Headline, cfg.HeadlineYears*365)
	assert.Equal(t, 200.0, result.Headline[0].Value)
	inc := result.Headline[1].Value - result.Headline[0].Value
	assert.Greater(t, inc, 0.0)
	last := result.Headline[len(result.Headline)-1]
	assert.InDelta(t, 200.0+inc*float64(len(result.Headline)-1), last.Value, 1e-6)

	// The renderer saw the gap-free history and the halving table.
	require.True(t, renderer.called)
	assert.Len(t, renderer.input.Historical, 70)
	assert.Len(t, renderer.input.HalvingDates, 5)
	assert.Equal(t, 200.0, renderer.input.CurrentPrice)
}

func TestRunSurvivesRendererFailure(t *testing.T) {
	cfg := testConfig()
	logger := &mockLogger{}
	start := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
	renderer := &stubRenderer{err: errors.New("display unavailable")}

	svc := newService(t, cfg, &stubSource{series: linearBars(100, start, 100, 200)}, renderer, logger)
	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, logger.warnMsgs)
}

func TestRunWithoutRenderer(t *testing.T) {
	cfg := testConfig()
	start := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)

	svc := newService(t, cfg, &stubSource{series: linearBars(100, start, 100, 200)}, nil, &mockLogger{})
	_, err := svc.Run(context.Background())
	require.NoError(t, err)
}

func TestRunPropagatesSourceError(t *testing.T) {
	cfg := testConfig()
	svc := newService(t, cfg, &stubSource{err: ports.ErrNoSourceData}, nil, &mockLogger{})

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoSourceData)
}

func TestRunTooLittleHistory(t *testing.T) {
	cfg := testConfig()
	start := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
	// 20 bars cannot satisfy the 30-bar lag: everything drops.
	svc := newService(t, cfg, &stubSource{series: linearBars(20, start, 100, 200)}, nil, &mockLogger{})

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ports.ErrInsufficientData)
}

func TestNewAnalysisServiceValidation(t *testing.T) {
	cfg := testConfig()
	logger := &mockLogger{}
	cal := halving.NewCalendar()
	indEngine, err := indicators.New(indicators.Config{RSIPeriod: 14, OpenMAPeriod: 7}, cal, logger)
	require.NoError(t, err)
	projEngine, err := projection.New(projection.Config{BandFraction: 0.05, GrowthDamping: 0.1}, cal, logger)
	require.NoError(t, err)

	_, err = NewAnalysisService(nil, logger, &stubSource{}, indEngine, projEngine, cal, nil)
	assert.Error(t, err)
	_, err = NewAnalysisService(cfg, logger, nil, indEngine, projEngine, cal, nil)
	assert.Error(t, err)
}
