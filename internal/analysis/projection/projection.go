// Package projection synthesizes future price series from historical
// statistics near the all-time high. It carries three deliberately distinct
// strategies: a fixed-horizon compounding projection, the same compounding
// bounded by the next halving date, and a strictly linear headline
// trajectory driven by average volatility.
package projection

import (
	"context"
	"fmt"
	"time"

	"athProjector/internal/analysis/halving"
	"athProjector/internal/domain"
	"athProjector/internal/ports"
)

// Config holds the projection parameters.
type Config struct {
	BandFraction  float64 // near-ATH band width relative to the high, e.g. 0.05
	GrowthDamping float64 // factor applied to avg volatility for the headline increment, e.g. 0.1
}

// Engine produces future series from a historical snapshot.
type Engine struct {
	cfg      Config
	calendar *halving.Calendar
	logger   ports.Logger
}

// New creates a projection engine.
func New(cfg Config, calendar *halving.Calendar, logger ports.Logger) (*Engine, error) {
	if calendar == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for projection engine")
	}
	if cfg.BandFraction <= 0 || cfg.BandFraction >= 1 {
		return nil, fmt.Errorf("BandFraction must be in (0,1): %w", ports.ErrConfigurationError)
	}
	if cfg.GrowthDamping <= 0 {
		return nil, fmt.Errorf("GrowthDamping must be positive: %w", ports.ErrConfigurationError)
	}
	return &Engine{cfg: cfg, calendar: calendar, logger: logger}, nil
}

// FixedHorizon projects the given features forward by days daily steps.
// Each feature is seeded with its last historical value and compounded by
// (1 + avg near-ATH percentage change) once per day. The frame's dates start
// the day after the last historical timestamp.
func (e *Engine) FixedHorizon(ctx context.Context, series domain.EnrichedSeries, features []string, days int) (domain.FeatureFrame, error) {
	if days <= 0 {
		return domain.FeatureFrame{}, fmt.Errorf("projection horizon must be positive, got %d: %w", days, ports.ErrInvalidRequest)
	}
	if len(features) == 0 {
		return domain.FeatureFrame{}, fmt.Errorf("no features requested: %w", ports.ErrInvalidRequest)
	}
	last, ok := series.Last()
	if !ok {
		return domain.FeatureFrame{}, fmt.Errorf("cannot project an empty series: %w", ports.ErrInsufficientData)
	}

	stats, err := ComputeNearHighStats(series.Bars(), e.cfg.BandFraction)
	if err != nil {
		return domain.FeatureFrame{}, err
	}

	frame := domain.FeatureFrame{
		Dates:   futureDates(last.Timestamp, days),
		Columns: make(map[string][]float64, len(features)),
	}
	for _, name := range features {
		seed, err := last.Feature(name)
		if err != nil {
			return domain.FeatureFrame{}, fmt.Errorf("%w: %v", ports.ErrInvalidRequest, err)
		}
		values := make([]float64, days)
		values[0] = seed
		for i := 1; i < days; i++ {
			values[i] = values[i-1] * (1 + stats.AvgPctChange)
		}
		frame.Columns[name] = values
	}

	e.logger.Debug(ctx, "Fixed-horizon projection generated", map[string]interface{}{
		"days":         days,
		"features":     len(features),
		"avgPctChange": stats.AvgPctChange,
	})
	return frame, nil
}

// ToHalving projects the given features up to the halving date of
// targetYear. The horizon is the whole-day distance between the last
// historical timestamp and that date; a zero or negative horizon yields an
// empty frame without error. An unknown target year propagates the
// calendar's ports.ErrNotFound.
func (e *Engine) ToHalving(ctx context.Context, series domain.EnrichedSeries, features []string, targetYear int) (domain.FeatureFrame, error) {
	last, ok := series.Last()
	if !ok {
		return domain.FeatureFrame{}, fmt.Errorf("cannot project an empty series: %w", ports.ErrInsufficientData)
	}
	halvingDate, err := e.calendar.ReferenceDateForYear(targetYear)
	if err != nil {
		return domain.FeatureFrame{}, err
	}

	days := int(halvingDate.Sub(last.Timestamp).Hours() / 24)
	if days <= 0 {
		e.logger.Warn(ctx, "Series already at or past the target halving, projection is empty", map[string]interface{}{
			"targetYear":  targetYear,
			"halvingDate": halvingDate.Format("2006-01-02"),
			"lastBar":     last.Timestamp.Format("2006-01-02"),
		})
		return domain.FeatureFrame{Columns: map[string][]float64{}}, nil
	}
	return e.FixedHorizon(ctx, series, features, days)
}

// HeadlineTrajectory builds the chart's main projection: starting from the
// all-time-high close, add a constant daily increment of
// GrowthDamping x (avg volatility near the high) for days steps. Linear
// growth, not compounding.
func (e *Engine) HeadlineTrajectory(ctx context.Context, series domain.Series, days int) (domain.ProjectedSeries, error) {
	if days <= 0 {
		return nil, fmt.Errorf("trajectory horizon must be positive, got %d: %w", days, ports.ErrInvalidRequest)
	}
	last, ok := series.Last()
	if !ok {
		return nil, fmt.Errorf("cannot project an empty series: %w", ports.ErrInsufficientData)
	}

	stats, err := ComputeNearHighStats(series, e.cfg.BandFraction)
	if err != nil {
		return nil, err
	}
	increment := stats.AvgVolatility * e.cfg.GrowthDamping

	dates := futureDates(last.Timestamp, days)
	out := make(domain.ProjectedSeries, days)
	price := stats.AllTimeHigh
	for i := 0; i < days; i++ {
		out[i] = domain.ProjectedPoint{Date: dates[i], Value: price}
		price += increment
	}

	e.logger.Info(ctx, "Headline trajectory generated", map[string]interface{}{
		"days":        days,
		"allTimeHigh": stats.AllTimeHigh,
		"increment":   increment,
		"finalPrice":  out[days-1].Value,
	})
	return out, nil
}

// futureDates returns n consecutive daily timestamps starting the day after
// last.
func futureDates(last time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := 0; i < n; i++ {
		dates[i] = last.AddDate(0, 0, i+1)
	}
	return dates
}
