// Package indicators derives the per-bar feature columns consumed by the
// projection engine and the chart: volatility, RSI, lagged closes, rolling
// statistics and the days-since-halving counter.
package indicators

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"athProjector/internal/analysis/halving"
	"athProjector/internal/domain"
	"athProjector/internal/ports"
)

// Config holds the engine parameters.
type Config struct {
	RSIPeriod      int   // e.g., 14
	LagOffsets     []int // defaults to domain.LagOffsets
	RollingWindows []int // defaults to domain.RollingWindows
	OpenMAPeriod   int   // e.g., 7
}

// Engine computes derived feature columns over a price series.
type Engine struct {
	cfg      Config
	calendar *halving.Calendar
	logger   ports.Logger
}

// New creates an indicator engine.
func New(cfg Config, calendar *halving.Calendar, logger ports.Logger) (*Engine, error) {
	if calendar == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for indicator engine")
	}
	if cfg.RSIPeriod <= 0 {
		return nil, fmt.Errorf("RSIPeriod must be positive: %w", ports.ErrConfigurationError)
	}
	if cfg.OpenMAPeriod <= 0 {
		return nil, fmt.Errorf("OpenMAPeriod must be positive: %w", ports.ErrConfigurationError)
	}
	if len(cfg.LagOffsets) == 0 {
		cfg.LagOffsets = domain.LagOffsets
	}
	if len(cfg.RollingWindows) == 0 {
		cfg.RollingWindows = domain.RollingWindows
	}
	for _, k := range cfg.LagOffsets {
		if k <= 0 {
			return nil, fmt.Errorf("lag offset %d must be positive: %w", k, ports.ErrConfigurationError)
		}
	}
	for _, w := range cfg.RollingWindows {
		if w <= 0 {
			return nil, fmt.Errorf("rolling window %d must be positive: %w", w, ports.ErrConfigurationError)
		}
	}
	return &Engine{cfg: cfg, calendar: calendar, logger: logger}, nil
}

// ComputeFeatures returns one enriched bar per input bar with every feature
// column populated, using NaN as the marker for cells whose lookback window
// is not yet complete. Historical OHLCV values are carried over unchanged.
func (e *Engine) ComputeFeatures(ctx context.Context, series domain.Series) domain.EnrichedSeries {
	n := len(series)
	closes := series.Closes()
	opens := make([]float64, n)
	for i, b := range series {
		opens[i] = b.Open
	}
	rsi := RelativeStrengthIndex(closes, e.cfg.RSIPeriod)

	enriched := make(domain.EnrichedSeries, n)
	for i, bar := range series {
		eb := domain.EnrichedBar{
			Bar:              bar,
			Volatility:       bar.High - bar.Low,
			RSI:              rsi[i],
			OpenMA7:          rollingMean(opens, i, e.cfg.OpenMAPeriod),
			LaggedClose:      make(map[int]float64, len(e.cfg.LagOffsets)),
			RollingMean:      make(map[int]float64, len(e.cfg.RollingWindows)),
			RollingStd:       make(map[int]float64, len(e.cfg.RollingWindows)),
			DaysSinceHalving: e.calendar.DaysSinceLast(bar.Timestamp),
		}
		for _, k := range e.cfg.LagOffsets {
			if i < k {
				eb.LaggedClose[k] = math.NaN()
			} else {
				eb.LaggedClose[k] = closes[i-k]
			}
		}
		for _, w := range e.cfg.RollingWindows {
			eb.RollingMean[w] = rollingMean(closes, i, w)
			eb.RollingStd[w] = rollingStd(closes, i, w)
		}
		enriched[i] = eb
	}
	return enriched
}

// Enrich computes all feature columns and drops every row that still has an
// incomplete lookback cell, returning the dense series consumed downstream.
func (e *Engine) Enrich(ctx context.Context, series domain.Series) (domain.EnrichedSeries, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("cannot enrich an empty series: %w", ports.ErrInsufficientData)
	}
	enriched := e.ComputeFeatures(ctx, series).DropIncomplete()
	e.logger.Info(ctx, "Series enriched", map[string]interface{}{
		"inputBars": len(series),
		"finalBars": len(enriched),
		"dropped":   len(series) - len(enriched),
	})
	return enriched, nil
}

// rollingMean returns the trailing mean of window w ending at index i, or
// NaN while fewer than w values exist.
func rollingMean(values []float64, i, w int) float64 {
	if i < w-1 {
		return math.NaN()
	}
	return stat.Mean(values[i-w+1:i+1], nil)
}

// rollingStd returns the trailing sample standard deviation of window w
// ending at index i, or NaN while fewer than w values exist.
func rollingStd(values []float64, i, w int) float64 {
	if i < w-1 {
		return math.NaN()
	}
	return stat.StdDev(values[i-w+1:i+1], nil)
}
