package app

import (
	"context"
	"fmt"

	"athProjector/config"
	"athProjector/internal/analysis/halving"
	"athProjector/internal/analysis/indicators"
	"athProjector/internal/analysis/projection"
	"athProjector/internal/domain"
	"athProjector/internal/ports"
)

// DefaultProjectionFeatures is the feature list projected by the
// fixed-horizon and to-halving strategies when the caller has no opinion.
var DefaultProjectionFeatures = []string{domain.FeatureClose}

// Result carries everything one pipeline run produces for presentation.
type Result struct {
	Enriched     domain.EnrichedSeries // gap-free feature table
	Headline     domain.ProjectedSeries
	FixedHorizon domain.FeatureFrame
	ToHalving    domain.FeatureFrame
	CurrentDate  string
	CurrentPrice float64
}

// AnalysisService orchestrates the one-shot pipeline:
// load -> enrich -> project -> present.
type AnalysisService struct {
	cfg        *config.Config
	logger     ports.Logger
	source     ports.SeriesSource
	indicators *indicators.Engine
	projector  *projection.Engine
	calendar   *halving.Calendar
	renderer   ports.ChartRenderer // optional; rendering failures are non-fatal
}

// NewAnalysisService creates the pipeline service.
func NewAnalysisService(
	cfg *config.Config,
	logger ports.Logger,
	source ports.SeriesSource,
	indEngine *indicators.Engine,
	projEngine *projection.Engine,
	calendar *halving.Calendar,
	renderer ports.ChartRenderer,
) (*AnalysisService, error) {
	if cfg == nil || logger == nil || source == nil || indEngine == nil || projEngine == nil || calendar == nil {
		return nil, fmt.Errorf("missing required dependencies for AnalysisService")
	}
	return &AnalysisService{
		cfg:        cfg,
		logger:     logger,
		source:     source,
		indicators: indEngine,
		projector:  projEngine,
		calendar:   calendar,
		renderer:   renderer,
	}, nil
}

// Run executes one pipeline pass and hands the result to the renderer.
func (s *AnalysisService) Run(ctx context.Context) (*Result, error) {
	series, err := s.source.FetchHistoricalData(ctx, s.cfg.Symbol, s.cfg.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("loading historical data: %w", err)
	}

	enriched, err := s.indicators.Enrich(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("enriching series: %w", err)
	}
	last, ok := enriched.Last()
	if !ok {
		return nil, fmt.Errorf("no bars survive feature computation (%d raw bars): %w",
			len(series), ports.ErrInsufficientData)
	}

	// The headline trajectory reads the full raw series: its near-ATH
	// statistics must see every bar, including the ones the feature table
	// drops for incomplete lookbacks.
	headline, err := s.projector.HeadlineTrajectory(ctx, series, s.cfg.HeadlineYears*365)
	if err != nil {
		return nil, fmt.Errorf("headline trajectory: %w", err)
	}

	fixed, err := s.projector.FixedHorizon(ctx, enriched, DefaultProjectionFeatures, s.cfg.ProjectionDays)
	if err != nil {
		return nil, fmt.Errorf("fixed-horizon projection: %w", err)
	}

	toHalving, err := s.projector.ToHalving(ctx, enriched, DefaultProjectionFeatures, s.cfg.HalvingTargetYear)
	if err != nil {
		return nil, fmt.Errorf("projection to %d halving: %w", s.cfg.HalvingTargetYear, err)
	}

	result := &Result{
		Enriched:     enriched,
		Headline:     headline,
		FixedHorizon: fixed,
		ToHalving:    toHalving,
		CurrentDate:  last.Timestamp.Format("2006-01-02"),
		CurrentPrice: last.Close,
	}

	if s.renderer != nil {
		input := ports.ChartInput{
			Symbol:       s.cfg.Symbol,
			Historical:   enriched.Bars(),
			Headline:     headline,
			HalvingDates: s.calendar.Dates(),
			CurrentDate:  last.Timestamp,
			CurrentPrice: last.Close,
		}
		if err := s.renderer.Render(ctx, input); err != nil {
			// Presentation is a collaborator, not a dependency.
			s.logger.Warn(ctx, "Chart rendering failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info(ctx, "Analysis pipeline finished", map[string]interface{}{
		"bars":           len(enriched),
		"headlineDays":   len(headline),
		"projectionDays": len(fixed.Dates),
		"currentPrice":   result.CurrentPrice,
	})
	return result, nil
}
