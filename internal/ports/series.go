package ports

import (
	"context"
	"time"

	"athProjector/internal/domain"
)

// SeriesSource provides the historical price series for one
// (symbol, timeframe) pair. Implementations: CSV directory, SQLite store.
type SeriesSource interface {
	// FetchHistoricalData returns all bars for the pair, ordered by source
	// order (callers arrange sources so that this is chronological).
	FetchHistoricalData(ctx context.Context, symbol, timeframe string) (domain.Series, error)
}

// BarRepository persists raw bars, used by the fetch sidecar to archive
// downloaded data and by the SQLite series source to read it back.
type BarRepository interface {
	SaveBars(ctx context.Context, symbol, timeframe string, bars domain.Series) error
	GetBars(ctx context.Context, symbol, timeframe string) (domain.Series, error)
}

// ChartInput is everything the presentation collaborator consumes. The
// pipeline never depends on rendering succeeding.
type ChartInput struct {
	Symbol       string
	Historical   domain.Series
	Headline     domain.ProjectedSeries
	HalvingDates []time.Time
	CurrentDate  time.Time
	CurrentPrice float64
}

// ChartRenderer renders the analysis result for human consumption.
type ChartRenderer interface {
	Render(ctx context.Context, input ChartInput) error
}
