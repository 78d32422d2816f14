// Package chart renders the analysis result as a self-contained HTML line
// chart. It is a thin presentation wrapper; the pipeline treats rendering
// failures as non-fatal.
package chart

import (
	"context"
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"athProjector/internal/ports"
)

const dateLayout = "2006-01-02"

// Renderer implements ports.ChartRenderer using go-echarts.
type Renderer struct {
	outputPath string
	logger     ports.Logger
}

// Config holds configuration for the chart renderer.
type Config struct {
	OutputPath string
	Logger     ports.Logger
}

// New creates a chart renderer.
func New(cfg Config) (*Renderer, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for chart renderer")
	}
	if cfg.OutputPath == "" {
		return nil, fmt.Errorf("OutputPath must be set: %w", ports.ErrConfigurationError)
	}
	return &Renderer{outputPath: cfg.OutputPath, logger: cfg.Logger}, nil
}

// Render writes the historical closes, the headline trajectory and the
// halving mark lines into one HTML file.
func (r *Renderer) Render(ctx context.Context, input ports.ChartInput) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1400px",
			Height: "700px",
			Theme:  types.ThemeChalk,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s price projection by simulating consistent growth near all-time highs", input.Symbol),
			Subtitle: fmt.Sprintf("current price %.2f on %s",
				input.CurrentPrice, input.CurrentDate.Format(dateLayout)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	// One shared x axis: historical dates followed by projected dates. The
	// projected series is padded so its values line up with its dates.
	axis := make([]string, 0, len(input.Historical)+len(input.Headline))
	actual := make([]opts.LineData, 0, len(input.Historical))
	for _, b := range input.Historical {
		axis = append(axis, b.Timestamp.Format(dateLayout))
		actual = append(actual, opts.LineData{Value: b.Close})
	}
	projected := make([]opts.LineData, 0, len(axis)+len(input.Headline))
	for range input.Historical {
		projected = append(projected, opts.LineData{Value: "-"})
	}
	for _, p := range input.Headline {
		axis = append(axis, p.Date.Format(dateLayout))
		projected = append(projected, opts.LineData{Value: p.Value})
	}

	halvingMarks := make([]charts.SeriesOpts, 0, len(input.HalvingDates))
	for _, d := range input.HalvingDates {
		halvingMarks = append(halvingMarks, charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
			Name:  "Halving " + d.Format(dateLayout),
			XAxis: d.Format(dateLayout),
		}))
	}

	line.SetXAxis(axis).
		AddSeries("Actual Prices", actual, halvingMarks...).
		AddSeries("Estimated Future Top Prices", projected)

	f, err := os.Create(r.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file %q: %w", r.outputPath, err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	r.logger.Info(ctx, "Chart rendered", map[string]interface{}{"path": r.outputPath})
	return nil
}
