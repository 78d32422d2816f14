package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"athProjector/config"
	"athProjector/internal/adapters/chart"
	"athProjector/internal/adapters/csvsource"
	"athProjector/internal/adapters/logger"
	"athProjector/internal/adapters/sqlite"
	"athProjector/internal/analysis/halving"
	"athProjector/internal/analysis/indicators"
	"athProjector/internal/analysis/projection"
	"athProjector/internal/app"
	"athProjector/internal/ports"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Series Source
	var source ports.SeriesSource
	switch cfg.DataSource {
	case config.DataSourceCSV:
		source, err = csvsource.New(csvsource.Config{DataDir: cfg.DataDir, Logger: appLogger})
	case config.DataSourceSQLite:
		var repo *sqlite.Repository
		repo, err = sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
		if err == nil {
			defer func() {
				if cerr := repo.Close(); cerr != nil {
					appLogger.Error(ctx, cerr, "Error closing bar store")
				}
			}()
			source = repo
		}
	default:
		err = fmt.Errorf("%q: %w", cfg.DataSource, ports.ErrUnknownDataSource)
	}
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize series source")
		log.Fatalf("FATAL: Failed to initialize series source: %v", err)
	}
	appLogger.Info(ctx, "Series source initialized", map[string]interface{}{"kind": string(cfg.DataSource)})

	// 4. Halving Calendar
	calendar := halving.NewCalendar()

	// 5. Indicator Engine
	indEngine, err := indicators.New(indicators.Config{
		RSIPeriod:    cfg.RSIPeriod,
		OpenMAPeriod: cfg.OpenMAPeriod,
	}, calendar, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize indicator engine")
		log.Fatalf("FATAL: Failed to initialize indicator engine: %v", err)
	}

	// 6. Projection Engine
	projEngine, err := projection.New(projection.Config{
		BandFraction:  cfg.ATHBandFraction,
		GrowthDamping: cfg.GrowthDamping,
	}, calendar, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize projection engine")
		log.Fatalf("FATAL: Failed to initialize projection engine: %v", err)
	}

	// 7. Chart Renderer (presentation collaborator; pipeline survives without it)
	renderer, err := chart.New(chart.Config{OutputPath: cfg.ChartPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize chart renderer")
		log.Fatalf("FATAL: Failed to initialize chart renderer: %v", err)
	}

	// 8. Run the Pipeline
	service, err := app.NewAnalysisService(cfg, appLogger, source, indEngine, projEngine, calendar, renderer)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize analysis service")
		log.Fatalf("FATAL: Failed to initialize analysis service: %v", err)
	}

	result, err := service.Run(ctx)
	if err != nil {
		appLogger.Error(ctx, err, "Analysis pipeline failed")
		log.Fatalf("FATAL: Analysis pipeline failed: %v", err)
	}

	if lastPoint, ok := result.Headline.Last(); ok {
		appLogger.Info(ctx, "Projection summary", map[string]interface{}{
			"currentDate":       result.CurrentDate,
			"currentPrice":      result.CurrentPrice,
			"projectedTopDate":  lastPoint.Date.Format("2006-01-02"),
			"projectedTopPrice": lastPoint.Value,
		})
	}
}
