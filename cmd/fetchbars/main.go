// Command fetchbars downloads daily klines from Binance spot and archives
// them in the CSV layout the analysis pipeline reads, plus the SQLite bar
// store. It is a data acquisition sidecar; the pipeline itself never talks
// to the exchange.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"athProjector/config"
	"athProjector/internal/adapters/binanceclient"
	"athProjector/internal/adapters/logger"
	"athProjector/internal/adapters/sqlite"
	"athProjector/internal/utils"
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

	// 3. Initialize Exchange Client (Binance Adapter)
	client, err := binanceclient.New(binanceclient.Config{
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretKey,
		Logger:    appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	exchangeSymbol := "BTCUSDT"
	interval := "1d"
	end := time.Now().UTC()
	start := end.AddDate(-4, 0, 0) // 4 years of daily bars

	fmt.Printf("Fetching bars for %s %s from %s to %s...\n", exchangeSymbol, interval, start, end)
	bars, err := client.GetBarsRange(ctx, exchangeSymbol, interval, start, end)
	if err != nil {
		appLogger.Error(ctx, err, "Error fetching bars")
		log.Fatalf("Error fetching bars: %v", err)
	}
	appLogger.Info(ctx, "Fetched bars", map[string]interface{}{"count": len(bars)})

	// 4. Archive as CSV in the loader's <symbol>-<timeframe>-*.csv layout
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		appLogger.Error(ctx, err, "Error creating data directory")
		log.Fatalf("Error creating data directory: %v", err)
	}
	filename := filepath.Join(cfg.DataDir,
		fmt.Sprintf("%s-%s-%s.csv", cfg.Symbol, cfg.Timeframe, end.Format("20060102")))
	if err := utils.WriteBarsToCSV(bars, filename); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved CSV", map[string]interface{}{"filename": filename})

	// 5. Archive in the SQLite bar store
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(ctx, err, "Error opening bar store")
		log.Fatalf("Error opening bar store: %v", err)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			appLogger.Error(ctx, cerr, "Error closing bar store")
		}
	}()
	if err := repo.SaveBars(ctx, cfg.Symbol, cfg.Timeframe, bars); err != nil {
		appLogger.Error(ctx, err, "Error saving bars to store")
		log.Fatalf("Error saving bars to store: %v", err)
	}
	appLogger.Info(ctx, "Saved to bar store", map[string]interface{}{"count": len(bars)})
}
