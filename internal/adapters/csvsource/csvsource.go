// Package csvsource loads a historical price series from a directory of CSV
// files named <symbol>-<timeframe>-*.csv. Files are concatenated in lexical
// order; callers arrange filenames so that this matches chronological order.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"athProjector/internal/domain"
	"athProjector/internal/ports"
)

// Source implements ports.SeriesSource over a directory of CSV files.
type Source struct {
	dataDir string
	logger  ports.Logger
}

// Config holds configuration for the CSV source.
type Config struct {
	DataDir string
	Logger  ports.Logger
}

// New creates a CSV series source.
func New(cfg Config) (*Source, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for CSV source")
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DataDir must be set: %w", ports.ErrConfigurationError)
	}
	return &Source{dataDir: cfg.DataDir, logger: cfg.Logger}, nil
}

// FetchHistoricalData reads every matching file and concatenates the rows.
// A file that fails to parse is skipped with a warning and processing
// continues; a file missing the high or low column aborts the load, since
// the volatility feature cannot be computed without them.
func (s *Source) FetchHistoricalData(ctx context.Context, symbol, timeframe string) (domain.Series, error) {
	pattern := filepath.Join(s.dataDir, fmt.Sprintf("%s-%s-*.csv", symbol, timeframe))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad source pattern %q: %w", pattern, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no files match %q: %w", pattern, ports.ErrNoSourceData)
	}

	var series domain.Series
	for _, file := range files {
		bars, err := readBarFile(file)
		if err != nil {
			if errors.Is(err, ports.ErrMissingColumns) {
				return nil, fmt.Errorf("file %q: %w", file, err)
			}
			s.logger.Warn(ctx, "Skipping unreadable source file", map[string]interface{}{
				"file":  file,
				"error": err.Error(),
			})
			continue
		}
		series = append(series, bars...)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no readable rows under %q: %w", pattern, ports.ErrNoSourceData)
	}
	s.logger.Info(ctx, "Historical data loaded", map[string]interface{}{
		"symbol":    symbol,
		"timeframe": timeframe,
		"files":     len(files),
		"bars":      len(series),
	})
	return series, nil
}

// readBarFile parses one CSV file into bars. The timestamp column holds a
// millisecond epoch; volume is optional and defaults to zero.
func readBarFile(path string) (domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["high"]; !ok {
		return nil, fmt.Errorf("column 'high' is required for volatility: %w", ports.ErrMissingColumns)
	}
	if _, ok := cols["low"]; !ok {
		return nil, fmt.Errorf("column 'low' is required for volatility: %w", ports.ErrMissingColumns)
	}
	for _, name := range []string{"timestamp", "open", "close"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("column %q not found in header", name)
		}
	}
	volumeIdx, hasVolume := cols["volume"]

	var bars domain.Series
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		ms, err := strconv.ParseInt(record[cols["timestamp"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad timestamp: %w", line, err)
		}
		bar := domain.Bar{Timestamp: time.UnixMilli(ms).UTC()}
		if bar.Open, err = strconv.ParseFloat(record[cols["open"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad open: %w", line, err)
		}
		if bar.High, err = strconv.ParseFloat(record[cols["high"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad high: %w", line, err)
		}
		if bar.Low, err = strconv.ParseFloat(record[cols["low"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad low: %w", line, err)
		}
		if bar.Close, err = strconv.ParseFloat(record[cols["close"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad close: %w", line, err)
		}
		if hasVolume && volumeIdx < len(record) && record[volumeIdx] != "" {
			if bar.Volume, err = strconv.ParseFloat(record[volumeIdx], 64); err != nil {
				return nil, fmt.Errorf("line %d: bad volume: %w", line, err)
			}
		}
		bars = append(bars, bar)
	}
	return bars, nil
}
