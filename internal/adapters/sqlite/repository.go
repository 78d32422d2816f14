package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"athProjector/internal/domain"
	"athProjector/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.BarRepository and ports.SeriesSource using
// SQLite. It archives the raw bars downloaded by the fetch sidecar and
// serves them back as an alternative to the CSV directory source.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/bars.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally, but the Go driver benefits from
	// limiting connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite bar store ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates the bars table if it doesn't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS bars (
		symbol    TEXT    NOT NULL,
		timeframe TEXT    NOT NULL,
		ts_ms     INTEGER NOT NULL,
		open      REAL    NOT NULL,
		high      REAL    NOT NULL,
		low       REAL    NOT NULL,
		close     REAL    NOT NULL,
		volume    REAL    NOT NULL DEFAULT 0,
		PRIMARY KEY (symbol, timeframe, ts_ms)
	);
	CREATE INDEX IF NOT EXISTS idx_bars_symbol_timeframe ON bars (symbol, timeframe);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveBars upserts the given bars for a (symbol, timeframe) pair inside one
// transaction. Re-saving the same range is idempotent.
func (r *Repository) SaveBars(ctx context.Context, symbol, timeframe string, bars domain.Series) error {
	if len(bars) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	const query = `
	INSERT OR REPLACE INTO bars (symbol, timeframe, ts_ms, open, high, low, close, volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare bar insert: %w: %w", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, timeframe, b.Timestamp.UnixMilli(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("failed to insert bar at %s: %w: %w", b.Timestamp, ports.ErrQueryFailed, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bar insert: %w: %w", ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Bars saved", map[string]interface{}{"symbol": symbol, "timeframe": timeframe, "count": len(bars)})
	return nil
}

// GetBars returns all stored bars for a (symbol, timeframe) pair, ascending
// by timestamp.
func (r *Repository) GetBars(ctx context.Context, symbol, timeframe string) (domain.Series, error) {
	const query = `
	SELECT ts_ms, open, high, low, close, volume
	FROM bars
	WHERE symbol = ? AND timeframe = ?
	ORDER BY ts_ms ASC`

	rows, err := r.db.QueryContext(ctx, query, symbol, timeframe)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars for %s/%s: %w: %w", symbol, timeframe, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var series domain.Series
	for rows.Next() {
		var ms int64
		var b domain.Bar
		if err := rows.Scan(&ms, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar row: %w: %w", ports.ErrQueryFailed, err)
		}
		b.Timestamp = time.UnixMilli(ms).UTC()
		series = append(series, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bar rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return series, nil
}

// FetchHistoricalData implements ports.SeriesSource on top of GetBars.
func (r *Repository) FetchHistoricalData(ctx context.Context, symbol, timeframe string) (domain.Series, error) {
	series, err := r.GetBars(ctx, symbol, timeframe)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no bars stored for %s/%s: %w", symbol, timeframe, ports.ErrNoSourceData)
	}
	return series, nil
}
