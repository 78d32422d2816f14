package ports

import "errors"

// Standard application-level errors.
// Adapters and analysis packages wrap underlying errors with these sentinels.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Data Errors
	ErrMissingColumns    = errors.New("required columns are missing from the source data")
	ErrInsufficientData  = errors.New("not enough data for the requested computation")
	ErrNoSourceData      = errors.New("no readable source data found")
	ErrNoBarsNearHigh    = errors.New("no bars within the near-all-time-high band")
	ErrUnknownDataSource = errors.New("unknown data source kind")

	// Exchange Specific Errors
	ErrExchangeUnavailable = errors.New("exchange API is unavailable")
	ErrRateLimited         = errors.New("API rate limit exceeded")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)
