package constants

import "time"

// Calendar limits and parsing constraints
const (
	// MinYear and MaxYear bound the representable year range
	MinYear = 1
	MaxYear = 9999

	// TwoDigitYearPivot controls two-digit year resolution: values below the
	// pivot land in the 2000s, values at or above it in the 1900s
	TwoDigitYearPivot = 70

	// MaxFractionDigits is the widest fractional-second field
	MaxFractionDigits = 9

	// MaxPatternLength caps pattern strings accepted by the compiler
	MaxPatternLength = 256

	// MaxInputLength caps a single input value handed to the parser
	MaxInputLength = 1024
)

// Processing and batch configuration
const (
	// DefaultBatchSize for processing multiple input files
	DefaultBatchSize = 5

	// MaxBatchSize to prevent resource exhaustion
	MaxBatchSize = 20

	// DefaultWatchDebounce between a file event and processing the file
	DefaultWatchDebounce = 250 * time.Millisecond
)

// File and logging configuration
const (
	// DefaultMaxLogFiles to keep in rotation
	DefaultMaxLogFiles = 7

	// DefaultMaxLogSizeMB per log file
	DefaultMaxLogSizeMB = 10

	// DefaultLogRotationHours for automatic rotation
	DefaultLogRotationHours = 24
)
