package errorutil

import (
	"fmt"
	"log/slog"
)

// LogAndWrap logs an error with structured context and returns a wrapped error
// This consolidates the common pattern of structured logging followed by error wrapping
func LogAndWrap(logger *slog.Logger, operation string, err error, attrs ...slog.Attr) error {
	if logger == nil || err == nil {
		return err
	}

	// Build log attributes starting with the error
	logAttrs := []slog.Attr{
		slog.String("error", err.Error()),
	}
	logAttrs = append(logAttrs, attrs...)

	// Convert to interface slice for logger
	anyAttrs := make([]any, len(logAttrs))
	for i, attr := range logAttrs {
		anyAttrs[i] = attr
	}

	logger.Error(operation+" failed", anyAttrs...)
	return fmt.Errorf("%s: %w", operation, err)
}

// LogWarning logs a non-fatal error as warning without wrapping
// Used for recoverable errors that should be logged but don't stop processing
func LogWarning(logger *slog.Logger, operation string, err error, attrs ...slog.Attr) {
	if logger == nil || err == nil {
		return
	}

	logAttrs := []slog.Attr{
		slog.String("error", err.Error()),
	}
	logAttrs = append(logAttrs, attrs...)

	anyAttrs := make([]any, len(logAttrs))
	for i, attr := range logAttrs {
		anyAttrs[i] = attr
	}

	logger.Warn("Non-fatal error in "+operation, anyAttrs...)
}

// FileContext builds the attribute set used when logging file operations
func FileContext(filePath string) []slog.Attr {
	if filePath == "" {
		return nil
	}
	return []slog.Attr{slog.String("file_path", filePath)}
}