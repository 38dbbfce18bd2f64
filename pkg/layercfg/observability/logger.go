// Package observability provides logging, metrics and tracing for
// configuration resolution.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Log helpers accept a nil logger and do nothing with it.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds resolution context to a logger.
// Returns a new logger with resolution_id and, when set, provider fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "9f0c...", "environment")
//	enriched.Debug("fetching") // includes resolution_id, provider
func EnrichLogger(logger *slog.Logger, resolutionID, provider string) *slog.Logger {
	if logger == nil {
		return nil
	}
	attrs := []any{slog.String("resolution_id", resolutionID)}
	if provider != "" {
		attrs = append(attrs, slog.String("provider", provider))
	}
	return logger.With(attrs...)
}

// LogResolveStart logs the start of a resolution.
func LogResolveStart(logger *slog.Logger, resolutionID string, providers int, mode string) {
	if logger == nil {
		return
	}
	logger.Debug("config resolution starting",
		slog.String("resolution_id", resolutionID),
		slog.Int("providers", providers),
		slog.String("mode", mode),
	)
}

// LogProviderFetched logs a successful provider fetch.
func LogProviderFetched(logger *slog.Logger, provider string, durationMs float64, leaves int) {
	if logger == nil {
		return
	}
	logger.Debug("provider fetched",
		slog.String("provider", provider),
		slog.Float64("duration_ms", durationMs),
		slog.Int("leaves", leaves),
	)
}

// LogProviderError logs a failed provider fetch.
func LogProviderError(logger *slog.Logger, provider string, err error) {
	if logger == nil {
		return
	}
	logger.Error("provider failed",
		slog.String("provider", provider),
		slog.String("error", err.Error()),
	)
}

// LogResolveComplete logs a successful resolution.
func LogResolveComplete(logger *slog.Logger, resolutionID string, durationMs float64, leaves int) {
	if logger == nil {
		return
	}
	logger.Info("config resolved",
		slog.String("resolution_id", resolutionID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("leaves", leaves),
	)
}

// LogResolveError logs a failed resolution.
func LogResolveError(logger *slog.Logger, resolutionID string, err error, reason string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("config resolution failed",
		slog.String("resolution_id", resolutionID),
		slog.String("error", err.Error()),
		slog.String("reason", reason),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStartupWarning logs a non-fatal problem while assembling providers.
func LogStartupWarning(logger *slog.Logger, msg string, err error) {
	if logger == nil {
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()))
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
