package rhizomatic

// Logger defines the interface for runtime logging.
// The kernel uses structured logging with key-value pairs so implementing
// applications control how boot-phase logs appear. The variadic arguments
// follow the slog convention:
//
//	logger.Info("message", "key1", "value1", "key2", "value2")
//
// which makes the interface directly satisfiable by slog, zap's sugared
// logger, and similar structured logging libraries.
type Logger interface {
	// Info logs an informational message with optional key-value pairs.
	Info(msg string, args ...any)

	// Error logs an error message with optional key-value pairs.
	Error(msg string, args ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, args ...any)

	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, args ...any)
}
