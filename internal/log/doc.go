// Package log builds the slog loggers used by ankikana.
//
// Loggers write to stderr so that reports on stdout stay clean. The
// SecureHandler masks credentials before they reach the output: the
// AnkiConnect API key is sent with every request and would otherwise show up
// in verbose request traces that users paste into bug reports.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("invoking AnkiConnect", "action", "findCards", "key", apiKey)
//	// key=***REDACTED***
package log
