// Package logger provides the structured logger used across igtags.
//
// It wraps zerolog behind a small interface so components can take a
// Logger and tests can swap in TestLogger or NewNopLogger.
//
//	log, err := logger.New(&cfg.Logging)
//	log.WithField("tag", "golang").Info("Fetching...")
//
// Console output is colourised only when stdout is a terminal. When a log
// file is configured, JSON lines are appended to it as well.
package logger
