// Package logger provides structured logging for reelgrab.
//
// It wraps zerolog behind a small interface so components can be handed a
// logger (or a TestLogger in tests) instead of reaching for globals:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("post_url", url).Info("Extraction requested")
//
// Without a log file, output goes to stderr through a coloured console
// writer. With one, entries are written to both.
package logger
