// Package logging provides a process-wide structured logger for colhist.
//
// The package wraps [log/slog] and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. Histogram
// construction and the CLI obtain their loggers through this package so
// that log level and output destination are controlled from a single place.
//
// # Initialisation
//
// Call Init once at program startup, before any goroutines that might call
// GetLogger are spawned:
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug}); err != nil {
//	    log.Fatal(err)
//	}
//
// InitDefault writes INFO-level logs to stdout in text format.
//
// # Retrieving the logger
//
//	logger := logging.GetLogger()
//	logger.Info("histogram built", "layout", "equal-height", "bins", 32)
//
// If GetLogger is called before Init, a default stdout logger is created
// lazily (via sync.Once) so that packages that log during init are safe.
//
// # Context helpers
//
// Several helpers return child loggers pre-populated with structured fields:
//
//	log := logging.WithLayout("equal-width") // adds layout field
//	log := logging.WithComponent("segment")  // adds component field
package logging
