package logging

import (
	"log/slog"
)

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("histogram")
//	log.Info("component initialized")
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithLayout creates a logger with bin-layout context.
// Use this when logging histogram construction.
//
// Example:
//
//	log := logging.WithLayout("equal-height")
//	log.Debug("bins built", "bins", binCount)
func WithLayout(layout string) *slog.Logger {
	return GetLogger().With("layout", layout)
}

// WithSegment creates a logger with segment context.
// Useful when building distributions over many shards.
//
// Example:
//
//	log := logging.WithSegment(shardID)
//	log.Debug("distribution built", "distinct", len(dist))
func WithSegment(shard int) *slog.Logger {
	return GetLogger().With("segment", shard)
}

// WithError creates a logger with error context.
// Use this when logging errors to include the error in structured format.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Error("construction failed", "layout", layout)
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
