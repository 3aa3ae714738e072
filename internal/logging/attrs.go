package logging

import (
	"io"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldBookID is the standardized structured logging key for Goodreads book identifiers.
	FieldBookID = "book_id"
	// FieldBatchID is the standardized structured logging key for fetch batch identifiers.
	FieldBatchID = "batch_id"
	// FieldSearchType is the standardized structured logging key for search cache categories.
	FieldSearchType = "search_type"
)

// NewNop returns a logger that discards all output.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// WithComponent returns a child logger tagged with a component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if component == "" {
		return logger
	}
	return logger.With(slog.String(FieldComponent, component))
}
