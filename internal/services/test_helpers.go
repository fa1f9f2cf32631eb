package services

import (
	"io"
	"log/slog"
)

// testLogger returns a logger that discards output, for use in tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
