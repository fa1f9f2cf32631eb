package services

import "errors"

// Service errors
var (
	// Snapshot errors
	ErrSnapshotNotLoaded = errors.New("snapshot not loaded")
	ErrSnapshotEmpty     = errors.New("snapshot contains no records")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
