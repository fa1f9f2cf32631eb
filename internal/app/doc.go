// Package app wires the application together: configuration, logging,
// the snapshot and analytics services, the chi router with its
// middleware chain, and the HTTP server lifecycle.
//
// The dependency flow is one-directional:
//
//	config -> infrastructure (logger, metrics) -> services -> transport
//
// NewApplication builds the whole graph; Run serves until interrupted
// and then shuts down gracefully.
package app
