// Package main is the entry point for the math computation server.
//
// The server exposes the computation engine over a thin HTTP/WebSocket
// layer: every POST /api/{domain}/{operation} request maps onto one engine
// dispatch, and every response is a computation envelope with the result,
// the step-by-step derivation, and plot data.
//
// The server provides:
//   - REST API for calculus, algebra, matrix, geometry, and trig operations
//   - WebSocket streaming for interactive unit-circle and graph views
//   - Prometheus metrics (/metrics) and a health endpoint (/health)
//   - Rate limiting, CORS, and request IDs
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
