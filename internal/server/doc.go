// Package server exposes the computation engine over HTTP and WebSocket.
//
// The layer is deliberately thin: a POST /api/{domain}/{operation} body is
// decoded into engine parameters, dispatched once, and the computation
// envelope is returned verbatim. Computation failures (parse errors, domain
// errors, unsupported operations) are part of the envelope contract and
// stay HTTP 200; only transport problems (malformed JSON, rate limiting)
// surface as non-200 responses.
//
// Routes:
//   - GET  /                       service description
//   - GET  /health                 liveness + cache statistics
//   - GET  /metrics                prometheus metrics
//   - POST /api/:domain/:operation one engine dispatch
//   - GET  /stream                 interactive WebSocket (unit circle, compute)
//
// Middleware stack: recovery, CORS, request IDs, per-IP rate limiting, and
// prometheus request metrics.
package server
