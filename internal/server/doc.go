// Package server exposes the analyzer over a small JSON HTTP API.
//
// Routes:
//   - POST /api/classify {"text": "..."}: classify text directly
//   - POST /api/analyze {"topic": "..."}: fetch a summary and classify it
//   - GET /healthz: liveness probe
//   - GET /metrics: Prometheus metrics
//
// Design decision: Only input validation failures are HTTP errors (400).
// Every other outcome, including "no summary found" and classification
// failures, is a 200 response carrying the result and its status, so that
// callers handle one shape for every analysis.
package server
