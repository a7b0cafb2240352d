// Package metrics exposes Prometheus instruments for newsverdict.
//
// Every instrument is registered on a caller-supplied registerer so that
// tests and the HTTP server can use an isolated registry. A nil *Metrics is
// valid and records nothing, which keeps the CLI paths free of metrics
// plumbing.
package metrics
