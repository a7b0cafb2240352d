// Package model defines the core data structures used throughout newsverdict.
//
// This package contains the following main types:
//   - Label: The binary verdict, REAL or FAKE
//   - FetchResult: A fetched topic summary with its source attribution
//   - AnalysisResult: The per-request record rendered by reports and the API
//   - Status: The terminal state of a request
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The fetcher, the classifier, the pipeline, reports and the
// HTTP server all use these types, so centralizing them prevents import cycles.
//
// All types serialize to JSON with stable, lowercase field names.
package model
