package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Config.ValidateFetch()
// so that callers can use errors.Is() while still showing a readable message.
var (
	// ErrMissingAPIKey is returned when a command needs the generative
	// endpoint but no key is set in the environment.
	ErrMissingAPIKey = errors.New("missing API key: set NEWSVERDICT_API_KEY or GEMINI_API_KEY")

	// ErrMissingModel is returned when no model identifier is configured.
	ErrMissingModel = errors.New("missing model identifier")

	// ErrMissingEndpoint is returned when the endpoint base URL is empty.
	ErrMissingEndpoint = errors.New("missing generative endpoint")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// An unbounded request could block a caller forever.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrIncompleteArtifacts is returned when only one of the vectorizer and
	// classifier paths is configured. Partial loads are not supported.
	ErrIncompleteArtifacts = errors.New("incomplete artifacts: configure both vectorizer and classifier, or a bundle")
)
