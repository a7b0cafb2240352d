package textmodel

import "errors"

var (
	// ErrEmptyText is returned when the text to classify is empty or
	// whitespace-only. The model is never consulted for such input.
	ErrEmptyText = errors.New("text is empty")

	// ErrClassification is returned when transform or predict fails on
	// otherwise valid input (for example a non-finite decision value).
	ErrClassification = errors.New("classification failed")

	// ErrArtifactLoad wraps every error raised while loading model
	// artifacts. It is a boot failure: the caller must not serve requests.
	ErrArtifactLoad = errors.New("failed to load model artifacts")

	// ErrChecksumMismatch is returned when an artifact does not match its
	// expected BLAKE2b-256 checksum.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")

	// ErrInvalidArtifact is returned when an artifact decodes but is
	// internally inconsistent.
	ErrInvalidArtifact = errors.New("invalid artifact")
)
