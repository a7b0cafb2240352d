package pipeline

import (
	"errors"

	"github.com/nao1215/newsverdict/internal/textmodel"
)

var (
	// ErrEmptyTopic is returned when a topic is empty after trimming.
	// No request is sent to the generative endpoint.
	ErrEmptyTopic = errors.New("please provide a topic")

	// ErrEmptyText is returned when text to classify is empty after trimming.
	ErrEmptyText = textmodel.ErrEmptyText

	// ErrNoFetcher is returned by AnalyzeTopic when the analyzer was built
	// without a fetcher, e.g. because no API key is configured.
	ErrNoFetcher = errors.New("topic analysis is not configured")
)

// IsValidationError reports whether err is an input validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyTopic) || errors.Is(err, ErrEmptyText)
}
