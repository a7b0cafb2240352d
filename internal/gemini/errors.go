package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nao1215/newsverdict/internal/config"
)

var (
	// ErrNoSummary is returned when no summary could be obtained, either
	// because every ladder step failed or because the response had no
	// extractable text.
	ErrNoSummary = errors.New("no summary found")

	// ErrMissingAPIKey is returned by NewFetcher when no API key is
	// configured. No request is ever sent without a key.
	ErrMissingAPIKey = config.ErrMissingAPIKey

	// ErrEmptyTopic is returned when the topic is empty after trimming.
	ErrEmptyTopic = errors.New("empty topic")

	// ErrInvalidPrompt is returned when a prompt template does not contain
	// exactly one %s verb for the topic.
	ErrInvalidPrompt = errors.New("prompt template must contain exactly one %s")
)

// StatusError is a non-2xx response from the endpoint.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// Status is the API error status, e.g. "PERMISSION_DENIED", when the
	// body carried one.
	Status string

	// Message is the API error message, truncated.
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	text := http.StatusText(e.Code)
	if e.Status != "" {
		text = e.Status
	}
	if e.Message != "" {
		return fmt.Sprintf("generative endpoint returned %d %s: %s", e.Code, text, e.Message)
	}
	return fmt.Sprintf("generative endpoint returned %d %s", e.Code, text)
}

// statusCode returns the HTTP status carried by err, or 0 when err is not a
// *StatusError (transport failures, timeouts, decode errors).
func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
