package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the terminal state of a single analysis request.
type Status int

const (
	// StatusComplete means a label was produced.
	StatusComplete Status = iota

	// StatusNotFound means no summary could be fetched for the topic.
	// No classification was attempted.
	StatusNotFound

	// StatusClassificationError means the text was available but the
	// analysis module failed to classify it. Fetch data is preserved.
	StatusClassificationError

	// StatusInvalidInput means the topic or text was empty after trimming.
	// No downstream call was made.
	StatusInvalidInput
)

// Fixed, caller-facing messages. Internal error details are logged, never
// placed in results.
const (
	MessageNotFound            = "no summary found for this topic"
	MessageClassificationError = "analysis module error"
	MessageInvalidInput        = "please provide input"
)

// String returns a short machine-friendly name for the status.
func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusNotFound:
		return "not_found"
	case StatusClassificationError:
		return "classification_error"
	case StatusInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, candidate := range []Status{StatusComplete, StatusNotFound, StatusClassificationError, StatusInvalidInput} {
		if candidate.String() == name {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", name)
}

// AnalysisResult is the per-request record assembled by the analyzer.
// It is created fresh for each request and never cached or persisted.
type AnalysisResult struct {
	// Topic is the requested topic. Empty on the direct text path.
	Topic string `json:"topic,omitempty"`

	// Input is the text that was (or would have been) classified. On the
	// topic path this is the fetched summary.
	Input string `json:"input,omitempty"`

	// Fetch holds the fetch outcome. Nil on the direct text path.
	Fetch *FetchResult `json:"fetch,omitempty"`

	// Label is the verdict. LabelUnknown unless Status is StatusComplete.
	Label Label `json:"label"`

	// Status is the terminal state of the request.
	Status Status `json:"status"`

	// Message is a caller-facing description of a non-complete status.
	Message string `json:"message,omitempty"`

	// AnalyzedAt is when the request finished.
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// NewTopicResult creates an empty result for a topic request.
func NewTopicResult(topic string) *AnalysisResult {
	return &AnalysisResult{
		Topic:  strings.TrimSpace(topic),
		Status: StatusComplete,
	}
}

// NewTextResult creates an empty result for a direct text request.
func NewTextResult(text string) *AnalysisResult {
	return &AnalysisResult{
		Input:  text,
		Status: StatusComplete,
	}
}

// Terminal reports whether no further stage should run.
// A complete result is terminal only once it carries a label.
func (r *AnalysisResult) Terminal() bool {
	if r.Status != StatusComplete {
		return true
	}
	return r.Label.Valid()
}

// MarkNotFound records a fetch failure.
func (r *AnalysisResult) MarkNotFound() {
	r.Status = StatusNotFound
	r.Label = LabelUnknown
	r.Message = MessageNotFound
}

// MarkClassificationError records a classification failure while keeping
// the fetch data intact.
func (r *AnalysisResult) MarkClassificationError() {
	r.Status = StatusClassificationError
	r.Label = LabelUnknown
	r.Message = MessageClassificationError
}

// MarkInvalidInput records a validation failure.
func (r *AnalysisResult) MarkInvalidInput() {
	r.Status = StatusInvalidInput
	r.Label = LabelUnknown
	r.Message = MessageInvalidInput
}

// SourceTitle returns the fetch source title, or "" on the direct path.
func (r *AnalysisResult) SourceTitle() string {
	if r.Fetch == nil {
		return ""
	}
	return r.Fetch.SourceTitle
}

// SourceURL returns the fetch source URL, or "" on the direct path.
func (r *AnalysisResult) SourceURL() string {
	if r.Fetch == nil {
		return ""
	}
	return r.Fetch.SourceURL
}
