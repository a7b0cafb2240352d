package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/newsverdict/internal/metrics"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/textmodel"
)

// SummaryFetcher fetches a grounded summary for a topic.
// *gemini.Fetcher implements it.
type SummaryFetcher interface {
	Fetch(ctx context.Context, topic string) (model.FetchResult, error)
}

// TextClassifier labels non-empty text.
// *textmodel.Engine implements it.
type TextClassifier interface {
	Classify(text string) (model.Label, error)
}

// FetchStep fetches the summary that the classify step will label.
//
// A fetch failure of any kind marks the result as not found; the cause is
// logged, never returned to the caller.
type FetchStep struct {
	fetcher SummaryFetcher
	logger  *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a new fetch step.
func NewFetchStep(fetcher SummaryFetcher, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		fetcher: fetcher,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, result *model.AnalysisResult) error {
	fetched, err := s.fetcher.Fetch(ctx, result.Topic)
	result.Fetch = &fetched

	if err != nil || !fetched.Found() {
		s.logger.Warn("no summary found",
			"topic", result.Topic,
			"attempts", fetched.Attempts,
			"error", err,
		)
		result.MarkNotFound()
		return nil
	}

	result.Input = fetched.Summary
	return nil
}

// ClassifyStep labels result.Input.
//
// Any error or panic from the classifier marks the result as a
// classification error. Fetch data already in the result is left intact.
type ClassifyStep struct {
	classifier TextClassifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// ClassifyStepOption configures a ClassifyStep.
type ClassifyStepOption func(*ClassifyStep)

// WithClassifyLogger sets a custom logger for the classify step.
func WithClassifyLogger(logger *slog.Logger) ClassifyStepOption {
	return func(s *ClassifyStep) {
		s.logger = logger
	}
}

// WithClassifyMetrics records produced labels on m.
func WithClassifyMetrics(m *metrics.Metrics) ClassifyStepOption {
	return func(s *ClassifyStep) {
		s.metrics = m
	}
}

// NewClassifyStep creates a new classify step.
func NewClassifyStep(classifier TextClassifier, opts ...ClassifyStepOption) *ClassifyStep {
	s := &ClassifyStep{
		classifier: classifier,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classify step.
func (s *ClassifyStep) Do(_ context.Context, result *model.AnalysisResult) error {
	if strings.TrimSpace(result.Input) == "" {
		result.MarkInvalidInput()
		return nil
	}

	label, err := s.classify(result.Input)
	if err != nil {
		s.logger.Error("classification failed",
			"topic", result.Topic,
			"error", err,
		)
		result.MarkClassificationError()
		return nil
	}

	result.Label = label
	s.metrics.ObserveClassification(label)
	return nil
}

// classify calls the classifier, turning panics and out-of-range labels
// into ErrClassification.
func (s *ClassifyStep) classify(text string) (label model.Label, err error) {
	defer func() {
		if r := recover(); r != nil {
			label = model.LabelUnknown
			err = fmt.Errorf("%w: recovered from panic: %v", textmodel.ErrClassification, r)
		}
	}()

	label, err = s.classifier.Classify(text)
	if err != nil {
		return model.LabelUnknown, err
	}
	if !label.Valid() {
		return model.LabelUnknown, fmt.Errorf("%w: classifier returned %s", textmodel.ErrClassification, label)
	}
	return label, nil
}
