package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/newsverdict/internal/metrics"
	"github.com/nao1215/newsverdict/internal/model"
)

// Analyzer is the caller-facing entry point: AnalyzeTopic and ClassifyText.
//
// It is built once at startup around an already loaded classifier and is
// safe for concurrent use; every call creates its own result and pipeline.
type Analyzer struct {
	fetcher    SummaryFetcher
	classifier TextClassifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithFetcher enables the topic path.
func WithFetcher(f SummaryFetcher) AnalyzerOption {
	return func(a *Analyzer) {
		a.fetcher = f
	}
}

// WithAnalyzerLogger sets a custom logger for the analyzer and its steps.
func WithAnalyzerLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithAnalyzerMetrics records outcomes on m.
func WithAnalyzerMetrics(m *metrics.Metrics) AnalyzerOption {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithClock replaces time.Now for AnalyzedAt.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates an Analyzer around classifier.
func NewAnalyzer(classifier TextClassifier, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		classifier: classifier,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// CanAnalyzeTopics reports whether a fetcher is configured.
func (a *Analyzer) CanAnalyzeTopics() bool {
	return a.fetcher != nil
}

// AnalyzeTopic fetches a summary for topic and classifies it.
//
// The returned result is never nil. The error is non-nil only for an empty
// topic (ErrEmptyTopic, with StatusInvalidInput and no request sent), a
// missing fetcher, or cancellation. Fetch and classification failures are
// reported through result.Status.
func (a *Analyzer) AnalyzeTopic(ctx context.Context, topic string) (*model.AnalysisResult, error) {
	result := model.NewTopicResult(topic)
	if result.Topic == "" {
		result.MarkInvalidInput()
		a.finish(result)
		return result, ErrEmptyTopic
	}
	if a.fetcher == nil {
		return result, ErrNoFetcher
	}

	p := New(WithLogger(a.logger))
	p.AddSteps(
		NewFetchStep(a.fetcher, WithFetchLogger(a.logger)),
		a.classifyStep(),
	)

	err := p.Execute(ctx, result)
	a.finish(result)
	return result, err
}

// ClassifyText classifies text directly, without fetching. The result has no
// source attribution.
//
// The error is non-nil only for empty text (ErrEmptyText, with
// StatusInvalidInput). A classification failure is reported through
// result.Status.
func (a *Analyzer) ClassifyText(ctx context.Context, text string) (*model.AnalysisResult, error) {
	result := model.NewTextResult(strings.TrimSpace(text))
	if result.Input == "" {
		result.MarkInvalidInput()
		a.finish(result)
		return result, ErrEmptyText
	}

	p := New(WithLogger(a.logger))
	p.AddStep(a.classifyStep())

	err := p.Execute(ctx, result)
	a.finish(result)
	return result, err
}

func (a *Analyzer) classifyStep() *ClassifyStep {
	return NewClassifyStep(a.classifier,
		WithClassifyLogger(a.logger),
		WithClassifyMetrics(a.metrics),
	)
}

func (a *Analyzer) finish(result *model.AnalysisResult) {
	result.AnalyzedAt = a.now().UTC()
	a.metrics.ObserveAnalysis(result.Status)

	a.logger.Info("analysis finished",
		"topic", result.Topic,
		"status", result.Status.String(),
		"label", result.Label.String(),
	)
}
