package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/newsverdict/internal/model"
)

// DefaultConcurrency is the number of concurrent requests when
// WithConcurrency is not given.
const DefaultConcurrency = 4

// BatchProcessor analyzes many topics concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Analyzer because:
// 1. It keeps the Analyzer a single-request, synchronous operation
// 2. Concurrency belongs to the host (CLI list mode), not to the core
type BatchProcessor struct {
	// analyzer handles each topic independently.
	analyzer *Analyzer

	// concurrency is the maximum number of concurrent requests.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent requests.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(analyzer *Analyzer, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes topics concurrently and returns one result per
// topic, in input order. A topic that fails validation yields a result with
// StatusInvalidInput rather than aborting the batch.
//
// The error is non-nil only when ctx is cancelled; topics not started by
// then have a nil result.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, topics []string) ([]*model.AnalysisResult, error) {
	results := make([]*model.AnalysisResult, len(topics))

	err := bp.ProcessBatchWithCallback(ctx, topics, func(result *model.AnalysisResult, index int) {
		// Each goroutine writes its own index.
		results[index] = result
	})

	return results, err
}

// ProcessBatchWithCallback analyzes topics and calls callback as each one
// finishes. The callback is called from worker goroutines and must be safe
// for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	topics []string,
	callback func(result *model.AnalysisResult, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_topics", len(topics),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, topic := range topics {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := bp.analyzer.AnalyzeTopic(ctx, topic)
			if err != nil && !IsValidationError(err) {
				bp.logger.Warn("topic analysis aborted",
					"topic", topic,
					"index", i+1,
					"error", err,
				)
				return err
			}

			callback(result, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_topics", len(topics),
		"elapsed", time.Since(startTime),
	)

	return err
}
