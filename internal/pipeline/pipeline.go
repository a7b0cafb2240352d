package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/newsverdict/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the result assembled so far.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry their collaborators (fetcher, classifier)
// 2. It provides a Name() method for logging and debugging
type Step interface {
	// Do executes the step. Expected failures (no summary, classification
	// error) are recorded in result and Do returns nil. A returned error
	// aborts the pipeline.
	Do(ctx context.Context, result *model.AnalysisResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given steps and options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in sequence until the result is terminal.
//
// Design decision: A step that records a non-complete status (not found,
// classification error) ends the pipeline without an error. Only context
// cancellation and step errors are returned, so callers can tell a
// finished request from an aborted one.
func (p *Pipeline) Execute(ctx context.Context, result *model.AnalysisResult) error {
	for _, step := range p.steps {
		if result.Terminal() {
			p.logger.Debug("pipeline finished early",
				"skipped", step.Name(),
				"status", result.Status.String(),
			)
			return nil
		}

		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"topic", result.Topic,
		)

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"topic", result.Topic,
				"error", err,
			)
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
