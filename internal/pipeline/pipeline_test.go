package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/newsverdict/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, result *model.AnalysisResult) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, result *model.AnalysisResult) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, result)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("creates empty pipeline", func(t *testing.T) {
		t.Parallel()

		if got := New().StepCount(); got != 0 {
			t.Errorf("expected 0 steps, got %d", got)
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

		names := p.StepNames()
		expected := []string{"first", "second", "third"}
		if len(names) != len(expected) {
			t.Fatalf("expected %d names, got %d", len(expected), len(names))
		}
		for i, name := range names {
			if name != expected[i] {
				t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
			}
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *model.AnalysisResult) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New()
		p.AddSteps(record("a"), record("b"))

		if err := p.Execute(context.Background(), model.NewTopicResult("topic")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "a" || order[1] != "b" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("stops once the result is terminal", func(t *testing.T) {
		t.Parallel()

		notFound := &mockStep{name: "fetch", doFunc: func(_ context.Context, r *model.AnalysisResult) error {
			r.MarkNotFound()
			return nil
		}}
		classify := &mockStep{name: "classify"}

		p := New()
		p.AddSteps(notFound, classify)

		if err := p.Execute(context.Background(), model.NewTopicResult("topic")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if classify.callCount != 0 {
			t.Error("expected classify step to be skipped")
		}
	})

	t.Run("stops once a label is set", func(t *testing.T) {
		t.Parallel()

		labeled := &mockStep{name: "label", doFunc: func(_ context.Context, r *model.AnalysisResult) error {
			r.Label = model.LabelReal
			return nil
		}}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(labeled, after)

		if err := p.Execute(context.Background(), model.NewTextResult("text")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after.callCount != 0 {
			t.Error("expected no step to run after labeling")
		}
	})

	t.Run("returns step errors", func(t *testing.T) {
		t.Parallel()

		errStep := errors.New("step failed")
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.AnalysisResult) error {
			return errStep
		}}
		next := &mockStep{name: "next"}

		p := New()
		p.AddSteps(failing, next)

		err := p.Execute(context.Background(), model.NewTopicResult("topic"))
		if !errors.Is(err, errStep) {
			t.Errorf("expected step error, got %v", err)
		}
		if next.callCount != 0 {
			t.Error("expected pipeline to stop after a step error")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "step"}
		p := New()
		p.AddStep(step)

		if err := p.Execute(ctx, model.NewTopicResult("topic")); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected no step to run after cancellation")
		}
	})
}
