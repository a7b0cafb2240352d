package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/textmodel"
)

// stubFetcher returns a fixed result and counts calls.
type stubFetcher struct {
	result model.FetchResult
	err    error
	calls  atomic.Int32
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (model.FetchResult, error) {
	f.calls.Add(1)
	return f.result, f.err
}

// classifierFunc adapts a function to TextClassifier.
type classifierFunc func(text string) (model.Label, error)

func (f classifierFunc) Classify(text string) (model.Label, error) {
	return f(text)
}

func TestFetchStepDo(t *testing.T) {
	t.Parallel()

	t.Run("found summary becomes the input", func(t *testing.T) {
		t.Parallel()

		f := &stubFetcher{result: model.FetchResult{Summary: "Markets rose today.", SourceTitle: "T", SourceURL: "U"}}
		result := model.NewTopicResult("economy")

		if err := NewFetchStep(f).Do(context.Background(), result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Input != "Markets rose today." || result.Status != model.StatusComplete {
			t.Errorf("unexpected result %+v", result)
		}
		if result.SourceTitle() != "T" || result.SourceURL() != "U" {
			t.Errorf("unexpected source %q %q", result.SourceTitle(), result.SourceURL())
		}
	})

	t.Run("fetch error marks not found", func(t *testing.T) {
		t.Parallel()

		f := &stubFetcher{result: model.FetchResult{Attempts: 2}, err: errors.New("no summary found")}
		result := model.NewTopicResult("economy")

		if err := NewFetchStep(f).Do(context.Background(), result); err != nil {
			t.Fatalf("expected fetch failure to be recorded, got %v", err)
		}
		if result.Status != model.StatusNotFound || result.Message != model.MessageNotFound {
			t.Errorf("unexpected status %s %q", result.Status, result.Message)
		}
		if result.Label != model.LabelUnknown {
			t.Errorf("expected no label, got %s", result.Label)
		}
		if result.Fetch == nil || result.Fetch.Attempts != 2 {
			t.Errorf("expected fetch metadata to be kept, got %+v", result.Fetch)
		}
	})

	t.Run("empty summary without error marks not found", func(t *testing.T) {
		t.Parallel()

		result := model.NewTopicResult("economy")
		if err := NewFetchStep(&stubFetcher{}).Do(context.Background(), result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != model.StatusNotFound {
			t.Errorf("expected not found, got %s", result.Status)
		}
	})
}

func TestClassifyStepDo(t *testing.T) {
	t.Parallel()

	fetched := &model.FetchResult{Summary: "summary", SourceTitle: "Title", SourceURL: "http://example.com"}

	tests := []struct {
		name       string
		classifier TextClassifier
		wantStatus model.Status
		wantLabel  model.Label
	}{
		{
			name:       "label is recorded",
			classifier: classifierFunc(func(string) (model.Label, error) { return model.LabelFake, nil }),
			wantStatus: model.StatusComplete,
			wantLabel:  model.LabelFake,
		},
		{
			name: "error becomes classification error",
			classifier: classifierFunc(func(string) (model.Label, error) {
				return model.LabelUnknown, textmodel.ErrClassification
			}),
			wantStatus: model.StatusClassificationError,
		},
		{
			name:       "panic becomes classification error",
			classifier: classifierFunc(func(string) (model.Label, error) { panic("index out of range") }),
			wantStatus: model.StatusClassificationError,
		},
		{
			name:       "invalid label becomes classification error",
			classifier: classifierFunc(func(string) (model.Label, error) { return model.Label(42), nil }),
			wantStatus: model.StatusClassificationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := model.NewTopicResult("topic")
			fetch := *fetched
			result.Fetch = &fetch
			result.Input = fetch.Summary

			if err := NewClassifyStep(tt.classifier).Do(context.Background(), result); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", result.Status, tt.wantStatus)
			}
			if result.Label != tt.wantLabel {
				t.Errorf("label = %s, want %s", result.Label, tt.wantLabel)
			}
			if tt.wantStatus == model.StatusClassificationError {
				if result.Message != model.MessageClassificationError {
					t.Errorf("unexpected message %q", result.Message)
				}
				if result.Input != "summary" || result.SourceTitle() != "Title" || result.SourceURL() != "http://example.com" {
					t.Errorf("fetch data was not preserved: %+v", result)
				}
			}
		})
	}
}
