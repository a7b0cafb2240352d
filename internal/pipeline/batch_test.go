package pipeline

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/nao1215/newsverdict/internal/model"
)

func TestNewBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("default concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(NewAnalyzer(newTestEngine(t)))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})

	t.Run("WithConcurrency ignores non-positive values", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(NewAnalyzer(newTestEngine(t)), WithConcurrency(0))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		bp = NewBatchProcessor(NewAnalyzer(newTestEngine(t)), WithConcurrency(2))
		if bp.concurrency != 2 {
			t.Errorf("expected 2, got %d", bp.concurrency)
		}
	})
}

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		srv, calls := newEndpoint(t, http.StatusOK, groundedResponse)
		a := newTestAnalyzer(t, srv.URL, newTestEngine(t))
		bp := NewBatchProcessor(a, WithConcurrency(2))

		topics := []string{"economy", "  ", "markets", "science"}
		results, err := bp.ProcessBatch(context.Background(), topics)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(topics) {
			t.Fatalf("expected %d results, got %d", len(topics), len(results))
		}
		for i, r := range results {
			if r == nil {
				t.Fatalf("result %d is nil", i)
			}
		}
		if results[0].Topic != "economy" || results[2].Topic != "markets" || results[3].Topic != "science" {
			t.Errorf("unexpected order: %q %q %q", results[0].Topic, results[2].Topic, results[3].Topic)
		}
		if results[1].Status != model.StatusInvalidInput {
			t.Errorf("expected invalid input for blank topic, got %s", results[1].Status)
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 requests, got %d", calls.Load())
		}
	})

	t.Run("callback receives every result", func(t *testing.T) {
		t.Parallel()

		srv, _ := newEndpoint(t, http.StatusOK, groundedResponse)
		bp := NewBatchProcessor(newTestAnalyzer(t, srv.URL, newTestEngine(t)))

		var (
			mu   sync.Mutex
			seen = make(map[int]model.Label)
		)
		err := bp.ProcessBatchWithCallback(context.Background(), []string{"a", "b", "c"},
			func(r *model.AnalysisResult, i int) {
				mu.Lock()
				defer mu.Unlock()
				seen[i] = r.Label
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seen) != 3 {
			t.Errorf("expected 3 callbacks, got %d", len(seen))
		}
		for i, label := range seen {
			if label != model.LabelReal {
				t.Errorf("result %d: expected REAL, got %s", i, label)
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		srv, _ := newEndpoint(t, http.StatusOK, groundedResponse)
		bp := NewBatchProcessor(newTestAnalyzer(t, srv.URL, newTestEngine(t)))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := bp.ProcessBatch(ctx, []string{"a", "b"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
