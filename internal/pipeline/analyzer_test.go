package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/newsverdict/internal/config"
	"github.com/nao1215/newsverdict/internal/gemini"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/textmodel"
)

const (
	testVectorizerJSON = `{
		"vocabulary": {"markets": 0, "rose": 1, "today": 2, "aliens": 3, "shocking": 4},
		"idf": [1, 1, 1, 1, 1]
	}`
	testClassifierJSON = `{"coef": [[1, 1, 0.5, -2, -2]], "intercept": [0], "classes": [0, 1]}`

	groundedResponse = `{"candidates":[{"content":{"parts":[{"text":"Markets rose today."}]},
		"groundingMetadata":{"groundingAttributions":[{"web":{"title":"Market News","uri":"http://example.com"}}]}}]}`
)

var fixedTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestEngine(t *testing.T) *textmodel.Engine {
	t.Helper()

	engine, err := textmodel.BuildEngine([]byte(testVectorizerJSON), []byte(testClassifierJSON))
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return engine
}

// newEndpoint serves body with status for every request and counts requests.
func newEndpoint(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestAnalyzer(t *testing.T, endpoint string, classifier TextClassifier) *Analyzer {
	t.Helper()

	cfg := config.NewConfig()
	cfg.APIKey = "test-key"
	cfg.Endpoint = endpoint
	cfg.Timeout = 5 * time.Second

	fetcher, err := gemini.NewFetcher(cfg)
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return NewAnalyzer(classifier,
		WithFetcher(fetcher),
		WithClock(func() time.Time { return fixedTime }),
	)
}

func TestAnalyzeTopic(t *testing.T) {
	t.Parallel()

	t.Run("global economy end to end", func(t *testing.T) {
		t.Parallel()

		engine := newTestEngine(t)
		srv, calls := newEndpoint(t, http.StatusOK, groundedResponse)
		a := newTestAnalyzer(t, srv.URL, engine)

		result, err := a.AnalyzeTopic(context.Background(), "global economy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want, err := engine.Classify("Markets rose today.")
		if err != nil {
			t.Fatalf("failed to classify directly: %v", err)
		}

		if result.Status != model.StatusComplete {
			t.Errorf("expected complete, got %s", result.Status)
		}
		if result.Fetch == nil || result.Fetch.Summary != "Markets rose today." {
			t.Fatalf("unexpected fetch %+v", result.Fetch)
		}
		if result.SourceTitle() != "Market News" || result.SourceURL() != "http://example.com" {
			t.Errorf("unexpected source %q %q", result.SourceTitle(), result.SourceURL())
		}
		if result.Label != want || result.Label != model.LabelReal {
			t.Errorf("label = %s, want %s", result.Label, want)
		}
		if !result.AnalyzedAt.Equal(fixedTime) {
			t.Errorf("unexpected time %v", result.AnalyzedAt)
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 request, got %d", calls.Load())
		}
	})

	t.Run("whitespace topic makes no request", func(t *testing.T) {
		t.Parallel()

		srv, calls := newEndpoint(t, http.StatusOK, groundedResponse)
		a := newTestAnalyzer(t, srv.URL, newTestEngine(t))

		result, err := a.AnalyzeTopic(context.Background(), "   ")
		if !errors.Is(err, ErrEmptyTopic) {
			t.Fatalf("expected ErrEmptyTopic, got %v", err)
		}
		if !IsValidationError(err) {
			t.Error("expected a validation error")
		}
		if result.Status != model.StatusInvalidInput || result.Message != model.MessageInvalidInput {
			t.Errorf("unexpected result %+v", result)
		}
		if calls.Load() != 0 {
			t.Errorf("expected no requests, got %d", calls.Load())
		}
	})

	t.Run("fetch failure is not found without label", func(t *testing.T) {
		t.Parallel()

		srv, _ := newEndpoint(t, http.StatusInternalServerError, `{}`)
		a := newTestAnalyzer(t, srv.URL, newTestEngine(t))

		result, err := a.AnalyzeTopic(context.Background(), "global economy")
		if err != nil {
			t.Fatalf("fetch failure must not be returned as an error: %v", err)
		}
		if result.Status != model.StatusNotFound || result.Label != model.LabelUnknown {
			t.Errorf("unexpected result %+v", result)
		}
		if result.Input != "" {
			t.Errorf("expected no input, got %q", result.Input)
		}
	})

	t.Run("classification failure keeps fetch data", func(t *testing.T) {
		t.Parallel()

		srv, _ := newEndpoint(t, http.StatusOK, groundedResponse)
		broken := classifierFunc(func(string) (model.Label, error) { panic("corrupt model") })
		a := newTestAnalyzer(t, srv.URL, broken)

		result, err := a.AnalyzeTopic(context.Background(), "global economy")
		if err != nil {
			t.Fatalf("classification failure must not be returned as an error: %v", err)
		}
		if result.Status != model.StatusClassificationError {
			t.Errorf("expected classification error, got %s", result.Status)
		}
		if result.Message == model.MessageNotFound {
			t.Error("classification error must be distinct from not found")
		}
		if result.Input != "Markets rose today." || result.SourceTitle() != "Market News" {
			t.Errorf("fetch data was not preserved: %+v", result)
		}
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		t.Parallel()

		srv, _ := newEndpoint(t, http.StatusOK, groundedResponse)
		a := newTestAnalyzer(t, srv.URL, newTestEngine(t))

		first, err := a.AnalyzeTopic(context.Background(), "global economy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := a.AnalyzeTopic(context.Background(), "global economy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first == second {
			t.Fatal("expected a fresh result per call")
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("results differ:\n%+v\n%+v", first, second)
		}
	})

	t.Run("no fetcher", func(t *testing.T) {
		t.Parallel()

		a := NewAnalyzer(newTestEngine(t))
		if a.CanAnalyzeTopics() {
			t.Error("expected topic analysis to be unavailable")
		}
		if _, err := a.AnalyzeTopic(context.Background(), "topic"); !errors.Is(err, ErrNoFetcher) {
			t.Errorf("expected ErrNoFetcher, got %v", err)
		}
	})
}

func TestClassifyText(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(newTestEngine(t), WithClock(func() time.Time { return fixedTime }))

	t.Run("labels text without source", func(t *testing.T) {
		t.Parallel()

		result, err := a.ClassifyText(context.Background(), "  Shocking aliens!  ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Label != model.LabelFake || result.Status != model.StatusComplete {
			t.Errorf("unexpected result %+v", result)
		}
		if result.Fetch != nil || result.SourceTitle() != "" || result.SourceURL() != "" {
			t.Errorf("expected no source attribution, got %+v", result.Fetch)
		}
		if result.Input != "Shocking aliens!" {
			t.Errorf("expected trimmed input, got %q", result.Input)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		first, _ := a.ClassifyText(context.Background(), "markets rose")
		second, _ := a.ClassifyText(context.Background(), "markets rose")
		if !reflect.DeepEqual(first, second) {
			t.Errorf("results differ: %+v %+v", first, second)
		}
	})

	t.Run("empty text never reaches the classifier", func(t *testing.T) {
		t.Parallel()

		var called atomic.Bool
		guarded := NewAnalyzer(classifierFunc(func(string) (model.Label, error) {
			called.Store(true)
			return model.LabelReal, nil
		}))

		for _, text := range []string{"", " ", "\n\t"} {
			result, err := guarded.ClassifyText(context.Background(), text)
			if !errors.Is(err, ErrEmptyText) {
				t.Errorf("ClassifyText(%q) error = %v, want ErrEmptyText", text, err)
			}
			if result.Status != model.StatusInvalidInput {
				t.Errorf("ClassifyText(%q) status = %s", text, result.Status)
			}
		}
		if called.Load() {
			t.Error("classifier was called for empty text")
		}
	})
}
