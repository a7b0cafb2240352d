package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nao1215/newsverdict/internal/config"
	"github.com/nao1215/newsverdict/internal/metrics"
	"github.com/nao1215/newsverdict/internal/model"
)

const (
	// DefaultPrompt asks for a neutral summary. The %s verb is the topic.
	DefaultPrompt = "Find the most recent news article about %s and summarize it in a neutral, " +
		"factual tone in no more than five sentences. Do not add opinions, speculation or commentary."

	// PlaceholderURL is reported as the source when the response carries no
	// grounding attribution.
	PlaceholderURL = "https://news.google.com"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20

	// maxErrorMessage caps the API error message kept in a StatusError.
	maxErrorMessage = 200
)

// PlaceholderTitle is reported as the source title when the response carries
// no grounding attribution.
func PlaceholderTitle(topic string) string {
	return "Latest news on " + topic
}

// Fetcher retrieves grounded summaries. It holds no per-request state and is
// safe for concurrent use.
type Fetcher struct {
	client     *http.Client
	endpoint   string
	apiVersion string
	apiKey     string
	model      string
	grounding  bool
	prompt     string
	ladder     *Ladder
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client. The client's timeout bounds each
// attempt.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithMetrics records every attempt on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// WithLadder replaces the default fallback ladder.
func WithLadder(l *Ladder) Option {
	return func(f *Fetcher) {
		f.ladder = l
	}
}

// NewFetcher creates a Fetcher from cfg. It fails with ErrMissingAPIKey when
// no key is configured, so that no request is ever sent without one.
func NewFetcher(cfg *config.Config, opts ...Option) (*Fetcher, error) {
	if err := cfg.ValidateFetch(); err != nil {
		return nil, err
	}

	prompt := cfg.PromptTemplate
	if prompt == "" {
		prompt = DefaultPrompt
	}
	if strings.Count(prompt, "%s") != 1 || strings.Count(prompt, "%") != 1 {
		return nil, ErrInvalidPrompt
	}

	f := &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiVersion: cfg.APIVersion,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		grounding:  cfg.Grounding,
		prompt:     prompt,
		ladder:     NewLadder(cfg.FallbackModel, cfg.Grounding),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f, nil
}

// Fetch returns a summary of the latest news on topic.
//
// On failure the returned FetchResult has no summary and the error wraps
// ErrNoSummary; the cause (a *StatusError, a transport error) is wrapped as
// well. An empty topic returns ErrEmptyTopic without sending a request.
func (f *Fetcher) Fetch(ctx context.Context, topic string) (model.FetchResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return model.FetchResult{}, ErrEmptyTopic
	}

	prompt := fmt.Sprintf(f.prompt, topic)
	attempt := Attempt{Model: f.model, Grounding: f.grounding}

	for n := 1; ; n++ {
		f.logger.Debug("requesting summary",
			"model", attempt.Model,
			"grounding", attempt.Grounding,
			"attempt", n,
		)

		start := time.Now()
		result, err := f.try(ctx, attempt, prompt, topic)
		f.metrics.ObserveFetchAttempt(attempt.Model, attempt.Grounding, outcomeLabel(err), time.Since(start))

		if err == nil {
			result.Model = attempt.Model
			result.Grounded = attempt.Grounding
			result.Attempts = n
			return result, nil
		}

		decision, policy := f.ladder.Next(n, attempt, Outcome{StatusCode: statusCode(err), Err: err})
		f.logger.Warn("summary attempt failed",
			"model", attempt.Model,
			"grounding", attempt.Grounding,
			"attempt", n,
			"policy", policy,
			"retry", decision.Retry,
			"error", err,
		)

		if !decision.Retry {
			return model.FetchResult{Model: attempt.Model, Grounded: attempt.Grounding, Attempts: n}, noSummary(err)
		}
		attempt = decision.Next
	}
}

// try sends one request and extracts the result.
func (f *Fetcher) try(ctx context.Context, attempt Attempt, prompt, topic string) (model.FetchResult, error) {
	body, err := f.generate(ctx, attempt, prompt)
	if err != nil {
		return model.FetchResult{}, err
	}
	return extract(body, topic)
}

// generate performs the HTTP call and returns the raw 2xx body.
func (f *Fetcher) generate(ctx context.Context, attempt Attempt, prompt string) ([]byte, error) {
	payload, err := json.Marshal(newGenerateRequest(prompt, attempt.Grounding))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.requestURL(attempt.Model), bytes.NewReader(payload))
	if err != nil {
		return nil, redactURLError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, redactURLError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, body)
	}
	return body, nil
}

// requestURL builds {endpoint}/{version}/models/{model}:generateContent?key=...
func (f *Fetcher) requestURL(modelID string) string {
	q := url.Values{}
	q.Set("key", f.apiKey)
	return fmt.Sprintf("%s/%s/models/%s:generateContent?%s",
		f.endpoint, f.apiVersion, url.PathEscape(modelID), q.Encode())
}

// newStatusError builds a StatusError from an error response body.
func newStatusError(code int, body []byte) *StatusError {
	se := &StatusError{Code: code}

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		se.Status = apiErr.Error.Status
		se.Message = apiErr.Error.Message
	}
	if len(se.Message) > maxErrorMessage {
		cut := maxErrorMessage
		for cut > 0 && !utf8.RuneStart(se.Message[cut]) {
			cut--
		}
		se.Message = se.Message[:cut] + "..."
	}
	return se
}

// extract parses a success body. The summary is the first candidate's first
// text part; anything less is ErrNoSummary.
func extract(body []byte, topic string) (model.FetchResult, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.FetchResult{}, fmt.Errorf("%w: undecodable response: %w", ErrNoSummary, err)
	}
	if len(resp.Candidates) == 0 {
		return model.FetchResult{}, fmt.Errorf("%w: response has no candidates", ErrNoSummary)
	}

	candidate := resp.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return model.FetchResult{}, fmt.Errorf("%w: candidate has no parts", ErrNoSummary)
	}
	summary := strings.TrimSpace(candidate.Content.Parts[0].Text)
	if summary == "" {
		return model.FetchResult{}, fmt.Errorf("%w: candidate text is empty", ErrNoSummary)
	}

	result := model.FetchResult{
		Summary:     summary,
		SourceTitle: PlaceholderTitle(topic),
		SourceURL:   PlaceholderURL,
	}
	if src := candidate.GroundingMetadata.source(); src != nil {
		if src.Title != "" {
			result.SourceTitle = src.Title
		}
		if src.URI != "" {
			result.SourceURL = src.URI
		}
		result.Attributed = true
	}
	return result, nil
}

// noSummary wraps err in ErrNoSummary unless it already is one.
func noSummary(err error) error {
	if errors.Is(err, ErrNoSummary) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNoSummary, err)
}

// redactURLError removes the API key from the URL embedded in *url.Error,
// which net/http includes in transport error messages.
func redactURLError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	if u, perr := url.Parse(ue.URL); perr == nil {
		q := u.Query()
		if q.Has("key") {
			q.Set("key", "REDACTED")
			u.RawQuery = q.Encode()
		}
		ue.URL = u.String()
	}
	return err
}

// outcomeLabel maps an attempt error to a metrics outcome.
func outcomeLabel(err error) string {
	switch code := statusCode(err); {
	case err == nil:
		return metrics.OutcomeSuccess
	case code == http.StatusForbidden:
		return metrics.OutcomeDenied
	case code == http.StatusNotFound:
		return metrics.OutcomeNotFound
	case code != 0:
		return metrics.OutcomeHTTPError
	case errors.Is(err, ErrNoSummary):
		return metrics.OutcomeNoSummary
	default:
		return metrics.OutcomeTransport
	}
}
