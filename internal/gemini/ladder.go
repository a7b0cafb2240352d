package gemini

import "net/http"

// MaxAttempts bounds the number of requests a single fetch may send.
// The longest path through the default policies is
// grounded primary -> ungrounded primary -> grounded fallback -> ungrounded fallback.
const MaxAttempts = 4

// Attempt describes one request on the ladder.
type Attempt struct {
	// Model is the model identifier in the request path.
	Model string

	// Grounding requests the google_search tool.
	Grounding bool
}

// Outcome is the result of an attempt, reduced to what policies need.
type Outcome struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the failure, nil on success.
	Err error
}

// Decision is a policy verdict.
type Decision struct {
	// Retry reports whether Next should be attempted. When false the fetch
	// ends with the last outcome's error.
	Retry bool

	// Next is the attempt to make when Retry is true.
	Next Attempt
}

// Policy maps a failed attempt to the next step.
// Decide returns ok == false when the policy does not apply to the outcome,
// in which case the ladder asks the next policy.
//
// Policies must be pure: the same inputs always produce the same decision.
type Policy interface {
	Decide(prev Attempt, out Outcome) (d Decision, ok bool)
	Name() string
}

// ToolDeniedPolicy retries the same model without grounding when a grounded
// request is refused with 403.
type ToolDeniedPolicy struct{}

// Decide implements Policy.
func (ToolDeniedPolicy) Decide(prev Attempt, out Outcome) (Decision, bool) {
	if out.StatusCode != http.StatusForbidden || !prev.Grounding {
		return Decision{}, false
	}
	return Decision{Retry: true, Next: Attempt{Model: prev.Model, Grounding: false}}, true
}

// Name implements Policy.
func (ToolDeniedPolicy) Name() string { return "tool-denied" }

// ModelUnavailablePolicy switches to FallbackModel when the requested model
// is not found. Grounding is requested again if it was configured, since
// tool availability is independent of the model.
type ModelUnavailablePolicy struct {
	FallbackModel string
	Grounding     bool
}

// Decide implements Policy.
func (p ModelUnavailablePolicy) Decide(prev Attempt, out Outcome) (Decision, bool) {
	if out.StatusCode != http.StatusNotFound {
		return Decision{}, false
	}
	if p.FallbackModel == "" || prev.Model == p.FallbackModel {
		return Decision{}, false
	}
	return Decision{Retry: true, Next: Attempt{Model: p.FallbackModel, Grounding: p.Grounding}}, true
}

// Name implements Policy.
func (ModelUnavailablePolicy) Name() string { return "model-unavailable" }

// TransportFailurePolicy ends the fetch. It applies to every outcome and is
// always last.
type TransportFailurePolicy struct{}

// Decide implements Policy.
func (TransportFailurePolicy) Decide(Attempt, Outcome) (Decision, bool) {
	return Decision{Retry: false}, true
}

// Name implements Policy.
func (TransportFailurePolicy) Name() string { return "transport-failure" }

// Ladder is an ordered list of policies.
type Ladder struct {
	policies    []Policy
	maxAttempts int
}

// NewLadder returns the default ladder: tool denied, then model unavailable,
// then transport failure.
func NewLadder(fallbackModel string, grounding bool) *Ladder {
	return NewLadderWithPolicies(MaxAttempts,
		ToolDeniedPolicy{},
		ModelUnavailablePolicy{FallbackModel: fallbackModel, Grounding: grounding},
		TransportFailurePolicy{},
	)
}

// NewLadderWithPolicies returns a ladder with custom policies. A ladder
// without a catch-all policy ends the fetch when no policy applies.
func NewLadderWithPolicies(maxAttempts int, policies ...Policy) *Ladder {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Ladder{policies: policies, maxAttempts: maxAttempts}
}

// Next decides what follows attempt number n (1-based) that ended with out.
// It also returns the name of the deciding policy, or "" when none applied.
// Successful outcomes never retry.
func (l *Ladder) Next(n int, prev Attempt, out Outcome) (Decision, string) {
	if out.Err == nil || n >= l.maxAttempts {
		return Decision{}, ""
	}
	for _, p := range l.policies {
		if d, ok := p.Decide(prev, out); ok {
			if d.Retry && d.Next == prev {
				// A policy that repeats the same request would loop.
				return Decision{}, p.Name()
			}
			return d, p.Name()
		}
	}
	return Decision{}, ""
}

// MaxAttempts returns the request bound of the ladder.
func (l *Ladder) MaxAttempts() int {
	return l.maxAttempts
}
