package model

// FetchResult is the outcome of fetching a grounded summary for a topic.
//
// A result is either found (Summary is non-empty) or not found (Summary is
// empty). An empty summary is never a successful fetch: a response whose
// text part is missing or blank is reported as not found.
type FetchResult struct {
	// Summary is the generated summary of a live article on the topic.
	Summary string `json:"summary,omitempty"`

	// SourceTitle is the title of the first grounding source, or a
	// placeholder derived from the topic when the response carries none.
	SourceTitle string `json:"source_title,omitempty"`

	// SourceURL is the URI of the first grounding source, or a default URL
	// when the response carries none.
	SourceURL string `json:"source_url,omitempty"`

	// Model is the model identifier that produced the summary.
	Model string `json:"model,omitempty"`

	// Grounded reports whether the successful request asked for web search
	// grounding.
	Grounded bool `json:"grounded"`

	// Attributed reports whether SourceTitle and SourceURL came from the
	// response rather than from placeholders.
	Attributed bool `json:"attributed"`

	// Attempts is the number of requests issued to the endpoint.
	Attempts int `json:"attempts"`
}

// Found reports whether a summary is available.
func (r FetchResult) Found() bool {
	return r.Summary != ""
}
