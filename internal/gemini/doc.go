// Package gemini fetches a short, web-grounded news summary for a topic from
// the Gemini generateContent endpoint.
//
// The endpoint is unreliable in two specific ways: the google_search tool is
// refused (403) for some keys and regions, and model identifiers are retired
// (404) without notice. Fetcher handles both with a fallback ladder: an
// ordered list of Policy values, each mapping the previous attempt and its
// outcome to either the next attempt or a terminal failure.
//
// Any failure the ladder cannot recover from, including a successful
// response without a usable text part, is reported as ErrNoSummary. A fetch
// failure is never fatal to the process.
package gemini
