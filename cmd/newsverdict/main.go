// Package main provides the entry point for the newsverdict CLI.
//
// newsverdict labels news text as REAL or FAKE with a TF-IDF linear
// classifier. Given a topic instead of text, it first asks a generative
// model for a search-grounded summary of a live article and classifies that.
//
// Usage:
//
//	newsverdict classify "text of an article"
//	newsverdict analyze "global economy"
//	newsverdict serve
//
// See --help for all available options.
package main

// main is the entry point for newsverdict.
func main() {
	Execute()
}
