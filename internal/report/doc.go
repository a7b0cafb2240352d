// Package report renders analysis results for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with tables, alerts and a verdict chart
//
// Design decision: We separate report writing from result data structures
// (which are in the model package) so that adding a format never touches
// the analyzer. Writers implement the Writer interface, allowing them to be
// used interchangeably and composed for multi-format output.
package report
