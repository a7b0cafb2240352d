package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/newsverdict/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminals.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type SimpleWriter struct {
	baseWriter

	// verbose adds fetch details (model, grounding, attempts).
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with fetch details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one result.
func (w *SimpleWriter) Write(result *model.AnalysisResult) (int, error) {
	var sb strings.Builder
	w.writeResult(&sb, result)
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs every result followed by a summary.
func (w *SimpleWriter) WriteBatch(results []*model.AnalysisResult) (int, error) {
	var sb strings.Builder
	for _, r := range results {
		if r == nil {
			continue
		}
		w.writeResult(&sb, r)
	}

	s := Summarize(results)
	writeRule(&sb, "=")
	fmt.Fprintf(&sb, "Topics: %d  REAL: %d  FAKE: %d  Not found: %d  Errors: %d  Invalid: %d\n",
		s.Total(), s.Real, s.Fake, s.NotFound, s.Errors, s.Invalid)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeResult(sb *strings.Builder, result *model.AnalysisResult) {
	writeRule(sb, "=")
	if result.Topic != "" {
		fmt.Fprintf(sb, "Topic:    %s\n", result.Topic)
	}
	fmt.Fprintf(sb, "Verdict:  %s\n", verdictText(result))

	if result.Fetch != nil && result.Fetch.Found() {
		fmt.Fprintf(sb, "Source:   %s\n", result.Fetch.SourceTitle)
		fmt.Fprintf(sb, "URL:      %s\n", result.Fetch.SourceURL)
		writeRule(sb, "-")
		sb.WriteString(wrap(result.Fetch.Summary, ruleWidth))
		sb.WriteString("\n")
	}

	if w.verbose && result.Fetch != nil {
		writeRule(sb, "-")
		fmt.Fprintf(sb, "Model:    %s\n", result.Fetch.Model)
		fmt.Fprintf(sb, "Grounded: %t\n", result.Fetch.Grounded)
		fmt.Fprintf(sb, "Attempts: %d\n", result.Fetch.Attempts)
	}
	if w.verbose && !result.AnalyzedAt.IsZero() {
		fmt.Fprintf(sb, "Date:     %s\n", result.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	}
	sb.WriteString("\n")
}

func writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, ruleWidth))
	sb.WriteString("\n")
}

// wrap breaks text into lines of at most width bytes at word boundaries.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				sb.WriteString("\n")
				lineLen = 0
			} else {
				sb.WriteString(" ")
				lineLen++
			}
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
