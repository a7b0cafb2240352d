package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/newsverdict/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because the model types define their own stable JSON names
// and nothing here is performance sensitive.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is embedded in batch reports when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion embeds the newsverdict version in batch reports.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one result as a JSON object.
func (w *JSONWriter) Write(result *model.AnalysisResult) (int, error) {
	return w.writeJSON(result)
}

// BatchReport is the JSON document written for a batch.
type BatchReport struct {
	// Version is the newsverdict version that generated this report.
	Version string `json:"version,omitempty"`

	// Summary counts the outcomes.
	Summary BatchSummary `json:"summary"`

	// Results are in input order.
	Results []*model.AnalysisResult `json:"results"`
}

// WriteBatch outputs a BatchReport.
func (w *JSONWriter) WriteBatch(results []*model.AnalysisResult) (int, error) {
	kept := make([]*model.AnalysisResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return w.writeJSON(BatchReport{
		Version: w.version,
		Summary: Summarize(kept),
		Results: kept,
	})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
