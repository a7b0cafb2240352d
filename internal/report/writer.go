package report

import (
	"io"

	"github.com/nao1215/newsverdict/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. The classify and analyze commands write single results;
// list mode writes a batch.
type Writer interface {
	// Write outputs one analysis result.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.AnalysisResult) (int, error)

	// WriteBatch outputs the results of a batch in input order.
	WriteBatch(results []*model.AnalysisResult) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.AnalysisResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteBatch outputs the batch to all configured Writers.
func (m *MultiWriter) WriteBatch(results []*model.AnalysisResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteBatch(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// verdictText is the one-line verdict shared by the text formats.
func verdictText(result *model.AnalysisResult) string {
	switch result.Status {
	case model.StatusComplete:
		return "The news is " + result.Label.String()
	case model.StatusNotFound:
		return "No summary found for this topic"
	case model.StatusClassificationError:
		return "Classification failed: " + result.Message
	case model.StatusInvalidInput:
		return "Please provide input"
	default:
		return result.Status.String()
	}
}

// BatchSummary counts batch outcomes.
type BatchSummary struct {
	Real     int `json:"real"`
	Fake     int `json:"fake"`
	NotFound int `json:"not_found"`
	Errors   int `json:"errors"`
	Invalid  int `json:"invalid"`
}

// Summarize counts the outcomes in results. Nil results are skipped.
func Summarize(results []*model.AnalysisResult) BatchSummary {
	var s BatchSummary
	for _, r := range results {
		if r == nil {
			continue
		}
		switch r.Status {
		case model.StatusComplete:
			if r.Label == model.LabelReal {
				s.Real++
			} else {
				s.Fake++
			}
		case model.StatusNotFound:
			s.NotFound++
		case model.StatusClassificationError:
			s.Errors++
		case model.StatusInvalidInput:
			s.Invalid++
		}
	}
	return s
}

// Total returns the number of counted results.
func (s BatchSummary) Total() int {
	return s.Real + s.Fake + s.NotFound + s.Errors + s.Invalid
}
