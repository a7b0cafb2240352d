package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/newsverdict/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and GitHub-flavored markdown alerts
// 3. Mermaid charts for batch summaries
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one result in Markdown format.
func (w *MarkdownWriter) Write(result *model.AnalysisResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("newsverdict Report")
	md.PlainText("")
	w.writeResult(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs a summary table and chart followed by every result.
func (w *MarkdownWriter) WriteBatch(results []*model.AnalysisResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("newsverdict Batch Report")
	md.PlainText("")

	s := Summarize(results)
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		rows = append(rows, []string{r.Topic, statusText(r), truncateString(r.SourceTitle(), 60)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Topic", "Verdict", "Source"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.Total() > 0 {
		w.writePieChart(md, s)
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		md.H2(r.Topic)
		md.PlainText("")
		w.writeResult(md, r)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeResult writes the property table, the verdict alert and the summary.
func (w *MarkdownWriter) writeResult(md *markdown.Markdown, result *model.AnalysisResult) {
	rows := [][]string{}
	if result.Topic != "" {
		rows = append(rows, []string{"Topic", result.Topic})
	}
	rows = append(rows, []string{"Verdict", statusText(result)})
	if result.Fetch != nil && result.Fetch.Found() {
		rows = append(rows,
			[]string{"Source", result.Fetch.SourceTitle},
			[]string{"URL", result.Fetch.SourceURL},
			[]string{"Model", "`" + result.Fetch.Model + "`"},
			[]string{"Grounded", strconv.FormatBool(result.Fetch.Grounded)},
		)
	}
	if !result.AnalyzedAt.IsZero() {
		rows = append(rows, []string{"Analyzed", result.AnalyzedAt.Format("2006-01-02 15:04:05 MST")})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeAlert(md, result)

	if result.Fetch != nil && result.Fetch.Found() {
		md.Details("Summary", result.Fetch.Summary)
		md.PlainText("")
	}
}

// writeAlert writes an alert matching the verdict.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.AnalysisResult) {
	switch result.Status {
	case model.StatusComplete:
		if result.Label == model.LabelReal {
			md.Tip("The news is classified as REAL.")
		} else {
			md.Cautionf("The news is classified as %s.", result.Label)
		}
	case model.StatusNotFound:
		md.Warningf("No summary found for %q.", result.Topic)
	case model.StatusClassificationError:
		md.Importantf("Classification failed: %s.", result.Message)
	default:
		md.Note("Please provide input.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of batch outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s BatchSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdicts"),
		piechart.WithShowData(true),
	)

	slices := []struct {
		label string
		count int
	}{
		{"REAL", s.Real},
		{"FAKE", s.Fake},
		{"Not found", s.NotFound},
		{"Error", s.Errors},
		{"Invalid", s.Invalid},
	}
	for _, sl := range slices {
		if sl.count > 0 {
			chart.LabelAndIntValue(sl.label, uint64(sl.count))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [newsverdict](https://github.com/nao1215/newsverdict)*")
}

// statusText returns a short verdict with an indicator.
func statusText(result *model.AnalysisResult) string {
	switch result.Status {
	case model.StatusComplete:
		if result.Label == model.LabelReal {
			return "✅ REAL"
		}
		return "❌ " + result.Label.String()
	case model.StatusNotFound:
		return "⚠️ Not found"
	case model.StatusClassificationError:
		return "💥 Analysis error"
	default:
		return "⚪ Invalid input"
	}
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
