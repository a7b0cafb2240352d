package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/pipeline"
	"github.com/nao1215/newsverdict/internal/report"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify news text as REAL or FAKE",
		Long: `Classify labels the given text as REAL or FAKE using the local model
artifacts. No network request is made unless --url is used.

Examples:
  # Classify text given as arguments
  newsverdict classify "Scientists confirm the moon is made of cheese"

  # Classify a text file, or stdin
  newsverdict classify --file article.txt
  cat article.txt | newsverdict classify --file -

  # Classify a saved web page
  newsverdict classify --file page.html --html

  # Classify the main article of a live web page
  newsverdict classify --url https://example.com/news/story

  # Output a Markdown report to a file
  newsverdict classify --markdown -o report.md --file article.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: runClassifyCmd,
	}

	cmd.Flags().StringP("file", "f", "",
		"Read the text from a file (\"-\" for stdin)")
	cmd.Flags().Bool("html", false,
		"Treat --file as HTML and classify its visible text")
	cmd.Flags().StringP("url", "u", "",
		"Fetch a web page and classify its main article")
	cmd.Flags().DurationP("timeout", "t", 0,
		"Timeout for fetching --url (default: the configured request timeout)")
	addReportFlags(cmd)

	return cmd
}

// runClassifyCmd executes the classify command.
func runClassifyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyReportFlags(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	src := textSource{args: args}
	if src.file, err = cmd.Flags().GetString("file"); err != nil {
		return err
	}
	if src.html, err = cmd.Flags().GetBool("html"); err != nil {
		return err
	}
	if src.url, err = cmd.Flags().GetString("url"); err != nil {
		return err
	}

	logger := setupLogger(cmd)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	// Load the model first: a broken installation should fail before any
	// network traffic.
	engine, err := loadEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	text, err := src.read(ctx, cmd.InOrStdin(), &http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return err
	}

	analyzer := pipeline.NewAnalyzer(engine, pipeline.WithAnalyzerLogger(logger))
	result, err := analyzer.ClassifyText(ctx, text)
	if err != nil {
		return err
	}

	return outputReport(cmd, cfg, func(w report.Writer) error {
		_, err := w.Write(result)
		return err
	})
}
