package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/config"
	"github.com/nao1215/newsverdict/internal/gemini"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/pipeline"
	"github.com/nao1215/newsverdict/internal/report"
)

// errNoTopics is returned when analyze gets neither a topic nor a list.
var errNoTopics = errors.New("no topic provided (pass a topic as arguments or use --list)")

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [topic]",
		Short: "Fetch a live news summary for a topic and classify it",
		Long: `Analyze asks a generative model for a search-grounded summary of a current
news article on the topic, then classifies the summary as REAL or FAKE.

When the API key may not use the search tool, the request is retried once
without grounding. When the model is not found, the fallback model is tried.

The API key is read from NEWSVERDICT_API_KEY (or GEMINI_API_KEY).

Examples:
  # Analyze one topic (arguments are joined into one topic)
  newsverdict analyze global economy

  # Analyze every topic in a file, four at a time
  newsverdict analyze --list topics.txt --batch 4

  # Skip grounding and use a specific model
  newsverdict analyze --no-grounding --model gemini-1.5-pro "space launch"

  # Output a JSON report
  newsverdict analyze --json "election results"

Topic list format: one topic per line; blank lines and lines starting
with # are ignored.`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("list", "l", "",
		"Read topics from a file, one per line (\"-\" for stdin)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of topics analyzed concurrently with --list")
	cmd.Flags().Bool("no-grounding", false,
		"Do not ask for web search grounding")
	cmd.Flags().String("model", config.DefaultModel,
		"Model asked first for the summary")
	cmd.Flags().String("fallback-model", config.DefaultFallbackModel,
		"Model tried when the first model is not found")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request to the generative endpoint")
	addReportFlags(cmd)

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAnalyzeConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.ValidateFetch(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return err
	}
	if listPath == "" && len(args) == 0 {
		return errNoTopics
	}

	logger := setupLogger(cmd)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	engine, err := loadEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	fetcher, err := gemini.NewFetcher(cfg, gemini.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	analyzer := pipeline.NewAnalyzer(engine,
		pipeline.WithFetcher(fetcher),
		pipeline.WithAnalyzerLogger(logger),
	)

	if listPath != "" {
		topics, err := readTopicList(listPath, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return runBatchAnalyze(ctx, cmd, cfg, analyzer, topics, logger)
	}

	result, err := analyzer.AnalyzeTopic(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return outputReport(cmd, cfg, func(w report.Writer) error {
		_, err := w.Write(result)
		return err
	})
}

// buildAnalyzeConfig loads the configuration and applies the flags the
// user set explicitly, so that unset flags don't override the file.
func buildAnalyzeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyReportFlags(cmd, cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		if cfg.Model, err = flags.GetString("model"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("fallback-model") {
		if cfg.FallbackModel, err = flags.GetString("fallback-model"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-grounding") {
		noGrounding, err := flags.GetBool("no-grounding")
		if err != nil {
			return nil, err
		}
		cfg.Grounding = !noGrounding
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runBatchAnalyze analyzes topics concurrently, reporting progress as each
// finishes, and writes one batch report in input order.
func runBatchAnalyze(ctx context.Context, cmd *cobra.Command, cfg *config.Config, analyzer *pipeline.Analyzer, topics []string, logger *slog.Logger) error {
	bp := pipeline.NewBatchProcessor(analyzer,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	results := make([]*model.AnalysisResult, len(topics))
	progress := cmd.ErrOrStderr()
	var (
		mu   sync.Mutex
		done int
	)
	err := bp.ProcessBatchWithCallback(ctx, topics, func(result *model.AnalysisResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		results[index] = result
		done++
		fmt.Fprintf(progress, "[%d/%d] %s: %s\n", done, len(topics), result.Topic, progressVerdict(result))
	})
	if err != nil {
		return err
	}

	return outputReport(cmd, cfg, func(w report.Writer) error {
		_, err := w.WriteBatch(results)
		return err
	})
}

// progressVerdict is the short verdict shown on the progress line.
func progressVerdict(result *model.AnalysisResult) string {
	if result.Status == model.StatusComplete {
		return result.Label.String()
	}
	return result.Message
}

// readTopicList reads one topic per line from path ("-" for stdin).
// Blank lines and lines starting with # are skipped.
func readTopicList(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to open topic list: %w", err)
		}
		defer f.Close()
		r = f
	}

	var topics []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topics = append(topics, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read topic list: %w", err)
	}
	if len(topics) == 0 {
		return nil, errNoTopics
	}
	return topics, nil
}
