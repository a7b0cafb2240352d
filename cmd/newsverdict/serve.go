package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/gemini"
	applog "github.com/nao1215/newsverdict/internal/log"
	"github.com/nao1215/newsverdict/internal/metrics"
	"github.com/nao1215/newsverdict/internal/pipeline"
	"github.com/nao1215/newsverdict/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier over HTTP",
		Long: `Serve starts a JSON HTTP API backed by the loaded model.

Routes:
  POST /api/classify  {"text": "..."}   classify text
  POST /api/analyze   {"topic": "..."}  fetch a summary for a topic and classify it
  GET  /healthz                         liveness probe
  GET  /metrics                         Prometheus metrics

Topic analysis is disabled (503) when no API key is set.

Examples:
  # Listen on the configured address (default 127.0.0.1:8080)
  newsverdict serve

  # Listen on all interfaces
  newsverdict serve --listen :8080`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", "",
		"Address to listen on (default: the configured address, 127.0.0.1:8080)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		if cfg.ListenAddress, err = cmd.Flags().GetString("listen"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := applog.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	ctx, cancel := signalContext(cmd)
	defer cancel()

	engine, err := loadEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	opts := []pipeline.AnalyzerOption{
		pipeline.WithAnalyzerLogger(logger),
		pipeline.WithAnalyzerMetrics(m),
	}
	if err := cfg.ValidateFetch(); err != nil {
		logger.Warn("topic analysis disabled", "reason", err)
	} else {
		fetcher, err := gemini.NewFetcher(cfg, gemini.WithLogger(logger), gemini.WithMetrics(m))
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		opts = append(opts, pipeline.WithFetcher(fetcher))
	}
	analyzer := pipeline.NewAnalyzer(engine, opts...)

	srv := server.New(analyzer,
		server.WithLogger(logger),
		server.WithGatherer(reg),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", cfg.ListenAddress)
	return srv.Run(ctx, cfg.ListenAddress)
}
