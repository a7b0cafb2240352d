package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/config"
	applog "github.com/nao1215/newsverdict/internal/log"
	"github.com/nao1215/newsverdict/internal/report"
	"github.com/nao1215/newsverdict/internal/textmodel"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config file path, or "" when the flag is not
// registered (a subcommand built on its own).
func getConfigFlag(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("config"); f != nil {
		return f.Value.String()
	}
	if f := cmd.Root().PersistentFlags().Lookup("config"); f != nil {
		return f.Value.String()
	}
	return ""
}

// setupLogger creates a sanitizing logger writing to the command's stderr.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	return applog.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}

// loadConfig builds a Config from defaults and the configuration file.
// Command flags are applied by the caller afterwards.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	configPath := getConfigFlag(cmd)
	cfg.ConfigFilePath = configPath

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	found := config.FindConfigFile(configPath)
	if found == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
		}
		return cfg, nil
	}

	file, err := config.LoadConfigFile(found)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
	}
	file.Apply(cfg)
	return cfg, nil
}

// addReportFlags registers the report format flags on cmd.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// applyReportFlags copies the report format flags onto cfg.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	return err
}

// loadEngine resolves the artifact paths and loads the classifier.
// Any failure here is fatal for the command.
func loadEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*textmodel.Engine, error) {
	cfg.ResolveArtifacts()

	src := textmodel.ArtifactSource{
		VectorizerPath:     cfg.VectorizerPath,
		ClassifierPath:     cfg.ClassifierPath,
		BundlePath:         cfg.BundlePath,
		VectorizerChecksum: cfg.VectorizerChecksum,
		ClassifierChecksum: cfg.ClassifierChecksum,
	}
	engine, err := textmodel.LoadEngine(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load model artifacts: %w", err)
	}

	logger.Debug("model loaded",
		"bundle", cfg.BundlePath,
		"vectorizer", cfg.VectorizerPath,
		"classifier", cfg.ClassifierPath,
		"features", engine.Dim(),
	)
	return engine, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// outputReport writes a report in the configured format to the configured
// destination. write receives the writer to use.
func outputReport(cmd *cobra.Command, cfg *config.Config, write func(report.Writer) error) error {
	var output io.Writer = cmd.OutOrStdout()

	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	return write(newReportWriter(cfg, output))
}

// newReportWriter selects the writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
