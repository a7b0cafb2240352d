package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/config"
	"github.com/nao1215/newsverdict/internal/database"
	"github.com/nao1215/newsverdict/internal/textmodel"
)

// NewArtifactsCmd creates the artifacts command and its subcommands.
func NewArtifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Manage model artifacts",
		Long: `Artifacts packs, inspects and checksums the vectorizer and classifier
artifacts used by every command.

A bundle is a single SQLite file holding both artifacts with their
checksums, which is easier to ship than two JSON files.`,
	}

	cmd.AddCommand(newArtifactsPackCmd())
	cmd.AddCommand(newArtifactsInspectCmd())
	cmd.AddCommand(newArtifactsChecksumCmd())

	return cmd
}

func newArtifactsPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack vectorizer and classifier JSON files into a bundle",
		Long: `Pack validates the two JSON artifacts and stores them in a SQLite bundle.
An existing bundle at the output path is updated in place.

Examples:
  # Pack into the default location
  newsverdict artifacts pack --vectorizer vectorizer.json --classifier classifier.json

  # Pack into a specific file
  newsverdict artifacts pack --vectorizer v.json --classifier c.json -o model.db`,
		Args: cobra.NoArgs,
		RunE: runArtifactsPackCmd,
	}

	cmd.Flags().String("vectorizer", "", "Path to the vectorizer JSON artifact")
	cmd.Flags().String("classifier", "", "Path to the classifier JSON artifact")
	cmd.Flags().StringP("output", "o", filepath.Join(config.XDGDataDir(), config.BundleFile),
		"Bundle file to write")
	_ = cmd.MarkFlagRequired("vectorizer") //nolint:errcheck // flag is registered above
	_ = cmd.MarkFlagRequired("classifier") //nolint:errcheck // flag is registered above

	return cmd
}

// runArtifactsPackCmd executes the artifacts pack command.
func runArtifactsPackCmd(cmd *cobra.Command, _ []string) error {
	vecPath, err := cmd.Flags().GetString("vectorizer")
	if err != nil {
		return err
	}
	clfPath, err := cmd.Flags().GetString("classifier")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	vecData, err := os.ReadFile(vecPath) //nolint:gosec // User-provided artifact path is intentional
	if err != nil {
		return fmt.Errorf("failed to read vectorizer: %w", err)
	}
	clfData, err := os.ReadFile(clfPath) //nolint:gosec // User-provided artifact path is intentional
	if err != nil {
		return fmt.Errorf("failed to read classifier: %w", err)
	}

	// Refuse to pack artifacts that would not load.
	engine, err := textmodel.BuildEngine(vecData, clfData)
	if err != nil {
		return fmt.Errorf("invalid artifacts: %w", err)
	}

	bundle, err := database.Open(output, database.ReadWrite())
	if err != nil {
		return err
	}
	defer bundle.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for _, a := range []struct {
		name string
		data []byte
	}{
		{database.ArtifactVectorizer, vecData},
		{database.ArtifactClassifier, clfData},
	} {
		sum, err := bundle.Put(ctx, a.name, a.data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-11s %s\n", a.name, sum)
	}

	fmt.Fprintf(out, "\nPacked %d features into %s\n", engine.Dim(), output)
	return nil
}

func newArtifactsInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [bundle]",
		Short: "List the artifacts in a bundle and check that they load",
		Long: `Inspect lists the artifacts stored in a bundle with their checksums and
sizes, then loads them to check that the bundle is usable.

Without an argument, the configured bundle (or model.db in the artifact
directory) is inspected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runArtifactsInspectCmd,
	}
}

// runArtifactsInspectCmd executes the artifacts inspect command.
func runArtifactsInspectCmd(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path = cfg.BundlePath
		if path == "" {
			path = filepath.Join(cfg.ArtifactDir, config.BundleFile)
		}
	}

	return inspectBundle(cmd.Context(), cmd.OutOrStdout(), path)
}

// inspectBundle prints the bundle contents and verifies that it loads.
func inspectBundle(ctx context.Context, out io.Writer, path string) error {
	bundle, err := database.Open(path, database.ReadOnly())
	if err != nil {
		return err
	}
	infos, err := bundle.List(ctx)
	bundle.Close()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Bundle: %s\n\n", path)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tSTORED\tCHECKSUM")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			info.Name, info.Size, info.StoredAt.Format(time.DateTime), info.Checksum)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	engine, err := textmodel.LoadEngine(ctx, textmodel.ArtifactSource{BundlePath: path})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nOK: %d features\n", engine.Dim())
	return nil
}

func newArtifactsChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <file>...",
		Short: "Print the checksum of artifact files",
		Long: `Checksum prints the BLAKE2b-256 digest of each file, in the format expected
by the artifacts.checksums section of the configuration file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				data, err := os.ReadFile(path) //nolint:gosec // User-provided artifact path is intentional
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				fmt.Fprintf(out, "%s  %s\n", database.Checksum(data), path)
			}
			return nil
		},
	}
}
