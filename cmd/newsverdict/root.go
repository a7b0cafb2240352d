package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for newsverdict.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsverdict",
		Short: "Classify news as REAL or FAKE",
		Long: `newsverdict classifies news text as REAL or FAKE with a TF-IDF vectorizer
and a linear classifier loaded from local artifacts.

Given a topic instead of text, it asks a generative model for a
search-grounded summary of a current article on that topic and classifies
the summary. The API key is read from NEWSVERDICT_API_KEY (or GEMINI_API_KEY).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .newsverdict in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewArtifactsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
