// Package main provides the skillfolio CLI: an interactive resume editing
// session with AI assistance, one-shot AI commands, templating handoff and a
// local AI service for development.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/skillfolio/internal/config"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "skillfolio",
		Short: "Build a resume step by step with AI assistance",
		Long: "skillfolio edits a resume draft section by section, asks an AI service to improve the " +
			"summary, skills and project descriptions, and hands the finished draft to the templating service.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.verbose {
				cfg.Verbose = true
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to JSON config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed output")

	cmd.AddCommand(
		newSessionCmd(opts),
		newImproveSummaryCmd(opts),
		newSuggestSkillsCmd(opts),
		newImproveProjectCmd(opts),
		newPreviewCmd(opts),
		newGenerateCmd(opts),
		newValidateCmd(),
		newServeAICmd(opts),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
