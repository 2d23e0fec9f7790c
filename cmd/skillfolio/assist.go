package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillfolio/internal/assist"
)

func newGateway(opts *rootOptions) *assist.Gateway {
	return assist.NewGateway(opts.cfg.APIBase, &assist.Options{Timeout: opts.cfg.Timeout()})
}

// inputText joins args, or reads stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func newImproveSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "improve-summary [text]",
		Short: "Ask the AI service to rewrite a resume summary",
		Long:  "Sends the summary (arguments, or stdin when none are given) to the AI service and prints the improved text.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			improved, err := newGateway(opts).ImproveSummary(cmd.Context(), text)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), improved)
			return nil
		},
	}
}

func newImproveProjectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "improve-project [description]",
		Short: "Ask the AI service to rewrite a project description",
		Long:  "Sends the project description (arguments, or stdin when none are given) to the AI service and prints the improved text.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			improved, err := newGateway(opts).ImproveProject(cmd.Context(), text)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), improved)
			return nil
		},
	}
}

func newSuggestSkillsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest-skills [skill...]",
		Short: "Ask the AI service for skills to add",
		Long:  "Sends the current skills to the AI service and prints one suggested skill per line. A single argument may be a comma-separated list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var skills []string
			for _, arg := range args {
				skills = append(skills, assist.SplitSkills(arg)...)
			}
			suggested, err := newGateway(opts).SuggestSkills(cmd.Context(), skills)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(suggested) == 0 {
				_, _ = fmt.Fprintln(out, "No skills suggested")
				return nil
			}
			for _, s := range suggested {
				_, _ = fmt.Fprintln(out, s)
			}
			return nil
		},
	}
}
