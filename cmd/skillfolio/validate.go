package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillfolio/internal/schemas"
)

func newValidateCmd() *cobra.Command {
	var draftPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a draft JSON file against the resume draft schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			err := schemas.ValidateDraftFile(draftPath)
			if err == nil {
				_, _ = fmt.Fprintln(out, "Validation passed")
				return nil
			}

			var verr *schemas.ValidationError
			if errors.As(err, &verr) {
				_, _ = fmt.Fprintln(out, "Validation failed:")
				for _, fe := range verr.Errors {
					_, _ = fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
				}
				return fmt.Errorf("%d schema error(s) in %s", len(verr.Errors), draftPath)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&draftPath, "draft", "d", "", "Path to draft JSON file (required)")
	if err := cmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}
	return cmd
}
