package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillfolio/internal/handoff"
	"github.com/jonathan/skillfolio/internal/observability"
)

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var (
		draftPath  string
		templateID int
		htmlOut    string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a draft with the templating service and print it as text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if templateID == 0 {
				templateID = opts.cfg.TemplateID
			}
			req, err := handoffRequest(draftPath, templateID)
			if err != nil {
				return err
			}

			preview, err := handoff.NewClient(opts.cfg.TemplateURL(), nil).Preview(cmd.Context(), req)
			if err != nil {
				return err
			}

			if htmlOut != "" {
				if err := writeFile(htmlOut, []byte(preview.HTML)); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Preview HTML written to %s\n", htmlOut)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintPreview(templateID, preview.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&draftPath, "draft", "d", "", "Path to draft JSON file (required)")
	cmd.Flags().IntVarP(&templateID, "template", "t", 0, "Template ID (1-3, default from config)")
	cmd.Flags().StringVar(&htmlOut, "html", "", "Also write the rendered HTML to this path")

	if err := cmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}
	return cmd
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		draftPath  string
		templateID int
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a PDF resume from a draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if templateID == 0 {
				templateID = opts.cfg.TemplateID
			}
			req, err := handoffRequest(draftPath, templateID)
			if err != nil {
				return err
			}

			doc, err := handoff.NewClient(opts.cfg.TemplateURL(), nil).Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			// The filename comes from a response header; keep only its base.
			path := filepath.Join(outDir, filepath.Base(doc.Filename))
			if err := writeFile(path, doc.Data); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully generated resume: %s (%d bytes)\n", path, len(doc.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&draftPath, "draft", "d", "", "Path to draft JSON file (required)")
	cmd.Flags().IntVarP(&templateID, "template", "t", 0, "Template ID (1-3, default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory for the PDF")

	if err := cmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}
	return cmd
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
