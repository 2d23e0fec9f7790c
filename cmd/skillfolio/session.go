package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillfolio/internal/assist"
	"github.com/jonathan/skillfolio/internal/draft"
	"github.com/jonathan/skillfolio/internal/handoff"
	"github.com/jonathan/skillfolio/internal/schemas"
	"github.com/jonathan/skillfolio/internal/session"
	"github.com/jonathan/skillfolio/internal/types"
)

func newSessionCmd(opts *rootOptions) *cobra.Command {
	var (
		policy     string
		templateID int
		draftPath  string
		savePath   string
		noHandoff  bool
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Edit a resume draft interactively",
		Long: `Starts an interactive editing session. Type "help" for the command list.

The AI policy decides what happens to AI results: "suggest-only" keeps them as
suggestions until accepted, "auto-apply" writes them straight into the draft.

The draft lives in memory for the length of the session. --draft and --save are
a development convenience for seeding a session and inspecting its result; they
are not a storage layer and nothing is written unless --save is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if policy == "" {
				policy = cfg.Policy
			}
			p, err := assist.ParsePolicy(policy)
			if err != nil {
				return err
			}
			if templateID == 0 {
				templateID = cfg.TemplateID
			}

			store := draft.NewStore()
			if draftPath != "" {
				d, err := readDraft(draftPath)
				if err != nil {
					return err
				}
				store = draft.NewStoreFrom(d)
			}

			gateway := newGateway(opts)
			assistant := assist.NewAssistant(store, gateway, p)

			sessOpts := &session.Options{TemplateID: templateID, Verbose: cfg.Verbose}
			if !noHandoff {
				sessOpts.Handoff = handoff.NewClient(cfg.TemplateURL(), nil)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := session.New(store, assistant, cmd.OutOrStdout(), sessOpts)
			if err := s.Run(ctx, cmd.InOrStdin()); err != nil && ctx.Err() == nil {
				return err
			}

			if savePath != "" {
				if err := writeDraft(savePath, store.Draft()); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Draft saved to %s\n", savePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "", "AI policy: auto-apply or suggest-only (default from config)")
	cmd.Flags().IntVar(&templateID, "template", 0, "Template used by continue (1-3)")
	cmd.Flags().StringVar(&draftPath, "draft", "", "Dev convenience: seed the session from a draft JSON file")
	cmd.Flags().StringVar(&savePath, "save", "", "Dev convenience: write the final draft JSON to this path on exit")
	cmd.Flags().BoolVar(&noHandoff, "no-handoff", false, "Print the handoff JSON on continue instead of previewing")

	return cmd
}

// readDraft loads and schema-checks a draft JSON file.
func readDraft(path string) (types.ResumeDraft, error) {
	var d types.ResumeDraft
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("failed to read draft file: %w", err)
	}
	if err := schemas.ValidateDraftJSON(data); err != nil {
		return d, fmt.Errorf("invalid draft %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse draft JSON: %w", err)
	}
	d.Normalize()
	return d, nil
}

func writeDraft(path string, d types.ResumeDraft) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}

// handoffRequest loads a draft and builds the templating request for it.
func handoffRequest(draftPath string, templateID int) (*types.TemplateRequest, error) {
	d, err := readDraft(draftPath)
	if err != nil {
		return nil, err
	}
	return handoff.NewRequest(templateID, d)
}
