package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillfolio/internal/aiserver"
	"github.com/jonathan/skillfolio/internal/llm"
)

func newServeAICmd(opts *rootOptions) *cobra.Command {
	var (
		port      int
		apiKey    string
		tier      string
		rateLimit int
	)

	cmd := &cobra.Command{
		Use:   "serve-ai",
		Short: "Run a local AI assist service backed by Gemini",
		Long: `Starts an HTTP server exposing the AI assist endpoints:
  POST /api/ai/improve-summary
  POST /api/ai/suggest-skills
  POST /api/ai/improve-project
  GET  /health

Point api_base (or SKILLFOLIO_API_BASE) at it to use it from a session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if apiKey == "" {
				apiKey = cfg.GeminiAPIKey
			}
			if apiKey == "" {
				return fmt.Errorf("API key is required (set --api-key flag or GEMINI_API_KEY env var)")
			}
			if port == 0 {
				port = cfg.Port
			}
			if !cmd.Flags().Changed("rate-limit") {
				rateLimit = cfg.RateLimit
			}

			modelTier := llm.ModelTier(tier)
			if modelTier != llm.TierLite && modelTier != llm.TierStandard {
				return fmt.Errorf("unknown model tier %q (use %s or %s)", tier, llm.TierLite, llm.TierStandard)
			}

			client, err := llm.NewClient(cmd.Context(), llm.DefaultConfig(), apiKey)
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}
			defer func() { _ = client.Close() }()

			server := aiserver.New(aiserver.Config{
				Port:      port,
				RateLimit: rateLimit,
				Tier:      modelTier,
			}, client)
			return server.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config or PORT)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	cmd.Flags().StringVar(&tier, "tier", string(llm.TierStandard), "Model tier: lite or standard")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "AI requests per client per minute; -1 disables")

	return cmd
}
