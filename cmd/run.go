package cmd

import (
	"fmt"

	"github.com/abhisek/specter/internal/app"
	"github.com/abhisek/specter/internal/llm"
	"github.com/abhisek/specter/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds the LLM provider, and launches the TUI.
// documentPath, when non-empty, opens the heist on that file directly.
func runApp(cmd *cobra.Command, documentPath string) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		return fmt.Errorf("no LLM provider configured: %w\n\nSet one of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, or OPENROUTER_API_KEY", err)
	}

	return app.Run(app.Options{
		Provider:     provider,
		EventRepo:    eventRepo,
		DocumentPath: documentPath,
	})
}
