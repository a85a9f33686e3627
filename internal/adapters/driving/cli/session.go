package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui"
	"github.com/custodia-labs/askdoc/internal/logger"
)

var sessionDocs []string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Launch an interactive question session",
	Long: `Launch an interactive terminal session for uploading documents and
asking questions about them.

Controls:
  Enter  - Ask the typed question
  ↑/↓    - Scroll the answer view
  Esc, q - Quit`,
	RunE: runSession,
}

func init() {
	sessionCmd.Flags().StringArrayVarP(&sessionDocs, "doc", "d", nil, "document to upload on startup (repeatable)")
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in session: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := initServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	for _, path := range sessionDocs {
		chunks, err := documentService.UploadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		logger.Info("uploaded %s (%d chunks)", path, chunks)
	}

	model := tui.NewModel(ctx, askService, documentService)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("session error: %w", err)
	}
	return nil
}
