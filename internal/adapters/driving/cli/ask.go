package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

var (
	askDocs []string
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about uploaded documents",
	Long: `Uploads the given documents and answers a single question about them.
The answer is a snippet from the best-matching document along with the
source file and a confidence score.`,
	Example: `  askdoc ask --doc handbook.pdf "What is the leave policy?"
  askdoc ask --doc a.docx --doc b.docx "How does Alpha differ from Beta?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringArrayVarP(&askDocs, "doc", "d", nil, "document to upload before asking (repeatable)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if len(askDocs) == 0 {
		return errors.New("at least one --doc is required")
	}

	if err := initServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	for _, path := range askDocs {
		chunks, err := documentService.UploadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		logger.Info("uploaded %s (%d chunks)", path, chunks)
	}

	answer, err := askService.Ask(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer domain.Answer) error {
	cmd.Println(answer.Text)
	if answer.Source != "" {
		cmd.Println()
		cmd.Printf("Source: %s (confidence %.2f)\n", answer.Source, answer.Confidence)
	}
	if answer.Explanation != "" {
		cmd.Printf("Note: %s\n", answer.Explanation)
	}
	return nil
}
