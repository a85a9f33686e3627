// Package cli implements the askdoc command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/core/services"
	"github.com/custodia-labs/askdoc/internal/extractors"
	"github.com/custodia-labs/askdoc/internal/logger"
	"github.com/custodia-labs/askdoc/internal/postprocessors/chunker"
)

// version is set via Execute.
var version = "dev"

var (
	verbose    bool
	configPath string
)

// Services wired by initServices. Documents live in memory, so each
// invocation uploads and asks within one process.
var (
	askService      driving.AskService
	documentService driving.DocumentService
	embeddingSvc    driven.EmbeddingService
	appSettings     domain.Settings
)

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Upload documents and ask questions about them",
	Long: `askdoc answers natural-language questions about uploaded documents.
Documents are chunked and embedded, then queries are answered by a
ranking pipeline combining semantic similarity with keyword analysis.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print ranking pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.askdoc/config.toml)")
}

// initServices loads settings and builds the service graph. Commands
// that need documents or answers call this from their RunE.
func initServices() error {
	if askService != nil {
		return nil
	}

	store, err := file.NewSettingsStore(configPath)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}
	appSettings = settings

	// Without explicit provider config, assume a local Ollama instance.
	if !settings.Embedding.IsConfigured() {
		settings.Embedding.Provider = domain.AIProviderOllama
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return err
	}
	embeddingSvc = embedder
	logger.Info("embedding provider: %s (%s, %d dimensions)",
		settings.Embedding.Provider, embedder.ModelName(), embedder.Dimensions())

	var chunkOpts []chunker.Option
	if settings.Chunking.Size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(settings.Chunking.Size))
	}
	if settings.Chunking.Overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(settings.Chunking.Overlap))
	}

	chunks := memory.NewChunkStore()
	documentService = services.NewDocumentService(chunks, embedder, extractors.Defaults(), chunker.New(chunkOpts...))

	asker := services.NewAskService(chunks, embedder)
	weights := services.DefaultWeights()
	if settings.Scoring.AdmissionSimilarity > 0 {
		weights.AdmissionSimilarity = settings.Scoring.AdmissionSimilarity
	}
	if settings.Scoring.KeywordWeight > 0 {
		weights.KeywordWeight = settings.Scoring.KeywordWeight
	}
	asker.SetWeights(weights)
	askService = asker

	return nil
}

// closeServices releases adapter resources.
func closeServices() {
	if embeddingSvc != nil {
		embeddingSvc.Close()
		embeddingSvc = nil
	}
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	defer closeServices()
	return rootCmd.Execute()
}
