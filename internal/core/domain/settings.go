package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds document chunking configuration.
type ChunkingSettings struct {
	// Size is the chunk window size in characters.
	Size int

	// Overlap is the number of characters shared between adjacent chunks.
	Overlap int
}

// ScoringSettings holds ranking pipeline tuning overrides.
// The scoring constants are hand-tuned per corpus; values of zero mean
// "use the default".
type ScoringSettings struct {
	// AdmissionSimilarity is the minimum semantic similarity for a chunk
	// with no keyword overlap to survive candidate admission.
	AdmissionSimilarity float64

	// KeywordWeight is the multiplier applied to keyword coverage.
	KeywordWeight float64
}

// Settings is the full application configuration.
type Settings struct {
	Embedding EmbeddingSettings
	Chunking  ChunkingSettings
	Scoring   ScoringSettings
}
