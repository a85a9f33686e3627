package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// fileSettings is the on-disk TOML layout.
type fileSettings struct {
	Embedding struct {
		Provider string `toml:"provider,omitempty"`
		Model    string `toml:"model,omitempty"`
		BaseURL  string `toml:"base_url,omitempty"`
		APIKey   string `toml:"api_key,omitempty"`
	} `toml:"embedding"`

	Chunking struct {
		Size    int `toml:"size,omitempty"`
		Overlap int `toml:"overlap,omitempty"`
	} `toml:"chunking"`

	Scoring struct {
		AdmissionSimilarity float64 `toml:"admission_similarity,omitempty"`
		KeywordWeight       float64 `toml:"keyword_weight,omitempty"`
	} `toml:"scoring"`
}

// SettingsStore is a file-based implementation of driven.SettingsStore
// using TOML. Settings are stored in the askdoc config directory.
type SettingsStore struct {
	filePath string
}

// NewSettingsStore creates a new TOML-based settings store.
// If configPath is empty, defaults to ~/.askdoc/config.toml.
func NewSettingsStore(configPath string) (*SettingsStore, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(home, ".askdoc", "config.toml")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{filePath: configPath}, nil
}

// Load reads settings from the TOML file. A missing file yields
// zero-value settings.
func (s *SettingsStore) Load() (domain.Settings, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, fmt.Errorf("read config: %w", err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return domain.Settings{}, fmt.Errorf("parse config: %w", err)
	}

	return domain.Settings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProvider(fs.Embedding.Provider),
			Model:    fs.Embedding.Model,
			BaseURL:  fs.Embedding.BaseURL,
			APIKey:   fs.Embedding.APIKey,
		},
		Chunking: domain.ChunkingSettings{
			Size:    fs.Chunking.Size,
			Overlap: fs.Chunking.Overlap,
		},
		Scoring: domain.ScoringSettings{
			AdmissionSimilarity: fs.Scoring.AdmissionSimilarity,
			KeywordWeight:       fs.Scoring.KeywordWeight,
		},
	}, nil
}

// Save writes settings to the TOML file.
func (s *SettingsStore) Save(settings domain.Settings) error {
	var fs fileSettings
	fs.Embedding.Provider = settings.Embedding.Provider.String()
	fs.Embedding.Model = settings.Embedding.Model
	fs.Embedding.BaseURL = settings.Embedding.BaseURL
	fs.Embedding.APIKey = settings.Embedding.APIKey
	fs.Chunking.Size = settings.Chunking.Size
	fs.Chunking.Overlap = settings.Chunking.Overlap
	fs.Scoring.AdmissionSimilarity = settings.Scoring.AdmissionSimilarity
	fs.Scoring.KeywordWeight = settings.Scoring.KeywordWeight

	data, err := toml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// API keys live here, keep permissions restricted
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
