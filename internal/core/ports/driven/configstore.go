package driven

import "github.com/custodia-labs/askdoc/internal/core/domain"

// SettingsStore persists application settings between runs.
// Backed by a TOML file in the askdoc config directory.
type SettingsStore interface {
	// Load reads the persisted settings. A missing file yields zero-value
	// settings, not an error.
	Load() (domain.Settings, error)

	// Save writes the settings.
	Save(settings domain.Settings) error
}
