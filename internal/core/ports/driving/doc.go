// Package driving holds the interfaces the CLI and TUI call into: document
// management and question answering. The services package provides the
// implementations; adapters under internal/adapters/driving consume them.
package driving
