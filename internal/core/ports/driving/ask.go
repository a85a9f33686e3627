package driving

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// AskService answers free-text questions about the uploaded documents.
type AskService interface {
	// Ask runs the ranking pipeline for a single query and returns the
	// best-matching answer. Special cases (no documents, unresolved
	// definition or comparison, missing topic words) produce a fixed
	// answer with confidence 0 rather than an error; only infrastructure
	// failures (embedding provider) are returned as errors.
	Ask(ctx context.Context, query string) (domain.Answer, error)
}
