package driven

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// ReportExporter writes ranked matches to a report file and returns its path.
type ReportExporter interface {
	// Export writes the given matches for the identified analysis run.
	Export(ctx context.Context, runID string, matches []domain.MatchCandidate) (string, error)
}
