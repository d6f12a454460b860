package driving

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// AnalyzerService runs the full bug-report analysis pipeline: area
// detection, similarity ranking, LLM review, duplicate scan, and export.
type AnalyzerService interface {
	// Analyze matches the bug report against the loaded corpus.
	Analyze(ctx context.Context, bug domain.BugReport, opts domain.AnalyzeOptions) (domain.AnalysisReport, error)

	// FindSimilar ranks the corpus against free text without invoking
	// the reviewer, duplicate scan, or export.
	FindSimilar(ctx context.Context, text string, opts domain.RankOptions) ([]domain.MatchCandidate, error)
}
