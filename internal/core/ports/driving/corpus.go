package driving

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// CorpusQueryService exposes read access to the loaded corpus.
type CorpusQueryService interface {
	// SearchByKeywords ranks test cases by matched-keyword relevance.
	SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]domain.KeywordMatch, error)

	// SearchByArea returns up to limit records from one shard.
	SearchByArea(ctx context.Context, shard string, limit int) ([]domain.TestCase, error)

	// GetByID looks a test case up across all shards. First hit wins.
	GetByID(ctx context.Context, id string) (domain.TestCase, error)

	// Statistics returns per-shard corpus statistics.
	Statistics(ctx context.Context) (domain.CorpusStatistics, error)
}
