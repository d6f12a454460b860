package driving

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// DuplicateService finds highly similar test case pairs in a shard or
// across the whole corpus.
type DuplicateService interface {
	// FindInShard scans one shard for pairs above the threshold.
	FindInShard(ctx context.Context, shard string, threshold float64) ([]domain.DuplicatePair, error)

	// FindAll scans every loaded shard for pairs above the threshold.
	FindAll(ctx context.Context, threshold float64) ([]domain.DuplicatePair, error)
}
