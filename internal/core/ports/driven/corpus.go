package driven

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// CorpusStore holds the loaded test case corpus, sharded by functional area.
// Implementations must be safe for concurrent readers; shard replacement
// must be atomic so rankers never observe a partially loaded shard.
type CorpusStore interface {
	// ReplaceShard atomically swaps the records of the named shard and
	// returns the new record count. An empty slice clears the shard.
	ReplaceShard(ctx context.Context, shard string, records []domain.TestCase) (int, error)

	// Shard returns the records of the named shard. An unknown shard
	// yields an empty slice, not an error.
	Shard(ctx context.Context, shard string) ([]domain.TestCase, error)

	// ShardNames returns the names of all shards that hold records.
	ShardNames(ctx context.Context) ([]string, error)

	// Statistics returns per-shard totals and state breakdowns.
	Statistics(ctx context.Context) (domain.CorpusStatistics, error)
}

// CorpusSource reads test case shards from their backing storage,
// typically one CSV export per functional area.
type CorpusSource interface {
	// ReadShard loads the records behind the given area configuration.
	// Malformed rows are skipped; a read never partially fails.
	ReadShard(ctx context.Context, area domain.AreaConfig) ([]domain.TestCase, error)
}
