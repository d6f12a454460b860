// Package memory provides in-memory implementations of storage ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
// Shard replacement swaps a fresh slice under the write lock, so
// concurrent readers never observe a partially loaded shard.
type CorpusStore struct {
	mu     sync.RWMutex
	names  []string
	shards map[string][]domain.TestCase
}

// NewCorpusStore creates a new in-memory corpus store. The optional
// names seed enumeration with the configured area table, so a shard
// whose file has not loaded still appears, empty, in listings and
// statistics. Without names, enumeration derives from loaded shards.
func NewCorpusStore(names ...string) *CorpusStore {
	return &CorpusStore{
		names:  append([]string(nil), names...),
		shards: make(map[string][]domain.TestCase),
	}
}

// ReplaceShard atomically swaps the records of the named shard and
// returns the new record count. An empty slice clears the shard.
func (s *CorpusStore) ReplaceShard(_ context.Context, shard string, records []domain.TestCase) (int, error) {
	fresh := make([]domain.TestCase, len(records))
	copy(fresh, records)
	for i := range fresh {
		fresh[i].Shard = shard
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(fresh) == 0 {
		delete(s.shards, shard)
		return 0, nil
	}
	s.shards[shard] = fresh
	return len(fresh), nil
}

// Shard returns a copy of the records of the named shard. An unknown
// shard yields an empty slice, not an error.
func (s *CorpusStore) Shard(_ context.Context, shard string) ([]domain.TestCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.shards[shard]
	out := make([]domain.TestCase, len(records))
	copy(out, records)
	return out, nil
}

// ShardNames returns every shard name: the configured names in table
// order, then any loaded shards outside the configuration, sorted.
func (s *CorpusStore) ShardNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allNames(), nil
}

// Statistics returns per-shard totals and state breakdowns. Configured
// shards without records report a zero total.
func (s *CorpusStore) Statistics(_ context.Context) (domain.CorpusStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := s.allNames()
	stats := domain.CorpusStatistics{
		Shards: make(map[string]domain.ShardStatistics, len(names)),
	}
	for _, name := range names {
		records := s.shards[name]
		shard := domain.ShardStatistics{
			Total:  len(records),
			States: make(map[string]int),
		}
		for _, tc := range records {
			shard.States[tc.State]++
		}
		stats.Shards[name] = shard
		stats.TotalTestCases += len(records)
	}
	return stats, nil
}

// allNames merges configured and loaded shard names. Callers must hold
// at least the read lock.
func (s *CorpusStore) allNames() []string {
	names := make([]string, 0, len(s.names)+len(s.shards))
	seen := make(map[string]bool, len(s.names))
	for _, name := range s.names {
		names = append(names, name)
		seen[name] = true
	}
	var extra []string
	for name := range s.shards {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
