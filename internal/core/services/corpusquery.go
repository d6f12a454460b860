package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driving"
)

// Ensure CorpusQueryService implements the interface.
var _ driving.CorpusQueryService = (*CorpusQueryService)(nil)

// defaultQueryLimit bounds query results when the caller passes none.
const defaultQueryLimit = 10

// CorpusQueryService exposes read access to the loaded corpus.
type CorpusQueryService struct {
	corpusStore driven.CorpusStore
}

// NewCorpusQueryService creates a new corpus query service.
func NewCorpusQueryService(corpusStore driven.CorpusStore) *CorpusQueryService {
	return &CorpusQueryService{corpusStore: corpusStore}
}

// SearchByKeywords ranks test cases by the fraction of keywords found in
// their combined text, case-insensitively.
func (s *CorpusQueryService) SearchByKeywords(
	ctx context.Context, keywords []string, limit int,
) ([]domain.KeywordMatch, error) {
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("no keywords given: %w", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	records, err := s.allRecords(ctx)
	if err != nil {
		return nil, err
	}

	var matches []domain.KeywordMatch
	for _, tc := range records {
		text := strings.ToLower(tc.CombinedText())

		var found []string
		for _, kw := range cleaned {
			if strings.Contains(text, kw) {
				found = append(found, kw)
			}
		}
		if len(found) == 0 {
			continue
		}
		matches = append(matches, domain.KeywordMatch{
			TestCase:        tc,
			Relevance:       float64(len(found)) / float64(len(cleaned)),
			MatchedKeywords: found,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// SearchByArea returns up to limit records from one shard.
func (s *CorpusQueryService) SearchByArea(
	ctx context.Context, shard string, limit int,
) ([]domain.TestCase, error) {
	names, err := s.corpusStore.ShardNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shards: %w", err)
	}
	known := false
	for _, name := range names {
		if name == shard {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", domain.ErrShardUnknown, shard)
	}

	records, err := s.corpusStore.Shard(ctx, shard)
	if err != nil {
		return nil, fmt.Errorf("load shard %s: %w", shard, err)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// GetByID looks a test case up across all shards. IDs are not required
// to be unique across shards; the first hit wins.
func (s *CorpusQueryService) GetByID(ctx context.Context, id string) (domain.TestCase, error) {
	if strings.TrimSpace(id) == "" {
		return domain.TestCase{}, fmt.Errorf("empty id: %w", domain.ErrInvalidInput)
	}

	records, err := s.allRecords(ctx)
	if err != nil {
		return domain.TestCase{}, err
	}
	for _, tc := range records {
		if tc.ID == id {
			return tc, nil
		}
	}
	return domain.TestCase{}, fmt.Errorf("test case %s: %w", id, domain.ErrNotFound)
}

// Statistics returns per-shard corpus statistics.
func (s *CorpusQueryService) Statistics(ctx context.Context) (domain.CorpusStatistics, error) {
	return s.corpusStore.Statistics(ctx)
}

// allRecords flattens every shard in shard-name order.
func (s *CorpusQueryService) allRecords(ctx context.Context) ([]domain.TestCase, error) {
	names, err := s.corpusStore.ShardNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shards: %w", err)
	}

	var records []domain.TestCase
	for _, name := range names {
		shard, err := s.corpusStore.Shard(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load shard %s: %w", name, err)
		}
		records = append(records, shard...)
	}
	return records, nil
}
