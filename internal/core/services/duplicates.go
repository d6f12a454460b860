package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driving"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// Ensure DuplicateService implements the interface.
var _ driving.DuplicateService = (*DuplicateService)(nil)

// DuplicateService scans test case sets for highly similar pairs.
type DuplicateService struct {
	corpusStore      driven.CorpusStore
	embeddingService driven.EmbeddingService
	reviewer         *ReviewerService
}

// NewDuplicateService creates a new duplicate service. The reviewer is
// optional; without it pairs are returned unclassified.
func NewDuplicateService(
	corpusStore driven.CorpusStore,
	embeddingService driven.EmbeddingService,
	reviewer *ReviewerService,
) *DuplicateService {
	return &DuplicateService{
		corpusStore:      corpusStore,
		embeddingService: embeddingService,
		reviewer:         reviewer,
	}
}

// FindInShard scans one shard for pairs above the threshold.
func (s *DuplicateService) FindInShard(
	ctx context.Context, shard string, threshold float64,
) ([]domain.DuplicatePair, error) {
	records, err := s.corpusStore.Shard(ctx, shard)
	if err != nil {
		return nil, fmt.Errorf("load shard %s: %w", shard, err)
	}
	return s.FindInCandidates(ctx, records, threshold)
}

// FindAll scans every loaded shard for pairs above the threshold.
func (s *DuplicateService) FindAll(
	ctx context.Context, threshold float64,
) ([]domain.DuplicatePair, error) {
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
	return s.FindInCandidates(ctx, records, threshold)
}

// FindInCandidates scores every unordered pair in the candidate set and
// keeps those at or above the threshold, capped at the most similar
// pairs. Classification is attempted when a reviewer is wired in.
func (s *DuplicateService) FindInCandidates(
	ctx context.Context, candidates []domain.TestCase, threshold float64,
) ([]domain.DuplicatePair, error) {
	if len(candidates) < 2 {
		return []domain.DuplicatePair{}, nil
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if threshold <= 0 {
		threshold = domain.DefaultDuplicateThreshold
	}

	logger.Section("Duplicate Scan")
	logger.Debug("Scanning %d candidates (threshold %.2f)", len(candidates), threshold)

	texts := make([]string, len(candidates))
	for i, tc := range candidates {
		texts[i] = tc.CombinedText()
	}
	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(vectors) != len(candidates) {
		return nil, fmt.Errorf("embed candidates: got %d vectors for %d texts", len(vectors), len(candidates))
	}

	var pairs []domain.DuplicatePair
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			score := cosineSimilarity(vectors[i], vectors[j])
			if score >= threshold {
				pairs = append(pairs, domain.DuplicatePair{
					A:     candidates[i],
					B:     candidates[j],
					Score: score,
				})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})

	// Token-budget cap: only the most similar pairs go to the classifier.
	if len(pairs) > domain.MaxDuplicatePairs {
		pairs = pairs[:domain.MaxDuplicatePairs]
	}
	logger.Info("Found %d pairs above threshold", len(pairs))

	if len(pairs) == 0 || s.reviewer == nil || !s.reviewer.Available() {
		if pairs == nil {
			pairs = []domain.DuplicatePair{}
		}
		return pairs, nil
	}

	classified, err := s.reviewer.ClassifyPairs(ctx, pairs)
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return pairs, nil
		}
		logger.Warn("Pair classification failed, returning raw scores: %v", err)
		return pairs, nil
	}
	return classified, nil
}
