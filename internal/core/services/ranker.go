package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// RankerService orders test cases by semantic similarity to a query.
// It is composed by the analyzer and duplicate services rather than
// exposed as a driving port of its own.
type RankerService struct {
	embeddingService driven.EmbeddingService
}

// NewRankerService creates a new ranker service.
func NewRankerService(embeddingService driven.EmbeddingService) *RankerService {
	return &RankerService{embeddingService: embeddingService}
}

// Rank embeds the query and every candidate, scores them by cosine
// similarity with an optional area-alignment adjustment, filters by the
// minimum similarity, and returns the top candidates in descending order.
func (s *RankerService) Rank(
	ctx context.Context, query string, candidates []domain.TestCase, opts domain.RankOptions,
) ([]domain.MatchCandidate, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrNoTestCases
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Debug("Ranking %d candidates (top_k=%d, min_similarity=%.2f, boost=%t)",
		len(candidates), opts.TopK, opts.MinSimilarity, opts.AreaBoost)

	queryVec, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

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

	loweredQuery := strings.ToLower(query)

	matches := make([]domain.MatchCandidate, 0, len(candidates))
	for i, tc := range candidates {
		score := cosineSimilarity(queryVec, vectors[i])
		if opts.AreaBoost {
			score = applyAreaBoost(score, tc, loweredQuery)
		}
		if score < opts.MinSimilarity {
			continue
		}
		matches = append(matches, domain.MatchCandidate{TestCase: tc, Score: score})
	}

	// Stable sort keeps corpus order for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if opts.TopK > 0 && len(matches) > opts.TopK {
		matches = matches[:opts.TopK]
	}

	logger.Debug("Ranked: %d candidates above threshold", len(matches))
	return matches, nil
}

// applyAreaBoost nudges the score by how well the test case's area path
// aligns with the query. At least one token match earns a capped bonus;
// none costs a flat penalty. A record without an area path is left
// unadjusted: the penalty marks misalignment, not missing metadata.
// The result is clamped at 1.0 with no floor.
func applyAreaBoost(score float64, tc domain.TestCase, loweredQuery string) float64 {
	tokens := tc.AreaTokens()
	if len(tokens) == 0 {
		return score
	}

	matched := 0
	for _, token := range tokens {
		if strings.Contains(loweredQuery, token) {
			matched++
		}
	}

	if matched > 0 {
		score += math.Min(domain.MaxAreaBoost, float64(matched)*domain.AreaBoostPerMatch)
	} else {
		score -= domain.AreaPenalty
	}

	return math.Min(1.0, score)
}

// cosineSimilarity computes the cosine of the angle between two vectors,
// accumulating in float64 for stability. Zero-magnitude input yields 0.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
