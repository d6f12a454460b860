package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driving"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// Ensure DetectorService implements the interface.
var _ driving.DetectorService = (*DetectorService)(nil)

// DetectorService scores bug text against the configured area table.
type DetectorService struct {
	areas []domain.AreaConfig
}

// NewDetectorService creates a new detector service. When areas is empty,
// the built-in default area table is used.
func NewDetectorService(areas []domain.AreaConfig) *DetectorService {
	if len(areas) == 0 {
		areas = domain.DefaultAreas()
	}
	return &DetectorService{areas: areas}
}

// Areas returns the configured area table.
func (s *DetectorService) Areas(_ context.Context) ([]domain.AreaConfig, error) {
	out := make([]domain.AreaConfig, len(s.areas))
	copy(out, s.areas)
	return out, nil
}

// Detect scores every configured area against the given text and derives
// a loading recommendation from the top candidates.
func (s *DetectorService) Detect(_ context.Context, text string) (domain.DetectionResult, error) {
	logger.Section("Area Detection")

	lowered := strings.ToLower(text)
	logger.Debug("Input length: %d chars, areas configured: %d", len(text), len(s.areas))

	scored := make([]domain.AreaScore, 0, len(s.areas))
	priorities := make(map[string]int, len(s.areas))

	for _, area := range s.areas {
		matches := 0
		for _, keyword := range area.Keywords {
			if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
				matches++
			}
		}

		// Areas below the match floor are excluded entirely.
		if matches < domain.MinKeywordMatches {
			continue
		}

		m := float64(matches)
		confidence := math.Min(1.0, m*0.15+m*m*0.02)
		scored = append(scored, domain.AreaScore{
			Name:            area.Name,
			Confidence:      round3(confidence),
			MatchedKeywords: matches,
			TotalKeywords:   len(area.Keywords),
		})
		priorities[area.Name] = area.Priority
	}

	// Confidence first, match count second, configured priority breaks
	// exact ties deterministically.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Confidence != scored[j].Confidence {
			return scored[i].Confidence > scored[j].Confidence
		}
		if scored[i].MatchedKeywords != scored[j].MatchedKeywords {
			return scored[i].MatchedKeywords > scored[j].MatchedKeywords
		}
		return priorities[scored[i].Name] < priorities[scored[j].Name]
	})

	result := domain.DetectionResult{
		Areas:          scored,
		Recommendation: recommendation(scored),
	}
	if len(scored) > 0 {
		result.TopArea = scored[0].Name
		logger.Info("Top area: %s (confidence %.3f, %d matches)",
			result.TopArea, scored[0].Confidence, scored[0].MatchedKeywords)
	} else {
		logger.Info("No area cleared the %d-match floor", domain.MinKeywordMatches)
	}

	return result, nil
}

// recommendation derives the human-readable loading advice from the
// ranked candidates.
func recommendation(scored []domain.AreaScore) string {
	if len(scored) == 0 {
		return "No clear area detected. Consider loading all test cases."
	}

	top := scored[0]

	if top.Confidence >= domain.HighConfidence && top.MatchedKeywords >= 3 {
		if len(scored) > 1 && scored[1].Confidence >= domain.SecondaryConfidence {
			return fmt.Sprintf("Load test cases from %s and %s (multi-area bug)",
				top.Name, scored[1].Name)
		}
		return fmt.Sprintf("Load test cases from %s (high confidence: %d keyword matches)",
			top.Name, top.MatchedKeywords)
	}

	if top.Confidence >= domain.ModerateConfidence {
		return fmt.Sprintf("Load test cases from %s (moderate confidence: %d keyword matches)",
			top.Name, top.MatchedKeywords)
	}

	return fmt.Sprintf("Low confidence (%d keyword matches). Consider loading all test cases.",
		top.MatchedKeywords)
}

// round3 rounds to three decimal places to keep scores stable across
// serialisation boundaries.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
