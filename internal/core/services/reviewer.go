package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// Prompt payload truncation limits, in bytes. Keeps large corpora within
// the reviewer's token budget.
const (
	reviewDescriptionLimit = 200
	reviewStepsLimit       = 300
	pairStepsLimit         = 200
	reviewMaxTokens        = 4096
)

// ReviewerService turns ranked matches into a structured QA review and
// classifies duplicate pairs, via the LLM port.
type ReviewerService struct {
	llmService driven.LLMService
}

// NewReviewerService creates a new reviewer service.
func NewReviewerService(llmService driven.LLMService) *ReviewerService {
	return &ReviewerService{llmService: llmService}
}

// Available returns true when an LLM is wired in.
func (s *ReviewerService) Available() bool {
	return s.llmService != nil
}

// candidateSummary is the per-candidate payload sent to the reviewer.
type candidateSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Steps       string  `json:"steps"`
	Score       float64 `json:"similarity_score"`
}

// Review asks the LLM to analyse the bug against the ranked candidates.
// A response that cannot be parsed is not an error: the review comes back
// with empty lists and the raw text preserved.
func (s *ReviewerService) Review(
	ctx context.Context, bug domain.BugReport, matches []domain.MatchCandidate,
) (domain.Review, error) {
	if s.llmService == nil {
		return domain.Review{}, domain.ErrLLMUnavailable
	}

	summaries := make([]candidateSummary, len(matches))
	for i, m := range matches {
		summaries[i] = candidateSummary{
			ID:          m.TestCase.ID,
			Title:       m.TestCase.Title,
			Description: truncate(m.TestCase.Description, reviewDescriptionLimit),
			Steps:       truncate(m.TestCase.Steps, reviewStepsLimit),
			Score:       m.Score,
		}
	}
	payload, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return domain.Review{}, fmt.Errorf("marshal candidates: %w", err)
	}

	prompt := fmt.Sprintf(`You are an expert QA analyst. Analyze this bug report and the related test cases.

BUG REPORT:
Description: %s

Reproduction Steps: %s

Code Changes Made: %s

POTENTIALLY RELATED TEST CASES:
%s

Please analyze and provide:

1. RELATED_TESTS: Which test cases are most relevant to this bug? For each, explain WHY it's related and assign a confidence score (0-100).

2. SUGGESTED_UPDATES: What changes should be made to existing test cases due to this bug fix? Be specific about which test cases need updates and what should change in their steps or expected results.

3. NEW_TEST_CASES: Are there any gaps in test coverage? Suggest new test cases that should be created to catch this type of bug in the future.

4. DUPLICATE_DETECTION: Do any of these test cases appear to test the same functionality? Identify potential duplicates or overlapping test scenarios.

Provide your response in JSON format with these exact keys:
- related_tests: array of {test_id, reasoning, confidence}
- suggested_updates: array of {test_id, suggested_change}
- new_test_cases: array of {title, rationale}
- duplicate_tests: array of {test_ids, reasoning}`,
		bug.Description, bug.ReproSteps, bug.CodeChanges, payload)

	logger.Debug("Reviewing %d candidates with %s", len(matches), s.llmService.ModelName())

	response, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: reviewMaxTokens})
	if err != nil {
		return domain.Review{}, fmt.Errorf("reviewer generate: %w", err)
	}

	review, err := parseReview(response)
	if err != nil {
		logger.Warn("Reviewer response not parseable, keeping raw text: %v", err)
		return domain.Review{Raw: response}, nil
	}
	return review, nil
}

// pairClassification is one entry of the duplicate classification response.
type pairClassification struct {
	PairID         int    `json:"pair_id"`
	Classification string `json:"classification"`
	Reasoning      string `json:"reasoning"`
	Recommendation string `json:"recommendation"`
}

// ClassifyPairs asks the LLM to label each candidate pair as true
// duplicate, overlapping, or distinct. On a malformed response the raw
// pairs are returned unchanged.
func (s *ReviewerService) ClassifyPairs(
	ctx context.Context, pairs []domain.DuplicatePair,
) ([]domain.DuplicatePair, error) {
	if s.llmService == nil {
		return pairs, domain.ErrLLMUnavailable
	}
	if len(pairs) == 0 {
		return pairs, nil
	}

	type pairSummary struct {
		PairID     int     `json:"pair_id"`
		Test1ID    string  `json:"test_1_id"`
		Test1Title string  `json:"test_1_title"`
		Test1Steps string  `json:"test_1_steps"`
		Test2ID    string  `json:"test_2_id"`
		Test2Title string  `json:"test_2_title"`
		Test2Steps string  `json:"test_2_steps"`
		Score      float64 `json:"similarity_score"`
	}
	summaries := make([]pairSummary, len(pairs))
	for i, p := range pairs {
		summaries[i] = pairSummary{
			PairID:     i + 1,
			Test1ID:    p.A.ID,
			Test1Title: p.A.Title,
			Test1Steps: truncate(p.A.Steps, pairStepsLimit),
			Test2ID:    p.B.ID,
			Test2Title: p.B.Title,
			Test2Steps: truncate(p.B.Steps, pairStepsLimit),
			Score:      p.Score,
		}
	}
	payload, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return pairs, fmt.Errorf("marshal pairs: %w", err)
	}

	prompt := fmt.Sprintf(`You are a QA expert. Analyze these pairs of test cases that appear similar based on semantic analysis.

For each pair, determine:
1. Are they TRUE DUPLICATES (testing exact same functionality)?
2. Are they OVERLAPPING (testing similar but slightly different scenarios)?
3. Are they DISTINCT (different despite high similarity score)?

Provide recommendations for consolidation or keeping them separate.

POTENTIAL DUPLICATE PAIRS:
%s

Respond in JSON format with: duplicate_groups (array of objects with pair_id, classification, reasoning, recommendation).`,
		payload)

	response, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: reviewMaxTokens})
	if err != nil {
		return pairs, fmt.Errorf("classify pairs: %w", err)
	}

	var parsed struct {
		DuplicateGroups []pairClassification `json:"duplicate_groups"`
	}
	body, err := extractJSON(response)
	if err != nil {
		logger.Warn("Classification response not parseable, returning raw pairs: %v", err)
		return pairs, nil
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		logger.Warn("Classification response not parseable, returning raw pairs: %v", err)
		return pairs, nil
	}

	out := make([]domain.DuplicatePair, len(pairs))
	copy(out, pairs)
	for _, c := range parsed.DuplicateGroups {
		idx := c.PairID - 1
		if idx < 0 || idx >= len(out) {
			logger.Warn("Classification for unknown pair_id %d ignored", c.PairID)
			continue
		}
		out[idx].Classification = strings.ToLower(strings.TrimSpace(c.Classification))
		out[idx].Reasoning = c.Reasoning
		out[idx].Recommendation = c.Recommendation
	}
	return out, nil
}

// parseReview extracts the JSON object embedded in the reviewer's
// response and unmarshals it.
func parseReview(response string) (domain.Review, error) {
	body, err := extractJSON(response)
	if err != nil {
		return domain.Review{}, err
	}

	var review domain.Review
	if err := json.Unmarshal([]byte(body), &review); err != nil {
		return domain.Review{}, fmt.Errorf("%w: %v", domain.ErrMalformedReview, err)
	}
	return review, nil
}

// extractJSON returns the substring from the first '{' to the last '}'.
// LLM responses often wrap the object in prose or code fences.
func extractJSON(response string) (string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedReview)
	}
	return response[start : end+1], nil
}

// truncate caps s at limit bytes, marking the cut with an ellipsis.
// The cut backs up to a rune boundary so the payload stays valid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "..."
}
