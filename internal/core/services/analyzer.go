package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driving"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// Ensure AnalyzerService implements the interface.
var _ driving.AnalyzerService = (*AnalyzerService)(nil)

// reviewFallbackCount is how many of the best below-review candidates
// are still forwarded when none clear the review threshold.
const reviewFallbackCount = 5

// defaultTopK bounds ranking when the caller does not set a limit.
const defaultTopK = 15

// AnalyzerService runs the full bug analysis pipeline: area detection,
// similarity ranking, LLM review, duplicate scan, and export.
type AnalyzerService struct {
	corpusStore driven.CorpusStore
	detector    *DetectorService
	ranker      *RankerService
	reviewer    *ReviewerService
	duplicates  *DuplicateService
	exporter    driven.ReportExporter
}

// NewAnalyzerService creates a new analyzer service. The reviewer and
// exporter are optional; the pipeline degrades around them.
func NewAnalyzerService(
	corpusStore driven.CorpusStore,
	detector *DetectorService,
	ranker *RankerService,
	reviewer *ReviewerService,
	duplicates *DuplicateService,
	exporter driven.ReportExporter,
) *AnalyzerService {
	return &AnalyzerService{
		corpusStore: corpusStore,
		detector:    detector,
		ranker:      ranker,
		reviewer:    reviewer,
		duplicates:  duplicates,
		exporter:    exporter,
	}
}

// Analyze matches the bug report against the loaded corpus.
func (s *AnalyzerService) Analyze(
	ctx context.Context, bug domain.BugReport, opts domain.AnalyzeOptions,
) (domain.AnalysisReport, error) {
	logger.Section("Bug Analysis")

	text := strings.TrimSpace(bug.Text())
	if text == "" {
		return domain.AnalysisReport{}, fmt.Errorf("empty bug report: %w", domain.ErrInvalidInput)
	}

	thresholds := opts.Strictness.Thresholds()
	topK := opts.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	logger.Info("Strictness %s: min=%.2f review=%.2f export=%.2f",
		opts.Strictness.OrDefault(), thresholds.MinSimilarity, thresholds.Review, thresholds.Export)

	report := domain.AnalysisReport{
		ID:      uuid.NewString(),
		Matches: []domain.MatchCandidate{},
		Review: domain.Review{
			RelatedTests:     []domain.RelatedTest{},
			SuggestedUpdates: []domain.SuggestedUpdate{},
			ProposedTests:    []domain.ProposedTest{},
			DuplicateTests:   []domain.DuplicateNote{},
		},
		Duplicates: []domain.DuplicatePair{},
	}
	report.Summary.Thresholds = thresholds

	candidates, detection, err := s.loadCandidates(ctx, text, opts.AutoLoad)
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	report.Detection = detection
	report.Summary.TotalTestCases = len(candidates)

	if len(candidates) == 0 {
		// Expected operational state, not a failure.
		logger.Warn("No test cases loaded, returning empty report")
		report.Warnings = append(report.Warnings, "no test cases loaded")
		return report, nil
	}

	matches, err := s.ranker.Rank(ctx, text, candidates, domain.RankOptions{
		TopK:          topK,
		MinSimilarity: thresholds.MinSimilarity,
		AreaBoost:     opts.AreaBoost,
	})
	if err != nil {
		return domain.AnalysisReport{}, fmt.Errorf("rank candidates: %w", err)
	}
	report.Matches = matches
	report.Summary.SimilarFound = len(matches)

	reviewSet, fellBack := reviewSubset(matches, thresholds.Review)
	if fellBack {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("no candidate reached the review threshold %.2f; forwarding top %d",
				thresholds.Review, len(reviewSet)))
	}
	report.Summary.Reviewed = len(reviewSet)

	if len(reviewSet) > 0 && s.reviewer != nil && s.reviewer.Available() {
		review, err := s.reviewer.Review(ctx, bug, reviewSet)
		if err != nil {
			logger.Warn("Review failed: %v", err)
			report.Warnings = append(report.Warnings, "reviewer unavailable: "+err.Error())
		} else {
			report.Review = review
		}
	} else if len(reviewSet) > 0 {
		report.Warnings = append(report.Warnings, "LLM reviewer not configured; skipping review")
	}

	report.Duplicates, err = s.scanDuplicates(ctx, matches, opts.DuplicateThreshold)
	if err != nil {
		logger.Warn("Duplicate scan failed: %v", err)
		report.Warnings = append(report.Warnings, "duplicate scan failed: "+err.Error())
		report.Duplicates = []domain.DuplicatePair{}
	}
	report.Summary.DuplicatesFound = len(report.Duplicates)

	if opts.Export {
		path, err := s.export(ctx, report.ID, matches, thresholds.Export)
		if err != nil {
			logger.Warn("Export failed: %v", err)
			report.Warnings = append(report.Warnings, "export failed: "+err.Error())
		} else if path != "" {
			report.ExportPath = path
		}
	}

	logger.Info("Analysis %s complete: %d similar, %d reviewed, %d duplicate pairs",
		report.ID, report.Summary.SimilarFound, report.Summary.Reviewed, report.Summary.DuplicatesFound)
	return report, nil
}

// FindSimilar ranks the corpus against free text without invoking the
// reviewer, duplicate scan, or export.
func (s *AnalyzerService) FindSimilar(
	ctx context.Context, text string, opts domain.RankOptions,
) ([]domain.MatchCandidate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	candidates, _, err := s.loadCandidates(ctx, text, true)
	if err != nil {
		return nil, err
	}

	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	matches, err := s.ranker.Rank(ctx, text, candidates, opts)
	if errors.Is(err, domain.ErrNoTestCases) {
		return []domain.MatchCandidate{}, nil
	}
	return matches, err
}

// loadCandidates gathers the candidate set, narrowing to detected shards
// when autoLoad is on. The detection result is returned for the report.
func (s *AnalyzerService) loadCandidates(
	ctx context.Context, text string, autoLoad bool,
) ([]domain.TestCase, *domain.DetectionResult, error) {
	names, err := s.corpusStore.ShardNames(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list shards: %w", err)
	}

	var detection *domain.DetectionResult
	shards := names
	if autoLoad {
		result, err := s.detector.Detect(ctx, text)
		if err != nil {
			return nil, nil, fmt.Errorf("detect areas: %w", err)
		}
		detection = &result
		shards = result.ShardsToLoad(names)
		logger.Info("Loading shards: %v", shards)
	}

	var candidates []domain.TestCase
	for _, shard := range shards {
		records, err := s.corpusStore.Shard(ctx, shard)
		if err != nil {
			return nil, nil, fmt.Errorf("load shard %s: %w", shard, err)
		}
		candidates = append(candidates, records...)
	}
	return candidates, detection, nil
}

// reviewSubset picks the candidates worth the reviewer's attention.
// When nothing clears the review threshold the best few go anyway so a
// borderline bug still gets human-readable output.
func reviewSubset(matches []domain.MatchCandidate, reviewThreshold float64) ([]domain.MatchCandidate, bool) {
	var subset []domain.MatchCandidate
	for _, m := range matches {
		if m.Score >= reviewThreshold {
			subset = append(subset, m)
		}
	}
	if len(subset) > 0 {
		return subset, false
	}
	if len(matches) == 0 {
		return nil, false
	}

	n := reviewFallbackCount
	if len(matches) < n {
		n = len(matches)
	}
	return matches[:n], true
}

// scanDuplicates runs the pair scan over the full ranked match set, not
// just the reviewed subset.
func (s *AnalyzerService) scanDuplicates(
	ctx context.Context, matches []domain.MatchCandidate, threshold float64,
) ([]domain.DuplicatePair, error) {
	if s.duplicates == nil || len(matches) < 2 {
		return []domain.DuplicatePair{}, nil
	}
	records := make([]domain.TestCase, len(matches))
	for i, m := range matches {
		records[i] = m.TestCase
	}
	return s.duplicates.FindInCandidates(ctx, records, threshold)
}

// export writes candidates clearing the export threshold, when any.
func (s *AnalyzerService) export(
	ctx context.Context, runID string, matches []domain.MatchCandidate, exportThreshold float64,
) (string, error) {
	if s.exporter == nil {
		return "", nil
	}
	var exportable []domain.MatchCandidate
	for _, m := range matches {
		if m.Score >= exportThreshold {
			exportable = append(exportable, m)
		}
	}
	if len(exportable) == 0 {
		return "", nil
	}
	return s.exporter.Export(ctx, runID, exportable)
}
