package mcp

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// mockCorpusService is a mock implementation of driving.CorpusQueryService.
type mockCorpusService struct {
	keywordMatches []domain.KeywordMatch
	areaRecords    []domain.TestCase
	testCase       domain.TestCase
	stats          domain.CorpusStatistics
	err            error

	gotKeywords []string
	gotArea     string
	gotLimit    int
	gotID       string
}

func (m *mockCorpusService) SearchByKeywords(_ context.Context, keywords []string, limit int) ([]domain.KeywordMatch, error) {
	m.gotKeywords = keywords
	m.gotLimit = limit
	return m.keywordMatches, m.err
}

func (m *mockCorpusService) SearchByArea(_ context.Context, shard string, limit int) ([]domain.TestCase, error) {
	m.gotArea = shard
	m.gotLimit = limit
	return m.areaRecords, m.err
}

func (m *mockCorpusService) GetByID(_ context.Context, id string) (domain.TestCase, error) {
	m.gotID = id
	return m.testCase, m.err
}

func (m *mockCorpusService) Statistics(_ context.Context) (domain.CorpusStatistics, error) {
	return m.stats, m.err
}

// mockDetectorService is a mock implementation of driving.DetectorService.
type mockDetectorService struct {
	result domain.DetectionResult
	areas  []domain.AreaConfig
	err    error
}

func (m *mockDetectorService) Detect(_ context.Context, _ string) (domain.DetectionResult, error) {
	return m.result, m.err
}

func (m *mockDetectorService) Areas(_ context.Context) ([]domain.AreaConfig, error) {
	return m.areas, m.err
}

// mockAnalyzerService is a mock implementation of driving.AnalyzerService.
type mockAnalyzerService struct {
	report  domain.AnalysisReport
	matches []domain.MatchCandidate
	err     error

	gotText string
	gotOpts domain.RankOptions
}

func (m *mockAnalyzerService) Analyze(_ context.Context, _ domain.BugReport, _ domain.AnalyzeOptions) (domain.AnalysisReport, error) {
	return m.report, m.err
}

func (m *mockAnalyzerService) FindSimilar(_ context.Context, text string, opts domain.RankOptions) ([]domain.MatchCandidate, error) {
	m.gotText = text
	m.gotOpts = opts
	return m.matches, m.err
}

// mockDuplicateService is a mock implementation of driving.DuplicateService.
type mockDuplicateService struct {
	pairs []domain.DuplicatePair
	err   error

	gotShard     string
	gotThreshold float64
	scannedAll   bool
}

func (m *mockDuplicateService) FindInShard(_ context.Context, shard string, threshold float64) ([]domain.DuplicatePair, error) {
	m.gotShard = shard
	m.gotThreshold = threshold
	return m.pairs, m.err
}

func (m *mockDuplicateService) FindAll(_ context.Context, threshold float64) ([]domain.DuplicatePair, error) {
	m.scannedAll = true
	m.gotThreshold = threshold
	return m.pairs, m.err
}
