package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Corpus == nil {
		ports.Corpus = &mockCorpusService{}
	}
	if ports.Detector == nil {
		ports.Detector = &mockDetectorService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleDetect(t *testing.T) {
	ctx := context.Background()

	detector := &mockDetectorService{
		result: domain.DetectionResult{
			Areas: []domain.AreaScore{
				{Name: "Billing", Confidence: 0.62, MatchedKeywords: 3, TotalKeywords: 16},
			},
			TopArea:        "Billing",
			Recommendation: "Load test cases from Billing (high confidence: 3 keyword matches)",
		},
	}
	server := newTestServer(t, &Ports{Detector: detector})

	_, output, err := server.handleDetect(ctx, nil, DetectInput{BugText: "prebill markup broken"})
	require.NoError(t, err)
	assert.Equal(t, "Billing", output.TopArea)
	require.Len(t, output.Areas, 1)
	assert.Equal(t, 0.62, output.Areas[0].Confidence)
	assert.Contains(t, output.Recommendation, "high confidence")
}

func TestServer_handleListAreas(t *testing.T) {
	detector := &mockDetectorService{areas: domain.DefaultAreas()}
	server := newTestServer(t, &Ports{Detector: detector})

	_, output, err := server.handleListAreas(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	require.Len(t, output.Areas, 5)
	assert.Equal(t, "Expert Disbursements", output.Areas[0].Name)
	assert.Equal(t, 1, output.Areas[0].Priority)
	assert.NotZero(t, output.Areas[0].Keywords)
}

func TestServer_handleKeywordSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns matches", func(t *testing.T) {
		corpus := &mockCorpusService{
			keywordMatches: []domain.KeywordMatch{
				{
					TestCase:        domain.TestCase{ID: "100", Title: "Post final bill", Shard: "Billing"},
					Relevance:       0.5,
					MatchedKeywords: []string{"bill"},
				},
			},
		}
		server := newTestServer(t, &Ports{Corpus: corpus})

		_, output, err := server.handleKeywordSearch(ctx, nil, KeywordSearchInput{
			Keywords: []string{"bill", "voucher"},
			Limit:    5,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "100", output.Results[0].TestCase.ID)
		assert.Equal(t, 0.5, output.Results[0].Relevance)
		assert.Equal(t, []string{"bill", "voucher"}, corpus.gotKeywords)
		assert.Equal(t, 5, corpus.gotLimit)
	})

	t.Run("default limit is 10", func(t *testing.T) {
		corpus := &mockCorpusService{}
		server := newTestServer(t, &Ports{Corpus: corpus})

		_, _, err := server.handleKeywordSearch(ctx, nil, KeywordSearchInput{Keywords: []string{"bill"}})
		require.NoError(t, err)
		assert.Equal(t, defaultResultLimit, corpus.gotLimit)
	})

	t.Run("propagates service error", func(t *testing.T) {
		corpus := &mockCorpusService{err: domain.ErrInvalidInput}
		server := newTestServer(t, &Ports{Corpus: corpus})

		_, _, err := server.handleKeywordSearch(ctx, nil, KeywordSearchInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleAreaSearch(t *testing.T) {
	corpus := &mockCorpusService{
		areaRecords: []domain.TestCase{
			{ID: "200", Title: "Payment plan setup", Shard: "Collections"},
		},
	}
	server := newTestServer(t, &Ports{Corpus: corpus})

	_, output, err := server.handleAreaSearch(context.Background(), nil, AreaSearchInput{Area: "Collections"})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "200", output.Results[0].ID)
	assert.Equal(t, "Collections", corpus.gotArea)
}

func TestServer_handleGetTestCase(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		corpus := &mockCorpusService{
			testCase: domain.TestCase{ID: "100", Title: "Post final bill", State: "Ready"},
		}
		server := newTestServer(t, &Ports{Corpus: corpus})

		_, output, err := server.handleGetTestCase(ctx, nil, GetTestCaseInput{ID: "100"})
		require.NoError(t, err)
		assert.Equal(t, "Post final bill", output.TestCase.Title)
		assert.Equal(t, "100", corpus.gotID)
	})

	t.Run("not found", func(t *testing.T) {
		corpus := &mockCorpusService{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{Corpus: corpus})

		_, _, err := server.handleGetTestCase(ctx, nil, GetTestCaseInput{ID: "999"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleStatistics(t *testing.T) {
	corpus := &mockCorpusService{
		stats: domain.CorpusStatistics{
			TotalTestCases: 3,
			Shards: map[string]domain.ShardStatistics{
				"Billing": {Total: 3, States: map[string]int{"Ready": 2, "Design": 1}},
			},
		},
	}
	server := newTestServer(t, &Ports{Corpus: corpus})

	_, output, err := server.handleStatistics(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 3, output.TotalTestCases)
	assert.Equal(t, 2, output.Shards["Billing"].States["Ready"])
}

func TestServer_handleFindSimilar(t *testing.T) {
	analyzer := &mockAnalyzerService{
		matches: []domain.MatchCandidate{
			{TestCase: domain.TestCase{ID: "100"}, Score: 0.91},
		},
	}
	server := newTestServer(t, &Ports{Analyzer: analyzer})

	_, output, err := server.handleFindSimilar(context.Background(), nil, FindSimilarInput{
		Text: "final bill fails",
		TopK: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, 0.91, output.Results[0].Score)
	assert.Equal(t, "final bill fails", analyzer.gotText)
	assert.Equal(t, 5, analyzer.gotOpts.TopK)
	assert.True(t, analyzer.gotOpts.AreaBoost)
}

func TestServer_handleFindDuplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("scoped to one area", func(t *testing.T) {
		duplicates := &mockDuplicateService{
			pairs: []domain.DuplicatePair{
				{
					A:     domain.TestCase{ID: "100"},
					B:     domain.TestCase{ID: "101"},
					Score: 0.95,
				},
			},
		}
		server := newTestServer(t, &Ports{Duplicates: duplicates})

		_, output, err := server.handleFindDuplicates(ctx, nil, FindDuplicatesInput{
			Area:      "Billing",
			Threshold: 0.92,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "Billing", duplicates.gotShard)
		assert.Equal(t, 0.92, duplicates.gotThreshold)
		assert.False(t, duplicates.scannedAll)
	})

	t.Run("empty area scans all shards", func(t *testing.T) {
		duplicates := &mockDuplicateService{}
		server := newTestServer(t, &Ports{Duplicates: duplicates})

		_, _, err := server.handleFindDuplicates(ctx, nil, FindDuplicatesInput{})
		require.NoError(t, err)
		assert.True(t, duplicates.scannedAll)
	})

	t.Run("propagates service error", func(t *testing.T) {
		duplicates := &mockDuplicateService{err: errors.New("scan failed")}
		server := newTestServer(t, &Ports{Duplicates: duplicates})

		_, _, err := server.handleFindDuplicates(ctx, nil, FindDuplicatesInput{Area: "Billing"})
		assert.Error(t, err)
	})
}
