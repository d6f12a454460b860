package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// mockCorpusService is a mock implementation of driving.CorpusQueryService.
type mockCorpusService struct {
	keywordMatches []domain.KeywordMatch
	testCase       domain.TestCase
	stats          domain.CorpusStatistics
	err            error

	gotKeywords []string
	gotLimit    int
}

func (m *mockCorpusService) SearchByKeywords(_ context.Context, keywords []string, limit int) ([]domain.KeywordMatch, error) {
	m.gotKeywords = keywords
	m.gotLimit = limit
	return m.keywordMatches, m.err
}

func (m *mockCorpusService) SearchByArea(_ context.Context, _ string, _ int) ([]domain.TestCase, error) {
	return nil, m.err
}

func (m *mockCorpusService) GetByID(_ context.Context, _ string) (domain.TestCase, error) {
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

	gotOpts domain.AnalyzeOptions
}

func (m *mockAnalyzerService) Analyze(_ context.Context, _ domain.BugReport, opts domain.AnalyzeOptions) (domain.AnalysisReport, error) {
	m.gotOpts = opts
	return m.report, m.err
}

func (m *mockAnalyzerService) FindSimilar(_ context.Context, _ string, _ domain.RankOptions) ([]domain.MatchCandidate, error) {
	return m.matches, m.err
}

// mockDuplicateService is a mock implementation of driving.DuplicateService.
type mockDuplicateService struct {
	pairs []domain.DuplicatePair
	err   error

	gotShard   string
	scannedAll bool
}

func (m *mockDuplicateService) FindInShard(_ context.Context, shard string, _ float64) ([]domain.DuplicatePair, error) {
	m.gotShard = shard
	return m.pairs, m.err
}

func (m *mockDuplicateService) FindAll(_ context.Context, _ float64) ([]domain.DuplicatePair, error) {
	m.scannedAll = true
	return m.pairs, m.err
}

func newTestAPI(t *testing.T, ports *Ports, cfg Config) *Server {
	t.Helper()
	if ports.Corpus == nil {
		ports.Corpus = &mockCorpusService{}
	}
	if ports.Detector == nil {
		ports.Detector = &mockDetectorService{}
	}
	server, err := NewServer(ports, cfg)
	require.NoError(t, err)
	return server
}

func decodeBody(t *testing.T, body io.Reader, out any) {
	t.Helper()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestNewServer_RequiredPorts(t *testing.T) {
	_, err := NewServer(&Ports{Detector: &mockDetectorService{}}, Config{})
	assert.ErrorIs(t, err, ErrMissingCorpusService)

	_, err = NewServer(&Ports{Corpus: &mockCorpusService{}}, Config{})
	assert.ErrorIs(t, err, ErrMissingDetectorService)
}

func TestHandleHealth(t *testing.T) {
	server := newTestAPI(t, &Ports{}, Config{})

	resp, err := server.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestHandleAreas(t *testing.T) {
	server := newTestAPI(t, &Ports{
		Detector: &mockDetectorService{areas: domain.DefaultAreas()},
	}, Config{})

	resp, err := server.App().Test(httptest.NewRequest("GET", "/areas", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Areas []domain.AreaConfig `json:"areas"`
	}
	decodeBody(t, resp.Body, &body)
	assert.Len(t, body.Areas, 5)
}

func TestHandleStats(t *testing.T) {
	server := newTestAPI(t, &Ports{
		Corpus: &mockCorpusService{
			stats: domain.CorpusStatistics{
				TotalTestCases: 4,
				Shards: map[string]domain.ShardStatistics{
					"Billing": {Total: 4},
				},
			},
		},
	}, Config{})

	resp, err := server.App().Test(httptest.NewRequest("GET", "/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Total int `json:"total_test_cases"`
	}
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, 4, body.Total)
}

func TestHandleGetTestCase(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := newTestAPI(t, &Ports{
			Corpus: &mockCorpusService{testCase: domain.TestCase{ID: "100", Title: "Post final bill"}},
		}, Config{})

		resp, err := server.App().Test(httptest.NewRequest("GET", "/test-cases/100", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		server := newTestAPI(t, &Ports{
			Corpus: &mockCorpusService{err: domain.ErrNotFound},
		}, Config{})

		resp, err := server.App().Test(httptest.NewRequest("GET", "/test-cases/999", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestHandleSearch(t *testing.T) {
	t.Run("splits comma separated keywords", func(t *testing.T) {
		corpus := &mockCorpusService{}
		server := newTestAPI(t, &Ports{Corpus: corpus}, Config{})

		resp, err := server.App().Test(httptest.NewRequest("GET", "/search?q=bill,%20voucher&limit=5", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, []string{"bill", "voucher"}, corpus.gotKeywords)
		assert.Equal(t, 5, corpus.gotLimit)
	})

	t.Run("no keywords maps to 400", func(t *testing.T) {
		server := newTestAPI(t, &Ports{
			Corpus: &mockCorpusService{err: domain.ErrInvalidInput},
		}, Config{})

		resp, err := server.App().Test(httptest.NewRequest("GET", "/search", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestHandleDetect(t *testing.T) {
	server := newTestAPI(t, &Ports{
		Detector: &mockDetectorService{
			result: domain.DetectionResult{TopArea: "Billing"},
		},
	}, Config{})

	req := httptest.NewRequest("POST", "/detect-areas",
		strings.NewReader(`{"bug_text":"prebill markup broken"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body domain.DetectionResult
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "Billing", body.TopArea)
}

func TestHandleAnalyze(t *testing.T) {
	t.Run("runs pipeline with defaults", func(t *testing.T) {
		analyzer := &mockAnalyzerService{
			report: domain.AnalysisReport{ID: "run-1"},
		}
		server := newTestAPI(t, &Ports{Analyzer: analyzer}, Config{})

		req := httptest.NewRequest("POST", "/analyze",
			strings.NewReader(`{"bug_description":"final bill fails"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := server.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, domain.StrictnessLenient, analyzer.gotOpts.Strictness)
		assert.True(t, analyzer.gotOpts.AutoLoad)
		assert.True(t, analyzer.gotOpts.AreaBoost)

		var body domain.AnalysisReport
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, "run-1", body.ID)
	})

	t.Run("no analyzer maps to 503", func(t *testing.T) {
		server := newTestAPI(t, &Ports{}, Config{})

		req := httptest.NewRequest("POST", "/analyze", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := server.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
	})

	t.Run("empty bug maps to 400", func(t *testing.T) {
		server := newTestAPI(t, &Ports{
			Analyzer: &mockAnalyzerService{err: domain.ErrInvalidInput},
		}, Config{})

		req := httptest.NewRequest("POST", "/analyze", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := server.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestHandleDuplicates(t *testing.T) {
	t.Run("area scopes the scan", func(t *testing.T) {
		duplicates := &mockDuplicateService{}
		server := newTestAPI(t, &Ports{Duplicates: duplicates}, Config{})

		req := httptest.NewRequest("POST", "/duplicates",
			strings.NewReader(`{"area":"Billing","threshold":0.92}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := server.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "Billing", duplicates.gotShard)
		assert.False(t, duplicates.scannedAll)
	})

	t.Run("empty area scans all", func(t *testing.T) {
		duplicates := &mockDuplicateService{}
		server := newTestAPI(t, &Ports{Duplicates: duplicates}, Config{})

		req := httptest.NewRequest("POST", "/duplicates", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := server.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.True(t, duplicates.scannedAll)
	})
}

func TestHandleDownload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "matcha_report_run-1.csv"), []byte("ID,Title\n"), 0o600))

	server := newTestAPI(t, &Ports{}, Config{ExportDir: dir})

	t.Run("serves report file", func(t *testing.T) {
		resp, err := server.App().Test(httptest.NewRequest("GET", "/download/matcha_report_run-1.csv", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(data), "ID,Title")
	})

	t.Run("rejects non-csv names", func(t *testing.T) {
		resp, err := server.App().Test(httptest.NewRequest("GET", "/download/config.toml", nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}
