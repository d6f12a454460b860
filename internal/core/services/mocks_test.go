package services

import (
	"context"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by exact text; unknown texts get the fallback.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	fallback []float32
	embedErr error
	batchErr error
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int   { return 3 }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response    string
	generateErr error
	prompts     []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockExporter implements driven.ReportExporter for testing.
type mockExporter struct {
	path       string
	exportErr  error
	gotRunID   string
	gotMatches []domain.MatchCandidate
}

func (m *mockExporter) Export(_ context.Context, runID string, matches []domain.MatchCandidate) (string, error) {
	m.gotRunID = runID
	m.gotMatches = matches
	if m.exportErr != nil {
		return "", m.exportErr
	}
	return m.path, nil
}

// mockCorpusSource implements driven.CorpusSource for testing.
type mockCorpusSource struct {
	shards   map[string][]domain.TestCase
	readErrs map[string]error
}

func (m *mockCorpusSource) ReadShard(_ context.Context, area domain.AreaConfig) ([]domain.TestCase, error) {
	if err, ok := m.readErrs[area.Name]; ok {
		return nil, err
	}
	return m.shards[area.Name], nil
}
