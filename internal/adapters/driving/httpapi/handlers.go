package httpapi

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// defaultResultLimit bounds list endpoints when no limit is given.
const defaultResultLimit = 10

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrShardUnknown):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingUnavailable), errors.Is(err, domain.ErrLLMUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"app":     "matcha",
		"version": "0.1.0",
	})
}

func (s *Server) handleAreas(c fiber.Ctx) error {
	areas, err := s.ports.Detector.Areas(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"areas": areas})
}

func (s *Server) handleStats(c fiber.Ctx) error {
	stats, err := s.ports.Corpus.Statistics(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"total_test_cases": stats.TotalTestCases,
		"shards":           stats.Shards,
	})
}

func (s *Server) handleGetTestCase(c fiber.Ctx) error {
	tc, err := s.ports.Corpus.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(tc)
}

// handleSearch serves keyword search over the loaded corpus. Keywords
// arrive comma-separated in the "q" query parameter.
func (s *Server) handleSearch(c fiber.Ctx) error {
	var keywords []string
	for _, kw := range strings.Split(c.Query("q"), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	limit := fiber.Query(c, "limit", defaultResultLimit)

	matches, err := s.ports.Corpus.SearchByKeywords(c.Context(), keywords, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"results": matches,
		"count":   len(matches),
	})
}

func (s *Server) handleDetect(c fiber.Ctx) error {
	var body struct {
		BugText string `json:"bug_text"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := s.ports.Detector.Detect(c.Context(), body.BugText)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(result)
}

// analyzeRequest is the body of POST /analyze.
type analyzeRequest struct {
	BugDescription     string  `json:"bug_description"`
	ReproSteps         string  `json:"repro_steps"`
	CodeChanges        string  `json:"code_changes"`
	Strictness         string  `json:"strictness"`
	TopK               int     `json:"top_k"`
	AutoLoad           *bool   `json:"auto_load"`
	Export             bool    `json:"export"`
	DuplicateThreshold float64 `json:"duplicate_threshold"`
}

func (s *Server) handleAnalyze(c fiber.Ctx) error {
	if s.ports.Analyzer == nil {
		return errorJSON(c, domain.ErrEmbeddingUnavailable)
	}

	var body analyzeRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	bug := domain.BugReport{
		Description: body.BugDescription,
		ReproSteps:  body.ReproSteps,
		CodeChanges: body.CodeChanges,
	}
	opts := domain.AnalyzeOptions{
		Strictness:         domain.StrictnessLevel(body.Strictness).OrDefault(),
		TopK:               body.TopK,
		AreaBoost:          true,
		AutoLoad:           body.AutoLoad == nil || *body.AutoLoad,
		Export:             body.Export,
		DuplicateThreshold: body.DuplicateThreshold,
	}

	report, err := s.ports.Analyzer.Analyze(c.Context(), bug, opts)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(report)
}

func (s *Server) handleSimilar(c fiber.Ctx) error {
	if s.ports.Analyzer == nil {
		return errorJSON(c, domain.ErrEmbeddingUnavailable)
	}

	var body struct {
		Text          string  `json:"text"`
		TopK          int     `json:"top_k"`
		MinSimilarity float64 `json:"min_similarity"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	matches, err := s.ports.Analyzer.FindSimilar(c.Context(), body.Text, domain.RankOptions{
		TopK:          body.TopK,
		MinSimilarity: body.MinSimilarity,
		AreaBoost:     true,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"results": matches,
		"count":   len(matches),
	})
}

func (s *Server) handleDuplicates(c fiber.Ctx) error {
	if s.ports.Duplicates == nil {
		return errorJSON(c, domain.ErrEmbeddingUnavailable)
	}

	var body struct {
		Area      string  `json:"area"`
		Threshold float64 `json:"threshold"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var pairs []domain.DuplicatePair
	var err error
	if body.Area != "" {
		pairs, err = s.ports.Duplicates.FindInShard(c.Context(), body.Area, body.Threshold)
	} else {
		pairs, err = s.ports.Duplicates.FindAll(c.Context(), body.Threshold)
	}
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"pairs": pairs,
		"count": len(pairs),
	})
}

// handleDownload serves exported CSV reports. The filename is
// sanitised to its base name so the handler cannot escape ExportDir.
func (s *Server) handleDownload(c fiber.Ctx) error {
	name := filepath.Base(c.Params("name"))
	if name == "." || name == string(filepath.Separator) || !strings.HasSuffix(name, ".csv") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid report name"})
	}
	return c.SendFile(filepath.Join(s.cfg.ExportDir, name))
}
