package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

// defaultResultLimit bounds tool output when the caller gives no limit.
const defaultResultLimit = 10

// TestCaseOutput is the wire form of a test case in tool results.
type TestCaseOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	State       string `json:"state"`
	Area        string `json:"area"`
	CreatedDate string `json:"created_date,omitempty"`
	Description string `json:"description,omitempty"`
	Steps       string `json:"steps,omitempty"`
	Shard       string `json:"shard"`
}

func toTestCaseOutput(tc domain.TestCase) TestCaseOutput {
	return TestCaseOutput{
		ID:          tc.ID,
		Title:       tc.Title,
		State:       tc.State,
		Area:        tc.Area,
		CreatedDate: tc.CreatedDate,
		Description: tc.Description,
		Steps:       tc.Steps,
		Shard:       tc.Shard,
	}
}

// DetectInput is the input schema for the detect_relevant_areas tool.
type DetectInput struct {
	BugText string `json:"bug_text" jsonschema:"the bug report text to classify"`
}

// DetectOutput is the output schema for the detect_relevant_areas tool.
type DetectOutput struct {
	Areas          []domain.AreaScore `json:"detected_areas"`
	TopArea        string             `json:"top_area"`
	Recommendation string             `json:"recommendation"`
}

// ListAreasOutput is the output schema for the list_areas tool.
type ListAreasOutput struct {
	Areas []AreaInfo `json:"areas"`
}

// AreaInfo describes one configured corpus area.
type AreaInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Keywords    int    `json:"keyword_count"`
}

// KeywordSearchInput is the input schema for the search_by_keywords tool.
type KeywordSearchInput struct {
	Keywords []string `json:"keywords" jsonschema:"keywords to match against test case text"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// KeywordSearchOutput is the output schema for the search_by_keywords tool.
type KeywordSearchOutput struct {
	Results []KeywordMatchOutput `json:"results"`
	Count   int                  `json:"count"`
}

// KeywordMatchOutput is a single keyword-search hit.
type KeywordMatchOutput struct {
	TestCase        TestCaseOutput `json:"test_case"`
	Relevance       float64        `json:"relevance_score"`
	MatchedKeywords []string       `json:"matched_keywords"`
}

// AreaSearchInput is the input schema for the search_by_area tool.
type AreaSearchInput struct {
	Area  string `json:"area" jsonschema:"the area (shard) name to list test cases from"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// AreaSearchOutput is the output schema for the search_by_area tool.
type AreaSearchOutput struct {
	Results []TestCaseOutput `json:"results"`
	Count   int              `json:"count"`
}

// GetTestCaseInput is the input schema for the get_test_case tool.
type GetTestCaseInput struct {
	ID string `json:"id" jsonschema:"the test case identifier"`
}

// GetTestCaseOutput is the output schema for the get_test_case tool.
type GetTestCaseOutput struct {
	TestCase TestCaseOutput `json:"test_case"`
}

// StatisticsOutput is the output schema for the get_statistics tool.
type StatisticsOutput struct {
	TotalTestCases int                               `json:"total_test_cases"`
	Shards         map[string]domain.ShardStatistics `json:"shards"`
}

// FindSimilarInput is the input schema for the find_similar tool.
type FindSimilarInput struct {
	Text          string  `json:"text" jsonschema:"the bug report or query text"`
	TopK          int     `json:"top_k,omitempty" jsonschema:"maximum number of candidates to return (default 15)"`
	MinSimilarity float64 `json:"min_similarity,omitempty" jsonschema:"discard candidates scoring below this (default 0)"`
}

// FindSimilarOutput is the output schema for the find_similar tool.
type FindSimilarOutput struct {
	Results []MatchOutput `json:"results"`
	Count   int           `json:"count"`
}

// MatchOutput is a single similarity match.
type MatchOutput struct {
	TestCase TestCaseOutput `json:"test_case"`
	Score    float64        `json:"similarity_score"`
}

// FindDuplicatesInput is the input schema for the find_duplicates tool.
type FindDuplicatesInput struct {
	Area      string  `json:"area,omitempty" jsonschema:"limit the scan to one area (shard); empty scans all"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"pair similarity floor (default 0.9)"`
}

// FindDuplicatesOutput is the output schema for the find_duplicates tool.
type FindDuplicatesOutput struct {
	Pairs []DuplicatePairOutput `json:"pairs"`
	Count int                   `json:"count"`
}

// DuplicatePairOutput is a single near-duplicate pair.
type DuplicatePairOutput struct {
	A              TestCaseOutput `json:"test_case_1"`
	B              TestCaseOutput `json:"test_case_2"`
	Score          float64        `json:"similarity_score"`
	Classification string         `json:"classification,omitempty"`
	Reasoning      string         `json:"reasoning,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_relevant_areas",
		Description: "Detect which functional areas a bug report belongs to, with a corpus loading recommendation",
	}, s.handleDetect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_areas",
		Description: "List the configured functional areas of the test case corpus",
	}, s.handleListAreas)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_by_keywords",
		Description: "Search loaded test cases by keywords, ranked by how many keywords match",
	}, s.handleKeywordSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_by_area",
		Description: "List test cases loaded for a specific area",
	}, s.handleAreaSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_test_case",
		Description: "Fetch a single test case by its identifier",
	}, s.handleGetTestCase)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_statistics",
		Description: "Summarise the loaded corpus: totals per shard and per lifecycle state",
	}, s.handleStatistics)

	if s.ports.Analyzer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "find_similar",
			Description: "Rank test cases by semantic similarity to the given bug text",
		}, s.handleFindSimilar)
	}

	if s.ports.Duplicates != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "find_duplicates",
			Description: "Scan the corpus for near-identical test case pairs",
		}, s.handleFindDuplicates)
	}
}

// handleDetect handles the detect_relevant_areas tool invocation.
func (s *Server) handleDetect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DetectInput,
) (*mcp.CallToolResult, DetectOutput, error) {
	result, err := s.ports.Detector.Detect(ctx, input.BugText)
	if err != nil {
		return nil, DetectOutput{}, err
	}

	return nil, DetectOutput{
		Areas:          result.Areas,
		TopArea:        result.TopArea,
		Recommendation: result.Recommendation,
	}, nil
}

// handleListAreas handles the list_areas tool invocation.
func (s *Server) handleListAreas(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListAreasOutput, error) {
	areas, err := s.ports.Detector.Areas(ctx)
	if err != nil {
		return nil, ListAreasOutput{}, err
	}

	output := ListAreasOutput{Areas: make([]AreaInfo, len(areas))}
	for i, area := range areas {
		output.Areas[i] = AreaInfo{
			Name:        area.Name,
			Description: area.Description,
			Priority:    area.Priority,
			Keywords:    len(area.Keywords),
		}
	}
	return nil, output, nil
}

// handleKeywordSearch handles the search_by_keywords tool invocation.
func (s *Server) handleKeywordSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input KeywordSearchInput,
) (*mcp.CallToolResult, KeywordSearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}

	matches, err := s.ports.Corpus.SearchByKeywords(ctx, input.Keywords, limit)
	if err != nil {
		return nil, KeywordSearchOutput{}, err
	}

	output := KeywordSearchOutput{
		Results: make([]KeywordMatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Results[i] = KeywordMatchOutput{
			TestCase:        toTestCaseOutput(m.TestCase),
			Relevance:       m.Relevance,
			MatchedKeywords: m.MatchedKeywords,
		}
	}
	return nil, output, nil
}

// handleAreaSearch handles the search_by_area tool invocation.
func (s *Server) handleAreaSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AreaSearchInput,
) (*mcp.CallToolResult, AreaSearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}

	records, err := s.ports.Corpus.SearchByArea(ctx, input.Area, limit)
	if err != nil {
		return nil, AreaSearchOutput{}, err
	}

	output := AreaSearchOutput{
		Results: make([]TestCaseOutput, len(records)),
		Count:   len(records),
	}
	for i, tc := range records {
		output.Results[i] = toTestCaseOutput(tc)
	}
	return nil, output, nil
}

// handleGetTestCase handles the get_test_case tool invocation.
func (s *Server) handleGetTestCase(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetTestCaseInput,
) (*mcp.CallToolResult, GetTestCaseOutput, error) {
	tc, err := s.ports.Corpus.GetByID(ctx, input.ID)
	if err != nil {
		return nil, GetTestCaseOutput{}, err
	}
	return nil, GetTestCaseOutput{TestCase: toTestCaseOutput(tc)}, nil
}

// handleStatistics handles the get_statistics tool invocation.
func (s *Server) handleStatistics(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatisticsOutput, error) {
	stats, err := s.ports.Corpus.Statistics(ctx)
	if err != nil {
		return nil, StatisticsOutput{}, err
	}
	return nil, StatisticsOutput{
		TotalTestCases: stats.TotalTestCases,
		Shards:         stats.Shards,
	}, nil
}

// handleFindSimilar handles the find_similar tool invocation.
func (s *Server) handleFindSimilar(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindSimilarInput,
) (*mcp.CallToolResult, FindSimilarOutput, error) {
	opts := domain.RankOptions{
		TopK:          input.TopK,
		MinSimilarity: input.MinSimilarity,
		AreaBoost:     true,
	}
	matches, err := s.ports.Analyzer.FindSimilar(ctx, input.Text, opts)
	if err != nil {
		return nil, FindSimilarOutput{}, err
	}

	output := FindSimilarOutput{
		Results: make([]MatchOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Results[i] = MatchOutput{
			TestCase: toTestCaseOutput(m.TestCase),
			Score:    m.Score,
		}
	}
	return nil, output, nil
}

// handleFindDuplicates handles the find_duplicates tool invocation.
func (s *Server) handleFindDuplicates(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindDuplicatesInput,
) (*mcp.CallToolResult, FindDuplicatesOutput, error) {
	var pairs []domain.DuplicatePair
	var err error
	if input.Area != "" {
		pairs, err = s.ports.Duplicates.FindInShard(ctx, input.Area, input.Threshold)
	} else {
		pairs, err = s.ports.Duplicates.FindAll(ctx, input.Threshold)
	}
	if err != nil {
		return nil, FindDuplicatesOutput{}, err
	}

	output := FindDuplicatesOutput{
		Pairs: make([]DuplicatePairOutput, len(pairs)),
		Count: len(pairs),
	}
	for i, p := range pairs {
		output.Pairs[i] = DuplicatePairOutput{
			A:              toTestCaseOutput(p.A),
			B:              toTestCaseOutput(p.B),
			Score:          p.Score,
			Classification: p.Classification,
			Reasoning:      p.Reasoning,
		}
	}
	return nil, output, nil
}
