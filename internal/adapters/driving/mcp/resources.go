package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for matcha resources.
const uriScheme = "matcha://"

// areaResourceLimit bounds a per-area resource read. Shards can hold
// hundreds of records; resources are meant for browsing, not export.
const areaResourceLimit = 100

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for corpus statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "corpus-statistics",
		Description: "Loaded corpus totals per shard and lifecycle state",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	// Static resource for the configured area table.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "areas",
		Name:        "areas",
		Description: "Configured functional areas of the test case corpus",
		MIMEType:    "application/json",
	}, s.handleAreasResource)

	// Template for per-area test case listings.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "areas/{area}/test-cases",
		Name:        "area-test-cases",
		Description: "Test cases loaded for a specific area",
		MIMEType:    "application/json",
	}, s.handleAreaTestCasesResource)
}

// handleStatsResource returns the loaded corpus statistics.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Corpus.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading corpus statistics: %w", err)
	}

	data, err := json.MarshalIndent(StatisticsOutput{
		TotalTestCases: stats.TotalTestCases,
		Shards:         stats.Shards,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling statistics: %w", err)
	}

	return jsonResource(req.Params.URI, data), nil
}

// handleAreasResource returns the configured area table.
func (s *Server) handleAreasResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	areas, err := s.ports.Detector.Areas(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing areas: %w", err)
	}

	infos := make([]AreaInfo, len(areas))
	for i, area := range areas {
		infos[i] = AreaInfo{
			Name:        area.Name,
			Description: area.Description,
			Priority:    area.Priority,
			Keywords:    len(area.Keywords),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling areas: %w", err)
	}

	return jsonResource(req.Params.URI, data), nil
}

// handleAreaTestCasesResource returns test cases for a specific area.
func (s *Server) handleAreaTestCasesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	area := extractAreaName(req.Params.URI)
	if area == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Corpus.SearchByArea(ctx, area, areaResourceLimit)
	if err != nil {
		return nil, fmt.Errorf("listing test cases for %s: %w", area, err)
	}

	infos := make([]TestCaseOutput, len(records))
	for i, tc := range records {
		infos[i] = toTestCaseOutput(tc)
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling test cases: %w", err)
	}

	return jsonResource(req.Params.URI, data), nil
}

// jsonResource wraps serialised JSON in a single-content read result.
func jsonResource(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractAreaName extracts the area from a URI like matcha://areas/{area}/test-cases.
func extractAreaName(uri string) string {
	const prefix = uriScheme + "areas/"
	const suffix = "/test-cases"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
