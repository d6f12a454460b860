package mcp

import (
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Corpus provides read access to the loaded test case corpus.
	Corpus driving.CorpusQueryService

	// Detector scores bug text against the configured areas.
	Detector driving.DetectorService

	// Analyzer ranks candidates by embedding similarity. Optional;
	// without it the find_similar tool is not registered.
	Analyzer driving.AnalyzerService

	// Duplicates scans shards for near-identical pairs. Optional;
	// without it the find_duplicates tool is not registered.
	Duplicates driving.DuplicateService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	if p.Detector == nil {
		return ErrMissingDetectorService
	}
	// Analyzer and Duplicates are optional; they need a configured
	// embedding provider.
	return nil
}
