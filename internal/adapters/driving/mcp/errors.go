// Package mcp provides an MCP (Model Context Protocol) server adapter
// for matcha. It lets AI assistants query the test case corpus, detect
// relevant areas and rank candidates for a bug report.
package mcp

import "errors"

// Required port errors.
var (
	// ErrMissingCorpusService is returned when the corpus query service is not provided.
	ErrMissingCorpusService = errors.New("mcp: corpus query service is required")

	// ErrMissingDetectorService is returned when the detector service is not provided.
	ErrMissingDetectorService = errors.New("mcp: detector service is required")
)
