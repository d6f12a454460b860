// Package domain defines the core business entities for Matcha.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TestCase: A QA test case record loaded from a corpus shard
//   - AreaConfig: A named corpus area with detection keywords
//   - BugReport: The free-text input to the matching pipeline
//   - MatchCandidate / DuplicatePair: Transient scoring results
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
