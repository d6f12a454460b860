package domain

import "strings"

// TestCase represents a single QA test case loaded from a corpus shard.
// Records are immutable after load; a reload replaces the whole shard.
type TestCase struct {
	// ID is the identifier from the external tracking system.
	// Unique within a shard, but NOT guaranteed unique across shards.
	ID string

	// Title is the test case title.
	Title string

	// State is the lifecycle state from the external system
	// (e.g. "Ready", "Design"). Treated as an opaque string.
	State string

	// Area is the hierarchical area path, backslash-separated.
	// Example: `ExpertSuite\Financials\Billing`.
	Area string

	// CreatedDate is the creation date as exported, unparsed.
	CreatedDate string

	// Description is the free-text description.
	Description string

	// Steps is the free-text reproduction/verification steps.
	Steps string

	// Shard is the name of the corpus shard this record was loaded into.
	Shard string
}

// CombinedText returns the text used for embedding: title, description
// and steps space-joined in that fixed order.
func (tc TestCase) CombinedText() string {
	return tc.Title + " " + tc.Description + " " + tc.Steps
}

// AreaTokens splits the area path into lower-cased tokens on path
// separators and whitespace. Used by the ranker's area boost.
func (tc TestCase) AreaTokens() []string {
	fields := strings.FieldsFunc(strings.ToLower(tc.Area), func(r rune) bool {
		return r == '\\' || r == '/' || r == ' ' || r == '\t'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// CorpusStatistics summarises the loaded corpus.
type CorpusStatistics struct {
	// TotalTestCases is the record count across all shards.
	TotalTestCases int

	// Shards maps shard name to its per-shard breakdown.
	Shards map[string]ShardStatistics
}

// ShardStatistics is the per-shard record count and state breakdown.
type ShardStatistics struct {
	// Total is the number of records in the shard.
	Total int

	// States maps lifecycle state to record count.
	States map[string]int
}
