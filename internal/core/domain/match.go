package domain

// Area boost parameters. The boost is additive on top of cosine
// similarity: at least one area token in the query earns up to
// MaxAreaBoost, none at all costs AreaPenalty. The boosted score is
// clamped at 1.0 but has no floor; slightly negative scores simply
// sort last.
const (
	MaxAreaBoost      = 0.15
	AreaBoostPerMatch = 0.08
	AreaPenalty       = 0.05
)

// RankOptions configures a similarity ranking call.
type RankOptions struct {
	// TopK is the maximum number of candidates to return.
	TopK int

	// MinSimilarity discards candidates scoring below it, after any
	// area adjustment.
	MinSimilarity float64

	// AreaBoost enables the area-alignment adjustment.
	AreaBoost bool
}

// MatchCandidate pairs a test case with its similarity score against
// the query. Transient; produced fresh per ranking call.
type MatchCandidate struct {
	TestCase TestCase `json:"test_case"`
	Score    float64  `json:"similarity_score"`
}

// Duplicate pair classifications assigned by the LLM reviewer.
const (
	DuplicateTrue     = "true duplicate"
	DuplicateOverlap  = "overlapping"
	DuplicateDistinct = "distinct"
)

// DuplicatePair pairs two test cases whose similarity cleared the
// duplicate threshold. Classification fields are empty until (and
// unless) the LLM reviewer annotates the pair.
type DuplicatePair struct {
	A     TestCase `json:"test_case_1"`
	B     TestCase `json:"test_case_2"`
	Score float64  `json:"similarity_score"`

	// Classification is one of DuplicateTrue, DuplicateOverlap or
	// DuplicateDistinct, or "" when the reviewer was unavailable or
	// its response could not be parsed.
	Classification string `json:"classification,omitempty"`

	// Reasoning is the reviewer's explanation.
	Reasoning string `json:"reasoning,omitempty"`

	// Recommendation suggests consolidation or keeping both.
	Recommendation string `json:"recommendation,omitempty"`
}

// KeywordMatch is a corpus keyword-search hit.
type KeywordMatch struct {
	TestCase TestCase `json:"test_case"`

	// Relevance is matched keywords divided by keywords searched.
	Relevance float64 `json:"relevance_score"`

	// MatchedKeywords lists the searched keywords found in the
	// record's combined text.
	MatchedKeywords []string `json:"matched_keywords"`
}
