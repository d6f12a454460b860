package domain

// BugReport is the free-text input to the matching pipeline.
type BugReport struct {
	// Description is the bug description.
	Description string `json:"bug_description"`

	// ReproSteps are the reproduction steps (optional).
	ReproSteps string `json:"repro_steps"`

	// CodeChanges describes the fix, when known (optional). Included
	// in the review prompt to help the reviewer judge impact.
	CodeChanges string `json:"code_changes"`
}

// Text returns the description and repro steps space-joined, the form
// used for both area detection and query embedding.
func (b BugReport) Text() string {
	return b.Description + " " + b.ReproSteps
}

// AnalyzeOptions configures a full bug analysis run.
type AnalyzeOptions struct {
	// Strictness selects the threshold preset.
	Strictness StrictnessLevel

	// TopK is the maximum number of similar test cases to rank.
	TopK int

	// AreaBoost enables the ranker's area-alignment adjustment.
	AreaBoost bool

	// AutoLoad detects relevant areas and loads only their shards.
	// When false the caller is expected to have loaded the corpus.
	AutoLoad bool

	// Export writes candidates clearing the export threshold to a CSV
	// report.
	Export bool

	// DuplicateThreshold overrides DefaultDuplicateThreshold when > 0.
	DuplicateThreshold float64
}

// RelatedTest is the reviewer's judgement on one candidate.
type RelatedTest struct {
	TestID     string `json:"test_id"`
	Reasoning  string `json:"reasoning"`
	Confidence int    `json:"confidence"`
}

// SuggestedUpdate is a reviewer-proposed change to an existing test.
type SuggestedUpdate struct {
	TestID string `json:"test_id"`
	Change string `json:"suggested_change"`
}

// ProposedTest is a reviewer-proposed new test case to fill a gap.
type ProposedTest struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
}

// DuplicateNote flags candidates the reviewer judged to overlap.
type DuplicateNote struct {
	TestIDs   []string `json:"test_ids"`
	Reasoning string   `json:"reasoning"`
}

// Review is the structured output of the LLM reviewer for a bug
// analysis. When the reviewer's response could not be parsed, the
// lists are empty and Raw carries the unparsed text.
type Review struct {
	RelatedTests     []RelatedTest     `json:"related_tests"`
	SuggestedUpdates []SuggestedUpdate `json:"suggested_updates"`
	ProposedTests    []ProposedTest    `json:"new_test_cases"`
	DuplicateTests   []DuplicateNote   `json:"duplicate_tests"`

	// Raw is the reviewer's raw response, kept when parsing failed.
	Raw string `json:"raw_response,omitempty"`
}

// AnalysisSummary carries the run's headline counts.
type AnalysisSummary struct {
	TotalTestCases  int        `json:"total_test_cases_analyzed"`
	SimilarFound    int        `json:"similar_tests_found"`
	Reviewed        int        `json:"high_confidence_tests_analyzed"`
	DuplicatesFound int        `json:"potential_duplicates_found"`
	Thresholds      Thresholds `json:"thresholds_used"`
}

// AnalysisReport is the assembled result of one bug analysis run.
type AnalysisReport struct {
	// ID identifies the run (used in export filenames).
	ID string `json:"id"`

	// Detection is the area detection result when AutoLoad was on.
	Detection *DetectionResult `json:"detection,omitempty"`

	// Matches are the ranked, threshold-filtered candidates.
	Matches []MatchCandidate `json:"similar_tests"`

	// Review is the LLM reviewer's structured analysis.
	Review Review `json:"claude_analysis"`

	// Duplicates are pairs found within the match set.
	Duplicates []DuplicatePair `json:"duplicate_analysis"`

	// Summary holds the headline counts and thresholds used.
	Summary AnalysisSummary `json:"summary"`

	// ExportPath is where the CSV report was written, when exported.
	ExportPath string `json:"csv_path,omitempty"`

	// Warnings lists non-fatal degradations (empty corpus, review
	// fallback, unparseable reviewer output).
	Warnings []string `json:"warnings,omitempty"`
}
