package domain

// Area detection thresholds. Keyword matching is substring-based, not
// tokenised: "AP" matches inside "happy". That imprecision is inherited
// from the upstream corpus configuration and kept as-is.
const (
	// MinKeywordMatches is the floor below which an area is not
	// reported as detected at all.
	MinKeywordMatches = 2

	// HighConfidence marks a detection strong enough to narrow the
	// corpus to a single area (with 3+ matches).
	HighConfidence = 0.50

	// ModerateConfidence marks a detection worth narrowing to the top
	// area alone.
	ModerateConfidence = 0.30

	// SecondaryConfidence is the bar a runner-up area must clear to be
	// loaded alongside the top area for a multi-area bug.
	SecondaryConfidence = 0.35
)

// AreaConfig describes one named corpus area. Areas are static
// configuration, not derived from the loaded corpus.
type AreaConfig struct {
	// Name is the area (shard) name, e.g. "Billing".
	Name string `toml:"name"`

	// Keywords are the detection keywords matched as case-insensitive
	// substrings of the bug text.
	Keywords []string `toml:"keywords"`

	// Description is a human-readable summary of the area, included in
	// review prompts and area listings.
	Description string `toml:"description"`

	// Priority ranks areas for tie-breaking; lower is checked first.
	Priority int `toml:"priority"`

	// File is the CSV filename holding the area's test cases, relative
	// to the corpus directory.
	File string `toml:"file"`
}

// AreaScore is one area's detection result.
type AreaScore struct {
	// Name is the area name.
	Name string `json:"area_name"`

	// Confidence is min(1, m*0.15 + m²*0.02) for m matched keywords.
	Confidence float64 `json:"confidence"`

	// MatchedKeywords is the number of keywords found in the bug text.
	MatchedKeywords int `json:"matched_keywords"`

	// TotalKeywords is the number of keywords configured for the area.
	TotalKeywords int `json:"total_keywords"`
}

// DetectionResult is the output of area detection over a bug report.
type DetectionResult struct {
	// Areas lists detected areas, best first. Areas with fewer than
	// MinKeywordMatches matches are excluded entirely.
	Areas []AreaScore `json:"detected_areas"`

	// TopArea is the best area name, or "" when nothing was detected.
	TopArea string `json:"top_area"`

	// Recommendation is a human-readable loading recommendation.
	Recommendation string `json:"recommendation"`
}

// ShardsToLoad decides which shards the caller should load. It narrows
// to the top area when it clears the moderate bar with at least two
// matches, adds the runner-up when it clears the secondary bar with at
// least three matches, and otherwise falls back to every shard.
func (d DetectionResult) ShardsToLoad(all []string) []string {
	if len(d.Areas) == 0 {
		return all
	}

	top := d.Areas[0]
	if top.Confidence < ModerateConfidence || top.MatchedKeywords < MinKeywordMatches {
		return all
	}

	shards := []string{top.Name}
	if len(d.Areas) > 1 {
		second := d.Areas[1]
		if second.Confidence >= SecondaryConfidence && second.MatchedKeywords >= 3 {
			shards = append(shards, second.Name)
		}
	}
	return shards
}

// DefaultAreas returns the built-in area table used when no area
// configuration file is present.
func DefaultAreas() []AreaConfig {
	return []AreaConfig{
		{
			Name: "Expert Disbursements",
			Keywords: []string{
				"disbursement", "disb", "disbursements", "expense",
				"reimbursement", "posting", "split", "merge",
				"session", "cost code", "anticipated", "release",
				"hard disbursement", "soft disbursement", "WIP",
			},
			Description: "Expense tracking and reimbursement processing: creating, editing and posting disbursements, split and merge operations, session management, currency handling and cost codes.",
			Priority:    1,
			File:        "test_cases_expert_disbursements.csv",
		},
		{
			Name: "Accounts Payable",
			Keywords: []string{
				"accounts payable", "AP", "vendor", "payment",
				"invoice entry", "payable", "check", "voucher",
				"vendor invoice", "AP invoice", "payment processing",
			},
			Description: "Vendor invoice processing and payments: invoice entry and editing, payment processing, check generation, voucher management and approval workflow.",
			Priority:    2,
			File:        "test_cases_accounts_payable.csv",
		},
		{
			Name: "Collections",
			Keywords: []string{
				"collections", "collector", "payor", "payment plan",
				"AR", "receivable", "activity", "expected payment",
				"aging", "outstanding", "collection activity",
				"payor workspace",
			},
			Description: "Account receivables and collection activities: collector workspace, payor management, payment plans, expected payment tracking and aging analysis.",
			Priority:    3,
			File:        "test_cases_collections.csv",
		},
		{
			Name: "Billing",
			Keywords: []string{
				"billing", "bill", "prebill", "invoice", "WIP",
				"prebilling", "markup", "realization", "timekeeper",
				"rate", "narrative", "proforma", "writeoff", "write-off",
				"billing worksheet", "final bill",
			},
			Description: "Invoicing and billing workflow: prebilling and markup, WIP management, invoice generation, proforma bills, timekeeper rates, realization and writeoffs.",
			Priority:    4,
			File:        "test_cases_billing.csv",
		},
		{
			// Most generic area, checked last.
			Name: "Infrastructure",
			Keywords: []string{
				"infrastructure", "security", "expansion code",
				"smartform", "customization", "deployment",
				"upgrade", "toolkit", "workflow", "UX toolkit",
				"permissions", "user management", "configuration",
			},
			Description: "System-level features and customisation: security and user management, expansion codes, SmartForms, UX toolkit, workflow customisation and deployment.",
			Priority:    5,
			File:        "test_cases_infrastructure.csv",
		},
	}
}
