package domain

// StrictnessLevel names a threshold preset for the matching pipeline.
type StrictnessLevel string

// The three supported strictness levels.
const (
	StrictnessLenient  StrictnessLevel = "lenient"
	StrictnessModerate StrictnessLevel = "moderate"
	StrictnessStrict   StrictnessLevel = "strict"
)

// Thresholds bundles the three independent similarity gates a
// strictness level controls.
type Thresholds struct {
	// MinSimilarity gates which candidates are returned at all.
	MinSimilarity float64 `json:"min_similarity"`

	// Review gates which candidates are forwarded to the LLM reviewer.
	Review float64 `json:"review"`

	// Export gates which candidates appear in an exported report.
	// Independently configurable; not required to match the others.
	Export float64 `json:"export"`
}

var strictnessTable = map[StrictnessLevel]Thresholds{
	StrictnessLenient:  {MinSimilarity: 0.35, Review: 0.45, Export: 0.40},
	StrictnessModerate: {MinSimilarity: 0.50, Review: 0.55, Export: 0.50},
	StrictnessStrict:   {MinSimilarity: 0.65, Review: 0.70, Export: 0.60},
}

// Thresholds returns the preset for the level. Unknown levels fall
// back to lenient.
func (l StrictnessLevel) Thresholds() Thresholds {
	if t, ok := strictnessTable[l]; ok {
		return t
	}
	return strictnessTable[StrictnessLenient]
}

// Valid reports whether the level is one of the three named presets.
func (l StrictnessLevel) Valid() bool {
	_, ok := strictnessTable[l]
	return ok
}

// OrDefault returns the level when valid, else the lenient fallback.
func (l StrictnessLevel) OrDefault() StrictnessLevel {
	if l.Valid() {
		return l
	}
	return StrictnessLenient
}

// ParseStrictness maps a user-supplied name to a level, falling back
// to lenient for anything unrecognised.
func ParseStrictness(s string) StrictnessLevel {
	level := StrictnessLevel(s)
	if level.Valid() {
		return level
	}
	return StrictnessLenient
}

// DefaultDuplicateThreshold is the default pair-similarity floor for
// duplicate detection. Deliberately independent of the strictness
// presets; tunable per call.
const DefaultDuplicateThreshold = 0.90

// MaxDuplicatePairs caps how many pairs are forwarded to the LLM
// reviewer regardless of how many clear the threshold.
const MaxDuplicatePairs = 20
