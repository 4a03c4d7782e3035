package model

// Stage names the step of the matching chain that produced a result.
type Stage string

const (
	// StageLearned is an exact hit in the learning store.
	StageLearned Stage = "learned"
	// StagePredefined is a match against a canonical rotation.
	StagePredefined Stage = "predefined"
	// StageClassifier is a sequence classifier prediction.
	StageClassifier Stage = "classifier"
	// StageSimilarity is the best semantic match in the catalog.
	StageSimilarity Stage = "similarity"
	// StagePeriodicity is a synthesized code from a repeating unit.
	StagePeriodicity Stage = "periodicity"
	// StageNone means no stage accepted the pattern.
	StageNone Stage = "none"
)

// MatchResult is the outcome of matching one pattern string.
type MatchResult struct {
	Code       string
	Stage      Stage
	Confidence float64
}

// Matched reports whether a code was found.
func (m MatchResult) Matched() bool {
	return m.Code != ""
}

// NoMatch is the result returned when every stage declines.
func NoMatch() MatchResult {
	return MatchResult{Stage: StageNone}
}

// Example is a labelled training pair for the sequence classifier.
type Example struct {
	Code     string
	Sequence []int
}

// Cluster groups unknown patterns with similar features.
type Cluster struct {
	Patterns []string
	ID       int
}

// DetectionResult is the per-row outcome of a batch detection run.
type DetectionResult struct {
	RowID   string
	Pattern string
	Labels  []ShiftLabel
	Match   MatchResult
	Learned bool
	Unknown bool
}

// DetectionReport summarises a batch detection run.
type DetectionReport struct {
	RunID   string
	Results []DetectionResult
	Matched int
	Learned int
	Unknown int
}

// CodeCount is a pattern code with the number of rows assigned to it.
type CodeCount struct {
	Code  string
	Count int
}

// LabelShare is a shift label with its share of all classified cells.
type LabelShare struct {
	Label   ShiftLabel
	Count   int
	Percent float64
}

// Insights summarises the codes and shifts seen in a detection run.
type Insights struct {
	TopCodes     []CodeCount
	Distribution []LabelShare
	TotalRows    int
	UniqueCodes  int
}

// CodeValidation splits assigned codes into catalog members and strangers.
type CodeValidation struct {
	Invalid []string
	Valid   int
}
