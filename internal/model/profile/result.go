package profile

// Result is the extractor's read on a single dimension.
type Result struct {
	Assessment         string   `json:"assessment"`
	Confidence         float64  `json:"confidence"`
	SupportingEvidence []string `json:"supporting_evidence"`
}

// Profile maps every dimension key from Schema to its Result. Extraction
// is total: a Profile always carries the complete key set.
type Profile map[string]Result

// EmptyTemplate returns a Profile with every schema key zeroed. It is the
// degraded-but-valid answer used whenever the model output is missing or
// unusable.
func EmptyTemplate() Profile {
	p := make(Profile, len(Schema()))
	for _, dim := range Schema() {
		p[dim.Key] = Result{SupportingEvidence: []string{}}
	}
	return p
}

// Band labels a confidence score for display purposes.
type Band string

const (
	BandHigh     Band = "high"
	BandModerate Band = "moderate"
	BandLow      Band = "low"
)

// ConfidenceBand classifies a confidence score. Lower bounds are closed:
// 0.7 is high, 0.4 is moderate.
func ConfidenceBand(confidence float64) Band {
	switch {
	case confidence >= 0.7:
		return BandHigh
	case confidence >= 0.4:
		return BandModerate
	default:
		return BandLow
	}
}
