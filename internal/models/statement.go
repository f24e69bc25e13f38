package models

// Confidence is the degree of certainty attached to a bank detection.
type Confidence string

const (
	// ConfidenceCertain means the bank name was found in the statement text.
	ConfidenceCertain Confidence = "certain"
	// ConfidenceHeuristic means only a weak signal matched, usually the filename.
	ConfidenceHeuristic Confidence = "heuristic"
	// ConfidenceUnknown means the generic fallback strategy was used.
	ConfidenceUnknown Confidence = "unknown"
)

// FormatMatch identifies the institution that produced a statement and the
// strategy that should parse it.
type FormatMatch struct {
	BankName   string     `json:"bankName" yaml:"bank_name"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	StrategyID string     `json:"strategyId" yaml:"strategy_id"`
}

// NeedsReview reports whether the caller should flag the result for a human
// check instead of trusting it like a certain match.
func (m FormatMatch) NeedsReview() bool {
	return m.Confidence != ConfidenceCertain
}

// QualityReport carries the counts produced by validation. LowText is set by
// the extractor when the document held too little text to be a text-layer
// statement.
type QualityReport struct {
	TotalFound        int  `json:"totalFound"`
	DuplicatesRemoved int  `json:"duplicatesRemoved"`
	Rejected          int  `json:"rejected"`
	LowText           bool `json:"lowText"`
}

// ConversionResult is everything a single conversion hands back to the caller.
type ConversionResult struct {
	BankName            string
	DetectionConfidence Confidence
	StrategyID          string
	Transactions        []Transaction
	AccountNumber       string
	SortCode            string
	Quality             QualityReport
}
