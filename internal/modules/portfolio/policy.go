package portfolio

// Policy holds the rule thresholds for portfolio recommendations. The rules
// themselves are simple and advisory; every cutoff here is tunable rather
// than settled, so backtests can adjust them without touching the rule code.
type Policy struct {
	// ReduceScoreFloor: holdings whose rapid-scenario score falls below
	// this are reduce candidates...
	ReduceScoreFloor float64
	// ...but only when their value share is at least this large; trimming
	// a sliver position is not worth a recommendation.
	ReduceMinWeight float64

	// AddScoreFloor: universe companies need at least this hyper-scenario
	// score to be suggested as additions.
	AddScoreFloor float64
	// MaxAddCandidates bounds the number of add suggestions.
	MaxAddCandidates int

	// ConcentrationThreshold is the sector value share above which a
	// concentration is examined.
	ConcentrationThreshold float64
	// VulnerabilityScore: a concentrated sector is only warned about when
	// its average rapid-scenario score is also below this. Large and
	// strong is fine; large and weak is the risk.
	VulnerabilityScore float64

	// StrongFactorCutoff marks a company as "strong" in a factor for the
	// factor breakdown's strong-share annotation.
	StrongFactorCutoff float64
}

// DefaultPolicy returns the production recommendation policy.
func DefaultPolicy() Policy {
	return Policy{
		ReduceScoreFloor:       50,
		ReduceMinWeight:        0.05,
		AddScoreFloor:          70,
		MaxAddCandidates:       3,
		ConcentrationThreshold: 0.40,
		VulnerabilityScore:     55,
		StrongFactorCutoff:     70,
	}
}
