package engine

// extractFuneralNarrative scans funeral/death prose. Funeral ledgers are
// rare enough that no tabular variant exists; tabular-looking funeral
// input takes this path over the flattened text.
func extractFuneralNarrative(text string, penalty float64) candidateSet {
	out := candidateSet{}
	applyPatterns(text, funeralNarrativePatterns, penalty, out)
	return out
}
