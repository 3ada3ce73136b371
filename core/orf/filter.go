package orf

// filter applies the per-candidate constraints and the stop-codon trim.
// Rejections are ordinary data outcomes, so it reports only keep/drop.
func filter(sp span, set *Settings) (span, bool) {
	if sp.pseudoStart && set.RequireInitCodon {
		return sp, false
	}
	n := sp.end - sp.start
	if n < set.MinLength {
		return sp, false
	}
	if set.MaxLength > 0 && n > set.MaxLength {
		return sp, false
	}
	if sp.terminated && !set.IncludeStop {
		sp.end -= 3
	}
	return sp, true
}
