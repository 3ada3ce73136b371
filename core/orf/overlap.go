package orf

// resolveNested keeps, for every group of spans sharing an end within one
// (strand, frame), only the one with the smallest start. Spans from other
// frames or strands are never compared.
func resolveNested(spans []span) []span {
	if len(spans) < 2 {
		return spans
	}
	best := make(map[int]int, len(spans)) // end -> index into spans
	order := make([]int, 0, len(spans))
	for i, sp := range spans {
		j, seen := best[sp.end]
		if !seen {
			best[sp.end] = i
			order = append(order, sp.end)
			continue
		}
		if sp.start < spans[j].start {
			best[sp.end] = i
		}
	}
	out := make([]span, 0, len(order))
	for _, end := range order {
		out = append(out, spans[best[end]])
	}
	return out
}
