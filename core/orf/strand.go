package orf

import (
	"context"
	"sort"

	"orfmark/core/gcode"
	"orfmark/core/seq"
)

// checkEvery is the number of codons scanned between cancellation checks.
const checkEvery = 1024

// pair is one (strand, frame) scan unit.
type pair struct {
	strand seq.Strand
	frame  int
}

func pairsFor(sel seq.StrandSelection) []pair {
	var out []pair
	for _, st := range sel.Strands() {
		for f := 0; f < 3; f++ {
			out = append(out, pair{strand: st, frame: f})
		}
	}
	return out
}

// scanPair runs scanner -> builder -> filter -> resolver over one view and
// maps the survivors back to direct coordinates. It reads view and set
// only.
func scanPair(ctx context.Context, view []byte, region seq.Region, p pair, table *gcode.Table, set *Settings) ([]Candidate, error) {
	sc := newFrameScanner(view, p.frame, table)
	b := newBuilder(set)
	for n := 1; ; n++ {
		off, kind, ok := sc.next()
		if !ok {
			break
		}
		b.codon(off, kind)
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	b.finish(len(view))

	kept := b.out[:0]
	for _, sp := range b.out {
		if sp, ok := filter(sp, set); ok {
			kept = append(kept, sp)
		}
	}
	if !set.AllowOverlaps {
		kept = resolveNested(kept)
	}

	out := make([]Candidate, 0, len(kept))
	for _, sp := range kept {
		c := Candidate{
			Strand:       p.strand,
			Frame:        p.frame,
			Terminated:   sp.terminated,
			IncludesStop: sp.terminated && set.IncludeStop,
			PseudoStart:  sp.pseudoStart,
		}
		if p.strand == seq.Complement {
			c.Start = region.Start + len(view) - sp.end
			c.End = region.Start + len(view) - sp.start
		} else {
			c.Start = region.Start + sp.start
			c.End = region.Start + sp.end
		}
		out = append(out, c)
	}
	return out, nil
}

// less orders by start, Direct before Complement, frame, then end.
func less(a, b Candidate) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.Strand != b.Strand {
		return a.Strand < b.Strand
	}
	if a.Frame != b.Frame {
		return a.Frame < b.Frame
	}
	return a.End < b.End
}

// merge joins per-pair results into one ordered, unique list and applies
// the result cap after global ordering.
func merge(parts [][]Candidate, maxResults int) (out []Candidate, truncated bool) {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out = make([]Candidate, 0, n)
	seen := make(map[key]struct{}, n)
	for _, p := range parts {
		for _, c := range p {
			if _, dup := seen[c.key()]; dup {
				continue
			}
			seen[c.key()] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
		truncated = true
	}
	return out, truncated
}
