// Package orf finds open reading frames: regions bounded by an initiation
// codon and a termination codon in one consistent frame, on the direct
// strand, its reverse complement, or both.
package orf

import (
	"fmt"

	"orfmark/core/seq"
)

// Candidate is one ORF. Start and End are half-open offsets in direct
// strand coordinates, whatever strand the ORF was read on.
type Candidate struct {
	Strand seq.Strand
	Frame  int
	Start  int
	End    int

	// Terminated is set when an in-range stop codon closed the ORF.
	Terminated bool
	// IncludesStop is set when [Start, End) covers the stop codon.
	IncludesStop bool
	// PseudoStart marks ORFs opened on a non-initiator codon.
	PseudoStart bool
}

// Len is the ORF length in nucleotides.
func (c Candidate) Len() int { return c.End - c.Start }

func (c Candidate) String() string {
	return fmt.Sprintf("%s:%d %d-%d", c.Strand.Sign(), c.Frame, c.Start, c.End)
}

type key struct {
	strand     seq.Strand
	frame      int
	start, end int
}

func (c Candidate) key() key { return key{c.Strand, c.Frame, c.Start, c.End} }

// Result is the outcome of one search. A cancelled search carries no ORFs.
type Result struct {
	ORFs      []Candidate
	Cancelled bool
	// Truncated is set when MaxResults cut the list.
	Truncated bool
}
