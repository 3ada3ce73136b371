// Package gcode holds genetic-code tables: the codon → amino acid mapping
// and the start / alternative start / stop classification the ORF engine
// consumes read-only.
package gcode

import (
	"fmt"
	"sort"
	"strings"

	"orfmark/core/seq"
)

// CodonKind classifies a codon for ORF search.
type CodonKind uint8

const (
	Ordinary CodonKind = iota
	Start
	AltStart
	Stop
)

func (k CodonKind) String() string {
	switch k {
	case Start:
		return "start"
	case AltStart:
		return "alt-start"
	case Stop:
		return "stop"
	}
	return "ordinary"
}

// Table is an immutable genetic code. Codons are indexed in NCBI order
// (T C A G for each position).
type Table struct {
	ID   int
	Name string

	aas   [64]byte
	kinds [64]CodonKind
}

// codonIndex returns 16*b1+4*b2+b3, or -1 when any base is ambiguous.
func codonIndex(c []byte) int {
	if len(c) < 3 {
		return -1
	}
	i0, i1, i2 := seq.BaseIndex(c[0]), seq.BaseIndex(c[1]), seq.BaseIndex(c[2])
	if i0 < 0 || i1 < 0 || i2 < 0 {
		return -1
	}
	return i0<<4 | i1<<2 | i2
}

func indexCodon(i int) string {
	const bases = "TCAG"
	return string([]byte{bases[i>>4], bases[(i>>2)&3], bases[i&3]})
}

// Classify returns the kind of the first three symbols of codon. Codons
// with ambiguous or unknown symbols are Ordinary.
func (t *Table) Classify(codon []byte) CodonKind {
	i := codonIndex(codon)
	if i < 0 {
		return Ordinary
	}
	return t.kinds[i]
}

// AminoAcid translates one codon; ambiguous codons translate to 'X'.
func (t *Table) AminoAcid(codon []byte) byte {
	i := codonIndex(codon)
	if i < 0 {
		return 'X'
	}
	return t.aas[i]
}

// Codons lists the codons of the given kind in NCBI order.
func (t *Table) Codons(kind CodonKind) []string {
	var out []string
	for i, k := range t.kinds {
		if k == kind {
			out = append(out, indexCodon(i))
		}
	}
	return out
}

// FromNCBI builds a table from the 64-letter AAs and Starts lines of the
// NCBI genetic code listing. Stops come from '*' in aas. Among the codons
// marked 'M' in starts, ATG is the initiator and the rest are alternative
// initiators; when ATG is not marked, every marked codon is an initiator.
func FromNCBI(id int, name, aas, starts string) (*Table, error) {
	if len(aas) != 64 || len(starts) != 64 {
		return nil, fmt.Errorf("genetic code %d: want 64-letter AAs and Starts lines, got %d and %d", id, len(aas), len(starts))
	}
	t := &Table{ID: id, Name: name}
	atg := codonIndex([]byte("ATG"))
	atgInit := starts[atg] == 'M'
	for i := 0; i < 64; i++ {
		t.aas[i] = aas[i]
		switch {
		case aas[i] == '*':
			t.kinds[i] = Stop
		case starts[i] == 'M' && (i == atg || !atgInit):
			t.kinds[i] = Start
		case starts[i] == 'M':
			t.kinds[i] = AltStart
		}
	}
	return t, t.check()
}

// FromCodons builds a table from explicit codon lists on top of the amino
// acid line of base (the standard code when base is nil).
func FromCodons(id int, name string, base *Table, starts, altStarts, stops []string) (*Table, error) {
	if base == nil {
		base = Standard()
	}
	t := &Table{ID: id, Name: name, aas: base.aas}
	mark := func(list []string, kind CodonKind) error {
		for _, c := range list {
			i := codonIndex([]byte(strings.ToUpper(c)))
			if i < 0 || len(c) != 3 {
				return fmt.Errorf("genetic code %d: bad codon %q", id, c)
			}
			if t.kinds[i] != Ordinary && t.kinds[i] != kind {
				return fmt.Errorf("genetic code %d: codon %s listed as both %s and %s", id, c, t.kinds[i], kind)
			}
			t.kinds[i] = kind
			if kind == Stop {
				t.aas[i] = '*'
			}
		}
		return nil
	}
	if err := mark(stops, Stop); err != nil {
		return nil, err
	}
	if err := mark(starts, Start); err != nil {
		return nil, err
	}
	if err := mark(altStarts, AltStart); err != nil {
		return nil, err
	}
	return t, t.check()
}

func (t *Table) check() error {
	var nStart, nStop int
	for _, k := range t.kinds {
		switch k {
		case Start:
			nStart++
		case Stop:
			nStop++
		}
	}
	if nStart == 0 {
		return fmt.Errorf("genetic code %d has no start codon", t.ID)
	}
	if nStop == 0 {
		return fmt.Errorf("genetic code %d has no stop codon", t.ID)
	}
	return nil
}

// Lookup returns a built-in table by NCBI id.
func Lookup(id int) (*Table, error) {
	t, ok := builtin[id]
	if !ok {
		return nil, fmt.Errorf("unknown genetic code %d (known: %s)", id, knownIDs())
	}
	return t, nil
}

// Standard returns NCBI table 1.
func Standard() *Table { return builtin[1] }

// All returns the built-in tables ordered by id.
func All() []*Table {
	out := make([]*Table, 0, len(builtin))
	for _, t := range builtin {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func knownIDs() string {
	var ids []string
	for _, t := range All() {
		ids = append(ids, fmt.Sprint(t.ID))
	}
	return strings.Join(ids, ", ")
}
