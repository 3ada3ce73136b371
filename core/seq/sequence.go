// core/seq/sequence.go
package seq

import "fmt"

// Sequence is a read-only nucleotide buffer.
type Sequence struct {
	ID   string
	Data []byte
}

func (s Sequence) Len() int { return len(s.Data) }

// Region is a half-open [Start, End) range. The zero Region selects the
// whole sequence.
type Region struct {
	Start int
	End   int
}

func (r Region) IsZero() bool { return r.Start == 0 && r.End == 0 }

func (r Region) Len() int { return r.End - r.Start }

// Resolve replaces the zero Region with [0, n) and checks bounds.
func (r Region) Resolve(n int) (Region, error) {
	if r.IsZero() {
		return Region{0, n}, nil
	}
	if r.Start < 0 || r.End > n || r.Start >= r.End {
		return r, fmt.Errorf("region %d-%d outside sequence of length %d", r.Start, r.End, n)
	}
	return r, nil
}

func (r Region) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// Strand is the reading direction of a hit.
type Strand int

const (
	Direct Strand = iota
	Complement
)

// Sign returns "+" or "-".
func (s Strand) Sign() string {
	if s == Complement {
		return "-"
	}
	return "+"
}

func (s Strand) String() string {
	if s == Complement {
		return "complement"
	}
	return "direct"
}

// StrandSelection is the set of strands a search covers.
type StrandSelection int

const (
	SelectNone StrandSelection = iota
	SelectDirect
	SelectComplement
	SelectBoth
)

// ParseStrandSelection accepts direct, complement or both.
func ParseStrandSelection(s string) (StrandSelection, error) {
	switch s {
	case "direct", "+":
		return SelectDirect, nil
	case "complement", "-":
		return SelectComplement, nil
	case "both", "":
		return SelectBoth, nil
	}
	return SelectNone, fmt.Errorf("unknown strand %q (want direct, complement or both)", s)
}

// Strands expands the selection, Direct first.
func (s StrandSelection) Strands() []Strand {
	switch s {
	case SelectDirect:
		return []Strand{Direct}
	case SelectComplement:
		return []Strand{Complement}
	case SelectBoth:
		return []Strand{Direct, Complement}
	}
	return nil
}

func (s StrandSelection) String() string {
	switch s {
	case SelectDirect:
		return "direct"
	case SelectComplement:
		return "complement"
	case SelectBoth:
		return "both"
	}
	return "none"
}
