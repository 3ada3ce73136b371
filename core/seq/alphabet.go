// core/seq/alphabet.go
package seq

import "fmt"

// nucleotide marks every IUPAC nucleotide symbol, both cases.
var nucleotide [256]bool

// canonical maps A/C/G/T/U (either case) to 0..3; everything else is -1.
var canonical [256]int8

func init() {
	for i := range canonical {
		canonical[i] = -1
	}
	for _, c := range []byte("ACGTURYSWKMBDHVN") {
		nucleotide[c] = true
		nucleotide[c+'a'-'A'] = true
	}
	set := func(c byte, v int8) {
		canonical[c] = v
		canonical[c+'a'-'A'] = v
	}
	set('T', 0)
	set('U', 0)
	set('C', 1)
	set('A', 2)
	set('G', 3)
}

// BaseIndex returns the NCBI ordering index of b (T/U=0 C=1 A=2 G=3), or -1
// for anything that is not an unambiguous base.
func BaseIndex(b byte) int { return int(canonical[b]) }

// IsNucleotide reports whether b is an IUPAC nucleotide code.
func IsNucleotide(b byte) bool { return nucleotide[b] }

// Validate returns an error naming the first symbol outside the IUPAC
// nucleotide alphabet.
func Validate(data []byte) error {
	for i, b := range data {
		if !nucleotide[b] {
			return fmt.Errorf("invalid symbol %q at %d; allowed: A C G T U R Y S W K M B D H V N", b, i+1)
		}
	}
	return nil
}

// LooksNucleotide is the cheap check callers use to skip protein records:
// true when every symbol is an IUPAC nucleotide code.
func LooksNucleotide(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, b := range data {
		if !nucleotide[b] {
			return false
		}
	}
	return true
}
