// core/seq/rc.go
package seq

var complement [256]byte

func init() {
	pairs := []struct{ a, b byte }{
		{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'}, {'U', 'A'},
		{'R', 'Y'}, {'Y', 'R'},
		{'S', 'S'}, {'W', 'W'},
		{'K', 'M'}, {'M', 'K'},
		{'B', 'V'}, {'V', 'B'},
		{'D', 'H'}, {'H', 'D'},
		{'N', 'N'},
	}
	for _, p := range pairs {
		complement[p.a] = p.b
		complement[p.a+'a'-'A'] = p.b + 'a' - 'A'
	}
}

// RevComp returns the reverse complement of seq. Case is preserved; U
// complements to A; unknown symbols become N.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}
