package gcode

// NCBI genetic codes (AAs / Starts lines, bases in T C A G order).
var ncbi = []struct {
	id     int
	name   string
	aas    string
	starts string
}{
	{1, "Standard",
		"FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
		"---M------**--*----M---------------M----------------------------"},
	{2, "Vertebrate Mitochondrial",
		"FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNKKSS**VVVVAAAADDEEGGGG",
		"----------**--------------------MMMM----------**---M------------"},
	{3, "Yeast Mitochondrial",
		"FFLLSSSSYY**CCWWTTTTPPPPHHQQRRRRIIMMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
		"----------**----------------------MM---------------M------------"},
	{4, "Mold, Protozoan, and Coelenterate Mitochondrial; Mycoplasma; Spiroplasma",
		"FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
		"--MM------**-------M------------MMMM---------------M------------"},
	{5, "Invertebrate Mitochondrial",
		"FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNKKSSSSVVVVAAAADDEEGGGG",
		"---M------**--------------------MMMM---------------M------------"},
	{6, "Ciliate, Dasycladacean and Hexamita Nuclear",
		"FFLLSSSSYYQQCC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
		"--------------*--------------------M----------------------------"},
	{11, "Bacterial, Archaeal and Plant Plastid",
		"FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG",
		"---M------**--*----M------------MMMM---------------M------------"},
}

var builtin = map[int]*Table{}

func init() {
	for _, c := range ncbi {
		t, err := FromNCBI(c.id, c.name, c.aas, c.starts)
		if err != nil {
			panic(err)
		}
		builtin[c.id] = t
	}
}
