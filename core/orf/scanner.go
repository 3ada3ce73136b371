package orf

import "orfmark/core/gcode"

// frameScanner walks the non-overlapping codons of view starting at frame.
// Offsets are local to view. It holds nothing but its cursor, so any number
// of scanners may read the same view concurrently.
type frameScanner struct {
	view  []byte
	table *gcode.Table
	pos   int
}

func newFrameScanner(view []byte, frame int, table *gcode.Table) *frameScanner {
	return &frameScanner{view: view, table: table, pos: frame}
}

// next returns the offset and kind of the following codon; ok is false once
// no complete codon is left.
func (s *frameScanner) next() (offset int, kind gcode.CodonKind, ok bool) {
	if s.pos+3 > len(s.view) {
		return 0, gcode.Ordinary, false
	}
	offset = s.pos
	s.pos += 3
	return offset, s.table.Classify(s.view[offset : offset+3]), true
}
