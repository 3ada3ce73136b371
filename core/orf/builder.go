package orf

import "orfmark/core/gcode"

type openStart struct {
	offset int
	pseudo bool
}

// builder pairs starts with stops for one (strand, frame). It is Seeking
// while starts is empty and Open otherwise. Emitted spans are local to the
// scanned view.
type builder struct {
	set    *Settings
	starts []openStart
	// wantPseudo is set when, without a required init codon, the next
	// non-stop codon opens an ORF.
	wantPseudo bool
	out        []span
}

type span struct {
	start, end  int
	terminated  bool
	pseudoStart bool
}

func newBuilder(set *Settings) *builder {
	return &builder{set: set, wantPseudo: !set.RequireInitCodon}
}

func (b *builder) isStart(kind gcode.CodonKind) bool {
	return kind == gcode.Start || (kind == gcode.AltStart && b.set.AllowAltInit)
}

func (b *builder) codon(offset int, kind gcode.CodonKind) {
	if kind == gcode.Stop {
		for _, s := range b.starts {
			b.out = append(b.out, span{start: s.offset, end: offset + 3, terminated: true, pseudoStart: s.pseudo})
		}
		b.starts = b.starts[:0]
		b.wantPseudo = !b.set.RequireInitCodon
		return
	}

	if len(b.starts) == 0 {
		switch {
		case b.isStart(kind):
			b.starts = append(b.starts, openStart{offset: offset})
		case b.wantPseudo:
			b.starts = append(b.starts, openStart{offset: offset, pseudo: true})
		}
		b.wantPseudo = false
		return
	}

	// Only the most upstream start is kept unless nested initiators are allowed.
	if b.set.AllowAltInit && b.isStart(kind) {
		b.starts = append(b.starts, openStart{offset: offset})
	}
}

// finish closes the scan at viewLen.
func (b *builder) finish(viewLen int) {
	if !b.set.RequireStopCodon {
		for _, s := range b.starts {
			b.out = append(b.out, span{start: s.offset, end: viewLen, pseudoStart: s.pseudo})
		}
	}
	b.starts = b.starts[:0]
}
