// Package annotate turns engine candidates into named annotation records,
// the form every writer and the store consume.
package annotate

import (
	"log/slog"
	"strconv"
	"strings"

	"orfmark/core/orf"
	"orfmark/core/seq"
	"orfmark/pkg/api"
)

// DefaultName is used when no annotation name is configured.
const DefaultName = "ORF"

// Record is one ORF annotation on one input sequence.
type Record struct {
	SourceFile string
	SeqIndex   int // input order across the whole run
	SequenceID string

	Name  string
	Index int // 1-based within the sequence

	Start        int
	End          int
	Strand       seq.Strand
	Frame        int
	Terminated   bool
	IncludesStop bool

	// Seq is the ORF read 5'->3' on its own strand; set only when a writer
	// needs it.
	Seq []byte
}

func (r Record) Length() int { return r.End - r.Start }

// Label is the feature label, e.g. "ORF_3".
func (r Record) Label() string {
	return r.Name + "_" + strconv.Itoa(r.Index)
}

// Sink maps search results to Records.
type Sink struct {
	Name    string
	WithSeq bool
}

// NewSink returns a Sink labelling records with name. An empty name falls
// back to DefaultName with a warning.
func NewSink(name string, withSeq bool, log *slog.Logger) Sink {
	name = strings.TrimSpace(name)
	if name == "" {
		if log != nil {
			log.Warn("annotation name is empty, default name used", "name", DefaultName)
		}
		name = DefaultName
	}
	return Sink{Name: name, WithSeq: withSeq}
}

// Records converts res, found on s, into annotation records.
func (k Sink) Records(source string, seqIndex int, s seq.Sequence, res orf.Result) []Record {
	out := make([]Record, 0, len(res.ORFs))
	for i, c := range res.ORFs {
		r := Record{
			SourceFile:   source,
			SeqIndex:     seqIndex,
			SequenceID:   s.ID,
			Name:         k.Name,
			Index:        i + 1,
			Start:        c.Start,
			End:          c.End,
			Strand:       c.Strand,
			Frame:        c.Frame,
			Terminated:   c.Terminated,
			IncludesStop: c.IncludesStop,
		}
		if k.WithSeq {
			r.Seq = Extract(s.Data, c)
		}
		out = append(out, r)
	}
	return out
}

// Extract returns the ORF nucleotides in reading direction.
func Extract(data []byte, c orf.Candidate) []byte {
	sub := data[c.Start:c.End]
	if c.Strand == seq.Complement {
		return seq.RevComp(sub)
	}
	return append([]byte(nil), sub...)
}

// ToAPI converts a Record into the stable wire schema.
func ToAPI(r Record) api.ORFV1 {
	return api.ORFV1{
		SequenceID:   r.SequenceID,
		Name:         r.Label(),
		Start:        r.Start,
		End:          r.End,
		Length:       r.Length(),
		Strand:       r.Strand.Sign(),
		Frame:        r.Frame,
		Terminated:   r.Terminated,
		IncludesStop: r.IncludesStop,
		Seq:          string(r.Seq),
		SourceFile:   r.SourceFile,
	}
}
