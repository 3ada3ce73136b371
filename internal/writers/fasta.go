package writers

import (
	"fmt"
	"io"

	"orfmark/internal/annotate"
)

const fastaWidth = 60

func init() {
	Register(FormatFASTA, func(w io.Writer, in <-chan annotate.Record, opt Options) error {
		return each(in, opt, func(r annotate.Record) error {
			return writeFASTARecord(w, r)
		})
	})
}

func writeFASTARecord(w io.Writer, r annotate.Record) error {
	if _, err := fmt.Fprintf(w, ">%s_%s %d..%d %s frame=%d\n",
		r.SequenceID, r.Label(), r.Start+1, r.End, r.Strand.Sign(), r.Frame); err != nil {
		return err
	}
	for i := 0; i < len(r.Seq); i += fastaWidth {
		j := i + fastaWidth
		if j > len(r.Seq) {
			j = len(r.Seq)
		}
		if _, err := w.Write(r.Seq[i:j]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
