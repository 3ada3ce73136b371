package writers

import (
	"fmt"
	"io"
	"strings"

	"orfmark/internal/annotate"
)

const gffSource = "orfmark"

var gffEscaper = strings.NewReplacer(
	"%", "%25",
	";", "%3B",
	"=", "%3D",
	",", "%2C",
	"&", "%26",
	"\t", "%09",
)

func init() {
	// GFF3, 1-based inclusive
	Register(FormatGFF3, func(w io.Writer, in <-chan annotate.Record, opt Options) error {
		if _, err := fmt.Fprintln(w, "##gff-version 3"); err != nil {
			return err
		}
		return each(in, opt, func(r annotate.Record) error {
			_, err := fmt.Fprintf(w, "%s\t%s\tORF\t%d\t%d\t.\t%s\t0\tID=%s;Name=%s;frame=%d;terminated=%t\n",
				gffEscaper.Replace(r.SequenceID), gffSource,
				r.Start+1, r.End, r.Strand.Sign(),
				gffEscaper.Replace(r.SequenceID+"_"+r.Label()),
				gffEscaper.Replace(r.Label()),
				r.Frame, r.Terminated,
			)
			return err
		})
	})

	// BED6, 0-based half-open
	Register(FormatBED, func(w io.Writer, in <-chan annotate.Record, opt Options) error {
		if opt.Header {
			if _, err := fmt.Fprintf(w, "track name=%s description=\"open reading frames\"\n", gffSource); err != nil {
				return err
			}
		}
		return each(in, opt, func(r annotate.Record) error {
			_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\t0\t%s\n",
				r.SequenceID, r.Start, r.End, r.Label(), r.Strand.Sign())
			return err
		})
	})
}
