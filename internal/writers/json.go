package writers

import (
	"io"

	"orfmark/internal/annotate"
	"orfmark/internal/jsonutil"
	"orfmark/pkg/api"
)

func init() {
	// JSON array (always buffered)
	Register(FormatJSON, func(w io.Writer, in <-chan annotate.Record, opt Options) error {
		list := drain(in, opt)
		out := make([]api.ORFV1, 0, len(list))
		for _, r := range list {
			out = append(out, annotate.ToAPI(r))
		}
		return jsonutil.EncodePretty(w, out)
	})

	// JSONL, one api.ORFV1 per line
	Register(FormatJSONL, func(w io.Writer, in <-chan annotate.Record, opt Options) error {
		enc := jsonutil.NewEncoder(w)
		return each(in, opt, func(r annotate.Record) error {
			return enc.Encode(annotate.ToAPI(r))
		})
	})
}
