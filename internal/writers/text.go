package writers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"orfmark/internal/annotate"
)

// TSVHeader is the column header of the tsv format.
const TSVHeader = "sequence_id\tname\tstart\tend\tlength\tstrand\tframe\tterminated\tincludes_stop"

func init() {
	Register(FormatText, writeText)

	Register(FormatTSV, func(w io.Writer, in <-chan annotate.Record, opt Options) error {
		if opt.Header {
			if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
				return err
			}
		}
		return each(in, opt, func(r annotate.Record) error {
			_, err := fmt.Fprintln(w, strings.Join([]string{
				r.SequenceID,
				r.Label(),
				strconv.Itoa(r.Start),
				strconv.Itoa(r.End),
				strconv.Itoa(r.Length()),
				r.Strand.Sign(),
				strconv.Itoa(r.Frame),
				strconv.FormatBool(r.Terminated),
				strconv.FormatBool(r.IncludesStop),
			}, "\t"))
			return err
		})
	})
}

// writeText renders an aligned table; locations are 1-based inclusive.
func writeText(w io.Writer, in <-chan annotate.Record, opt Options) error {
	list := drain(in, opt)
	if len(list) == 0 {
		return nil
	}
	var header []string
	if opt.Header {
		header = []string{"Sequence", "Name", "Location", "Length", "Strand", "Frame", "Stop"}
	}
	table := NewTable(w, header)
	for _, r := range list {
		stop := "no"
		if r.Terminated {
			stop = "yes"
		}
		table.Append([]string{
			r.SequenceID,
			r.Label(),
			fmt.Sprintf("%d..%d", r.Start+1, r.End),
			strconv.Itoa(r.Length()),
			r.Strand.Sign(),
			strconv.Itoa(r.Frame),
			stop,
		})
	}
	table.Render()
	return nil
}

// NewTable returns a borderless, left-aligned table. A nil header omits
// the header row.
func NewTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	if header != nil {
		table.SetHeader(header)
	}
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return table
}
