// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"orfmark/internal/annotate"
)

// Output formats.
const (
	FormatText    = "text"
	FormatTSV     = "tsv"
	FormatJSON    = "json"
	FormatJSONL   = "jsonl"
	FormatGFF3    = "gff3"
	FormatBED     = "bed"
	FormatFASTA   = "fasta"
	FormatParquet = "parquet"
)

// Options tune a writer run.
type Options struct {
	Sort   bool // buffer and order by input sequence before writing
	Header bool // column header for text/tsv, track line for bed
}

// WriteFunc consumes every record from in and serializes it to w.
type WriteFunc func(w io.Writer, in <-chan annotate.Record, opt Options) error

// Writers maps format → handler. Register in init() blocks of the format files.
var Writers = map[string]WriteFunc{}

// Register adds or replaces (last wins) the handler for format.
func Register(format string, fn WriteFunc) { Writers[format] = fn }

// Formats lists the registered formats in lexical order.
func Formats() []string {
	out := make([]string, 0, len(Writers))
	for f := range Writers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether a handler is registered for format.
func Supported(format string) bool {
	_, ok := Writers[format]
	return ok
}

// NeedsSeq reports whether format prints ORF nucleotides.
func NeedsSeq(format string) bool {
	return format == FormatFASTA
}

// Write dispatches to the handler registered for format.
func Write(format string, w io.Writer, in <-chan annotate.Record, opt Options) error {
	fn, ok := Writers[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, in, opt)
}

// StartWriter spins up a writer goroutine. Send records on the returned
// channel, close it, then read the single error from done.
func StartWriter(out io.Writer, format string, opt Options, bufSize int) (chan<- annotate.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan annotate.Record, bufSize)
	done := make(chan error, 1)
	go func() {
		err := Write(format, out, in, opt)
		// keep producers from blocking after an early failure
		for range in {
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		done <- err
	}()
	return in, done
}

func drain(in <-chan annotate.Record, opt Options) []annotate.Record {
	list := make([]annotate.Record, 0, 128)
	for r := range in {
		list = append(list, r)
	}
	if opt.Sort {
		sortRecords(list)
	}
	return list
}

// sortRecords orders by input position, then by the engine's per-sequence order.
func sortRecords(list []annotate.Record) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.SeqIndex != b.SeqIndex {
			return a.SeqIndex < b.SeqIndex
		}
		return a.Index < b.Index
	})
}

// each walks in either directly (streaming) or through a sorted buffer.
func each(in <-chan annotate.Record, opt Options, fn func(annotate.Record) error) error {
	if !opt.Sort {
		for r := range in {
			if err := fn(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range drain(in, opt) {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
