package appcore

import (
	"io"

	"orfmark/internal/annotate"
	"orfmark/internal/writers"
)

// WriterFactory starts the record writer of a run.
type WriterFactory interface {
	NeedSeq() bool
	Start(out io.Writer, bufSize int) (chan<- annotate.Record, <-chan error)
}

// RecordWriterFactory dispatches to the writers registry.
type RecordWriterFactory struct {
	Format string
	Sort   bool
	Header bool
}

func NewRecordWriterFactory(format string, sort, header bool) RecordWriterFactory {
	return RecordWriterFactory{Format: format, Sort: sort, Header: header}
}

func (w RecordWriterFactory) NeedSeq() bool { return writers.NeedsSeq(w.Format) }

func (w RecordWriterFactory) Start(out io.Writer, bufSize int) (chan<- annotate.Record, <-chan error) {
	return writers.StartWriter(out, w.Format, writers.Options{Sort: w.Sort, Header: w.Header}, bufSize)
}

// ContentType is the MIME type recorded on uploaded artifacts.
func ContentType(format string) string {
	switch format {
	case writers.FormatJSON:
		return "application/json"
	case writers.FormatJSONL:
		return "application/x-ndjson"
	case writers.FormatTSV:
		return "text/tab-separated-values"
	case writers.FormatParquet:
		return "application/vnd.apache.parquet"
	case writers.FormatGFF3:
		return "text/x-gff3"
	}
	return "text/plain"
}
