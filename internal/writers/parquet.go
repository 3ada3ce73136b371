package writers

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"orfmark/internal/annotate"
)

// orfRow is the Parquet row layout; column names match api.ORFV1.
type orfRow struct {
	SequenceID   string `parquet:"sequence_id"`
	Name         string `parquet:"name"`
	Start        int64  `parquet:"start"`
	End          int64  `parquet:"end"`
	Length       int64  `parquet:"length"`
	Strand       string `parquet:"strand"`
	Frame        int32  `parquet:"frame"`
	Terminated   bool   `parquet:"terminated"`
	IncludesStop bool   `parquet:"includes_stop"`
	SourceFile   string `parquet:"source_file"`
}

const parquetBatch = 1024

func init() {
	Register(FormatParquet, func(w io.Writer, in <-chan annotate.Record, opt Options) error {
		pw := parquet.NewGenericWriter[orfRow](w, parquet.Compression(&parquet.Snappy))
		batch := make([]orfRow, 0, parquetBatch)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if _, err := pw.Write(batch); err != nil {
				return fmt.Errorf("parquet: write rows: %w", err)
			}
			batch = batch[:0]
			return nil
		}
		err := each(in, opt, func(r annotate.Record) error {
			batch = append(batch, toRow(r))
			if len(batch) == parquetBatch {
				return flush()
			}
			return nil
		})
		if err == nil {
			err = flush()
		}
		if cerr := pw.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("parquet: close writer: %w", cerr)
		}
		return err
	})
}

func toRow(r annotate.Record) orfRow {
	return orfRow{
		SequenceID:   r.SequenceID,
		Name:         r.Label(),
		Start:        int64(r.Start),
		End:          int64(r.End),
		Length:       int64(r.Length()),
		Strand:       r.Strand.Sign(),
		Frame:        int32(r.Frame),
		Terminated:   r.Terminated,
		IncludesStop: r.IncludesStop,
		SourceFile:   r.SourceFile,
	}
}
