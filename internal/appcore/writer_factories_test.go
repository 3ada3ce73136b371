package appcore

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"orfmark/core/seq"
	"orfmark/internal/annotate"
	"orfmark/internal/writers"
)

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRecordWriterFactoryNeedSeq(t *testing.T) {
	if !NewRecordWriterFactory(writers.FormatFASTA, false, false).NeedSeq() {
		t.Fatal("fasta needs sequence")
	}
	if NewRecordWriterFactory(writers.FormatTSV, false, false).NeedSeq() {
		t.Fatal("tsv does not need sequence")
	}
}

func TestRecordWriterFactoryStart(t *testing.T) {
	var b bytes.Buffer
	in, done := NewRecordWriterFactory(writers.FormatBED, false, false).Start(&b, 2)
	in <- annotate.Record{SequenceID: "a", Name: "ORF", Index: 1, Start: 0, End: 9, Strand: seq.Complement}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), "a\t0\t9\tORF_1\t0\t-\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestContentType(t *testing.T) {
	if ContentType(writers.FormatJSON) != "application/json" || ContentType(writers.FormatText) != "text/plain" {
		t.Fatal("content type mismatch")
	}
}
