package fasta

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const plain = `>seq1 first record
ACGT
acgt
>seq2
NN nn
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func gz(t *testing.T, data string) []byte {
	t.Helper()
	var b bytes.Buffer
	gw := gzip.NewWriter(&b)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return b.Bytes()
}

func zst(t *testing.T, data string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll([]byte(data), nil)
}

func collect(t *testing.T, path string) []Record {
	t.Helper()
	var out []Record
	if err := StreamPathCtx(context.Background(), path, func(r Record) error {
		out = append(out, r)
		return nil
	}); err != nil {
		t.Fatalf("stream %s: %v", path, err)
	}
	return out
}

func TestStreamPlain(t *testing.T) {
	recs := collect(t, writeFile(t, "x.fa", []byte(plain)))
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %d", len(recs))
	}
	if recs[0].ID != "seq1" || recs[0].Desc != "first record" || string(recs[0].Seq) != "ACGTacgt" {
		t.Fatalf("bad first record: %+v", recs[0])
	}
	if recs[1].ID != "seq2" || string(recs[1].Seq) != "NNnn" {
		t.Fatalf("bad second record: %+v", recs[1])
	}
}

func TestStreamGzip(t *testing.T) {
	// No .gz suffix: detection must use the magic number.
	recs := collect(t, writeFile(t, "x.fasta", gz(t, plain)))
	if len(recs) != 2 || recs[0].ID != "seq1" || recs[1].ID != "seq2" {
		t.Fatalf("gzip parse failed: %+v", recs)
	}
}

func TestStreamZstd(t *testing.T) {
	recs := collect(t, writeFile(t, "x.fa.zst", zst(t, plain)))
	if len(recs) != 2 || string(recs[0].Seq) != "ACGTacgt" {
		t.Fatalf("zstd parse failed: %+v", recs)
	}
}

func TestStreamStdin(t *testing.T) {
	// Fake stdin by swapping os.Stdin
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, plain)
		_ = w.Close()
	}()

	if recs := collect(t, "-"); len(recs) != 2 {
		t.Fatalf("expected 2 records from stdin, got %d", len(recs))
	}
}

func TestStreamEmptyRecordAndComments(t *testing.T) {
	var ids []string
	var lens []int
	err := StreamCtx(context.Background(), strings.NewReader(">a\n>b\n;comment\nAC\n"), func(r Record) error {
		ids = append(ids, r.ID)
		lens = append(lens, len(r.Seq))
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if strings.Join(ids, ",") != "a,b" || lens[0] != 0 || lens[1] != 2 {
		t.Fatalf("ids=%v lens=%v", ids, lens)
	}
}

func TestStreamCtx_CancelImmediately_YieldsNoRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already canceled

	n := 0
	err := StreamCtx(ctx, strings.NewReader(plain), func(Record) error { n++; return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 records due to immediate cancel, got %d", n)
	}
}

func TestEmitErrorStops(t *testing.T) {
	stop := errors.New("stop")
	n := 0
	err := StreamCtx(context.Background(), strings.NewReader(plain), func(Record) error { n++; return stop })
	if !errors.Is(err, stop) || n != 1 {
		t.Fatalf("err=%v n=%d", err, n)
	}
}

func TestStreamPaths(t *testing.T) {
	a := writeFile(t, "a.fa", []byte(">a\nATG\n"))
	b := writeFile(t, "b.fa.gz", gz(t, ">b\nTAG\n"))

	recs, errs := StreamPaths(context.Background(), []string{a, b})
	var ids, srcs []string
	for r := range recs {
		ids = append(ids, r.ID)
		srcs = append(srcs, r.Source)
	}
	if err := <-errs; err != nil {
		t.Fatalf("stream: %v", err)
	}
	if strings.Join(ids, ",") != "a,b" {
		t.Fatalf("ids=%v", ids)
	}
	if len(srcs) != 2 || srcs[0] != a || srcs[1] != b {
		t.Fatalf("sources=%v", srcs)
	}

	recs, errs = StreamPaths(context.Background(), []string{filepath.Join(t.TempDir(), "missing.fa")})
	for range recs {
	}
	if err := <-errs; err == nil {
		t.Fatal("expected open error for missing file")
	}
}
